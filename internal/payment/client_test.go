package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashRequest() *Request {
	return &Request{
		FuncionID: 42,
		SeatIDs:   []int64{1, 2},
		Total:     40,
		Method:    "Cash",
		Buyer:     BuyerInfo{Name: "Juan Pérez", Email: "juan@example.com", Phone: "987654321"},
	}
}

func TestProcessPaymentSuccess(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Pagos/procesar-pago", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"referenciaTransaccion": "TX123", "mensaje": "pago exitoso"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	conf, err := c.ProcessPayment(context.Background(), cashRequest())
	require.NoError(t, err)

	assert.Equal(t, "TX123", conf.Reference)
	assert.Equal(t, "pago exitoso", conf.Message)

	assert.Equal(t, float64(42), gotBody["funcionId"])
	assert.Equal(t, "Cash", gotBody["metodoPago"])
	assert.Equal(t, float64(40), gotBody["total"])
	// cash requests must not carry a tarjetaInfo block at all
	_, hasCard := gotBody["tarjetaInfo"]
	assert.False(t, hasCard)

	buyer, ok := gotBody["usuarioInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Juan Pérez", buyer["nombre"])
	assert.Equal(t, "987654321", buyer["telefono"])
}

func TestProcessPaymentSendsCardBlock(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"referenciaTransaccion": "TX124", "mensaje": "ok"}`))
	}))
	defer srv.Close()

	req := cashRequest()
	req.Method = "Card"
	req.Card = &CardInfo{Number: "1234567890123456", Expiry: "12/30", CVV: "123"}

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.ProcessPayment(context.Background(), req)
	require.NoError(t, err)

	card, ok := gotBody["tarjetaInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "1234567890123456", card["numero"])
	assert.Equal(t, "12/30", card["fechaExpiracion"])
	assert.Equal(t, "123", card["cvv"])
}

func TestProcessPaymentSurfacesErrorMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"mensaje": "fondos insuficientes"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	conf, err := c.ProcessPayment(context.Background(), cashRequest())
	assert.Nil(t, conf)
	require.Error(t, err)
	assert.Equal(t, "fondos insuficientes", err.Error())
}

func TestProcessPaymentFallbackMessages(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "error without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "error with malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("oops"))
			},
		},
		{
			name: "success with malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("oops"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewClient(srv.URL, 5*time.Second)
			conf, err := c.ProcessPayment(context.Background(), cashRequest())
			assert.Nil(t, conf)
			require.Error(t, err)
			assert.Equal(t, "error al procesar el pago", err.Error())
		})
	}
}

func TestProcessPaymentNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second)
	conf, err := c.ProcessPayment(context.Background(), cashRequest())
	assert.Nil(t, conf)
	assert.Error(t, err)
}
