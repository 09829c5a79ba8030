// Package payment submits purchase requests to the external payment
// processor.  The checkout core does not interpret payment-network
// semantics: it only cares about success or failure, the transaction
// reference and the message coming back.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// BuyerInfo is the contact block of a payment request (usuarioInfo).
type BuyerInfo struct {
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Phone string `json:"telefono"`
}

// CardInfo is the card block of a payment request (tarjetaInfo).  It
// is present only when paying by card; the number is sent without the
// display grouping spaces.
type CardInfo struct {
	Number string `json:"numero"`
	Expiry string `json:"fechaExpiracion"`
	CVV    string `json:"cvv"`
}

// Request is the JSON body of POST /Pagos/procesar-pago.
type Request struct {
	FuncionID int64     `json:"funcionId"`
	SeatIDs   []int64   `json:"asientosIds"`
	Total     float64   `json:"total"`
	Method    string    `json:"metodoPago"`
	Buyer     BuyerInfo `json:"usuarioInfo"`
	Card      *CardInfo `json:"tarjetaInfo,omitempty"`
}

// Confirmation is the success response of the payment processor.  The
// contract only guarantees a transaction reference and a message.
type Confirmation struct {
	Reference string `json:"referenciaTransaccion"`
	Message   string `json:"mensaje"`
}

// errorBody is the shape of a non-2xx response; its message is
// surfaced to the user verbatim when present.
type errorBody struct {
	Message string `json:"mensaje"`
}

// fallbackMsg is shown when the processor fails without a usable
// message (network error, empty or malformed error body).
const fallbackMsg = "error al procesar el pago"

// Client submits payment requests.  It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a payment client for the given base URL.  The
// timeout is the only bound on an in-flight submission; the checkout
// machine never retries on its own.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ProcessPayment posts the purchase to the processor and decodes the
// outcome.  A non-2xx status yields an error carrying the body's
// "mensaje" field when the processor provided one.
func (c *Client) ProcessPayment(ctx context.Context, payload *Request) (*Confirmation, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.New(fallbackMsg)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Pagos/procesar-pago", bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(fallbackMsg)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.New(fallbackMsg)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Message != "" {
			return nil, errors.New(eb.Message)
		}
		return nil, errors.New(fallbackMsg)
	}
	var conf Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&conf); err != nil {
		return nil, errors.New(fallbackMsg)
	}
	return &conf, nil
}
