// Package inventory talks to the external seat-inventory service.  It
// only reads: the seat map of a showtime is fetched over HTTP and
// handed to the checkout session, which owns it from then on.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SeatDTO mirrors one element of the "asientos" array returned by the
// inventory service.
type SeatDTO struct {
	ID        int64  `json:"id"`
	Row       string `json:"fila"`
	Number    int    `json:"numero"`
	RoomID    int64  `json:"salaId"`
	Available bool   `json:"disponible"`
	Code      string `json:"codigo"`
}

// SeatMap is the full payload of GET /Asientos/funcion/{funcionId}:
// the room description, the per-seat price and the seat list.
type SeatMap struct {
	Room     string    `json:"sala"`
	RoomType string    `json:"tipoSala"`
	Capacity int       `json:"capacidad"`
	Price    float64   `json:"precio"`
	Seats    []SeatDTO `json:"asientos"`
}

// Client fetches seat maps from the inventory service.  It is safe
// for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds an inventory client for the given base URL.  The
// timeout bounds the whole request including body read.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchSeats retrieves the seat map for a showtime.  Any failure mode
// (network error, non-2xx status, malformed body) is reduced to a
// single human-readable error suitable for showing in place of the
// seat grid; it never panics and never returns partial data.
func (c *Client) FetchSeats(ctx context.Context, funcionID int64) (*SeatMap, error) {
	url := fmt.Sprintf("%s/Asientos/funcion/%d", c.baseURL, funcionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New("error al cargar los asientos")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.New("error al cargar los asientos")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("error al cargar los asientos")
	}
	var data SeatMap
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.New("respuesta de asientos no válida")
	}
	return &data, nil
}
