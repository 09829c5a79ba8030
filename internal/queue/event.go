// Package queue defines message payloads exchanged over the message broker.
package queue

// PurchaseConfirmedEvent is published when a ticket purchase clears
// the payment processor.  It carries enough for downstream consumers
// (email receipts, analytics) to act without calling back into the
// checkout service, whose session is gone by then anyway.
type PurchaseConfirmedEvent struct {
	FuncionID   int64    `json:"funcion_id"`
	SeatCodes   []string `json:"seats"`
	Total       float64  `json:"total"`
	Method      string   `json:"payment_method"`
	Reference   string   `json:"transaction_reference"`
	BuyerEmail  string   `json:"buyer_email"`
	ConfirmedAt string   `json:"confirmed_at"`
}
