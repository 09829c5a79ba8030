package model

// Seat describes one seat of a showtime's room as reported by the
// seat-inventory service, plus the selection flag owned by the
// checkout session.  Availability is written only when a fresh
// inventory payload is applied or when a purchase succeeds; the
// selection flag is written only by the session's seat selection and
// is cleared whenever the session is reopened for another showtime.
//
// Fields:
//  ID        – inventory identifier (asientos.id).
//  Row       – row label (asientos.fila), e.g. "A".
//  Number    – seat number within the row (asientos.numero).
//  RoomID    – room the seat belongs to (asientos.salaId).
//  Code      – row label + number (asientos.codigo), e.g. "A1".
//  Available – whether the seat can still be purchased.
//  Selected  – whether the current session picked the seat; never
//              true while Available is false.
type Seat struct {
	ID        int64  `json:"id"`        // asientos.id
	Row       string `json:"row"`       // asientos.fila
	Number    int    `json:"number"`    // asientos.numero
	RoomID    int64  `json:"room_id"`   // asientos.salaId
	Code      string `json:"code"`      // asientos.codigo
	Available bool   `json:"available"` // asientos.disponible
	Selected  bool   `json:"selected"`  // session-local selection flag
}
