package model

// ShowtimeContext carries the immutable facts about the showtime a
// checkout session was opened for.  It is supplied by the host page
// when the modal opens and enriched once from the first inventory
// payload; the checkout core never mutates it afterwards.
//
// Fields:
//  FuncionID    – showtime identifier used by the inventory and
//                 payment services.
//  Room         – room name (sala).
//  RoomType     – room type label (tipoSala), e.g. "2D", "3D".
//  Capacity     – total seats in the room (capacidad).
//  PricePerSeat – price of a single seat in soles (precio).
type ShowtimeContext struct {
	FuncionID    int64   // funcion id for both external services
	Room         string  // sala
	RoomType     string  // tipoSala
	Capacity     int     // capacidad
	PricePerSeat float64 // precio
}
