// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketPlace is one booked place inside a confirmed reservation event.
type TicketPlace struct {
	SessionID uint64 `json:"show_session"`
	Row       int    `json:"row"`
	Seat      int    `json:"seat"`
}

// ReservationConfirmedEvent is published after a reservation commits.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64        `json:"reservation_id"`
	UserID        uint64        `json:"user_id"`
	Tickets       []TicketPlace `json:"tickets"`
	CreatedAt     string        `json:"created_at"`
}
