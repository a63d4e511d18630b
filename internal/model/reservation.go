package model

import "time"

// Reservation groups the tickets a user booked in one request.  A
// reservation always owns at least one ticket; both rows are created in
// the same transaction and are never mutated afterwards.  Deleting a
// reservation cascades to its tickets.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation.
//  CreatedAt – server-assigned creation timestamp, immutable.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	CreatedAt time.Time // reservations.created_at
}

// Ticket claims one seat of one session for a reservation.  The triple
// (SessionID, Row, Seat) is unique across all tickets; the `tickets`
// table enforces it with the uq_ticket_place key.  Row and Seat are
// 1-based and must lie inside the session's dome grid.
//
// Fields:
//  ID            – primary key identifier.
//  SessionID     – session the seat belongs to.
//  ReservationID – owning reservation.
//  Row           – seat row, 1..dome.SeatRows.
//  Seat          – seat number within the row, 1..dome.SeatsPerRow.
//  CreatedAt     – creation timestamp.
type Ticket struct {
	ID            uint64    // tickets.id
	SessionID     uint64    // tickets.session_id
	ReservationID uint64    // tickets.reservation_id
	Row           int       // tickets.row_num
	Seat          int       // tickets.seat_num
	CreatedAt     time.Time // tickets.created_at
}
