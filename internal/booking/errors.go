// Package booking holds the seat-assignment rules shared by the request
// validation path and the transactional reservation path.  The error
// values here are the full vocabulary a reservation attempt can fail
// with; handlers translate them into HTTP responses.
package booking

import (
	"errors"
	"fmt"
)

// ErrSeatTaken is returned when the requested (row, seat) pair is
// already ticketed for the session, either by a pre-existing ticket, a
// concurrently committed one, or an earlier pick of the same request.
// The message wording is part of the public API.
var ErrSeatTaken = errors.New("Ticket is already taken")

// ErrEmptyReservation is returned when a reservation request carries no
// seat picks at all.
var ErrEmptyReservation = errors.New("tickets list must not be empty")

// ErrSessionNotFound is returned when a pick references a session id
// that does not exist.
var ErrSessionNotFound = errors.New("show session not found")

// RangeError reports a row or seat number outside the dome's grid.
// Field is "Row" or "Seat" exactly as it appears in the client-facing
// message.  Max is the inclusive upper bound of the valid range.
type RangeError struct {
	Field string
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be in available range: (1, %d)", e.Field, e.Max)
}

// IsValidation reports whether err is one of the seat-pick validation
// failures, as opposed to an infrastructure error.  Validation failures
// map to HTTP 400; ErrSessionNotFound maps to 404.
func IsValidation(err error) bool {
	var re *RangeError
	return errors.Is(err, ErrSeatTaken) ||
		errors.Is(err, ErrEmptyReservation) ||
		errors.As(err, &re)
}
