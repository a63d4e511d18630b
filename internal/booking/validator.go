package booking

// Place identifies one seat of a session's grid.  Row and Seat are
// 1-based; (row=1, seat=1) is the first seat of the first row.
type Place struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// SeatPick is one requested seat assignment inside a reservation.
type SeatPick struct {
	SessionID uint64
	Row       int
	Seat      int
}

// ValidateSeat decides whether (row, seat) is a legal, free seat on a
// rows x seatsPerRow grid given the set of already taken places.  The
// checks run cheapest first and the first failure wins:
//
//  1. row outside [1, rows]         -> *RangeError{Field: "Row"}
//  2. seat outside [1, seatsPerRow] -> *RangeError{Field: "Seat"}
//  3. (row, seat) already taken     -> ErrSeatTaken
//
// The lower bound is inclusive-1: row 0 and seat 0 are rejected even
// though seats are sometimes sloppily described as "up to N".  The
// function has no side effects; callers re-run it inside the
// reservation transaction against the transaction's view of taken.
func ValidateSeat(rows, seatsPerRow, row, seat int, taken map[Place]bool) error {
	if row < 1 || row > rows {
		return &RangeError{Field: "Row", Max: rows}
	}
	if seat < 1 || seat > seatsPerRow {
		return &RangeError{Field: "Seat", Max: seatsPerRow}
	}
	if taken[Place{Row: row, Seat: seat}] {
		return ErrSeatTaken
	}
	return nil
}
