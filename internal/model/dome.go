package model

import "time"

// Dome describes a physical planetarium room with a rectangular seating
// grid.  Rows and seats are numbered starting at 1.  Capacity is always
// derived from the grid and never stored.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – dome name.
//  SeatRows    – number of seating rows, > 0.
//  SeatsPerRow – number of seats in each row, > 0.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Dome struct {
	ID          uint64    // domes.id
	Name        string    // domes.name
	SeatRows    int       // domes.seat_rows
	SeatsPerRow int       // domes.seats_per_row
	CreatedAt   time.Time // domes.created_at
	UpdatedAt   time.Time // domes.updated_at
}

// Capacity returns the total number of seats in the dome.
func (d Dome) Capacity() int { return d.SeatRows * d.SeatsPerRow }
