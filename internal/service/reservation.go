// Package service contains the reservation workflow and the event
// publisher.  Handlers stay thin; the atomicity contract for creating
// reservations lives here.
package service

import (
	"context"

	"github.com/iliyamo/planetarium-reservation/internal/booking"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

// ReservationService creates reservations atomically.  It is the only
// write path into the tickets table; list views read around it with
// best-effort consistency.
type ReservationService struct {
	store repository.ReservationStore
}

func NewReservationService(store repository.ReservationStore) *ReservationService {
	if store == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{store: store}
}

// ReservationResult is what a successful creation returns: the
// reservation row and every ticket persisted under it, in pick order.
type ReservationResult struct {
	Reservation *model.Reservation
	Tickets     []model.Ticket
}

// Create reserves every pick for the user or nothing at all.
//
// The whole operation runs in one transaction: the reservation row is
// inserted first, then each pick is validated against the
// transaction's consistent view - which includes tickets inserted for
// earlier picks of this same request - and inserted.  Any failure
// rolls the transaction back, so no partial reservations ever persist.
// A concurrent request claiming the same place loses on the tickets
// unique key; the resulting duplicate-key error surfaces here as
// booking.ErrSeatTaken, exactly as if the seat had been taken up
// front.
func (s *ReservationService) Create(ctx context.Context, userID uint64, picks []booking.SeatPick) (*ReservationResult, error) {
	if len(picks) == 0 {
		return nil, booking.ErrEmptyReservation
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec, err := tx.InsertReservation(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Grid dimensions and taken places are cached per session for the
	// duration of the transaction; taken sets grow as picks succeed so
	// duplicates inside one request fail like any other conflict.
	type grid struct{ rows, seatsPerRow int }
	grids := make(map[uint64]grid)
	taken := make(map[uint64]map[booking.Place]bool)

	tickets := make([]model.Ticket, 0, len(picks))
	for _, pick := range picks {
		g, ok := grids[pick.SessionID]
		if !ok {
			rows, seatsPerRow, err := tx.SessionGrid(ctx, pick.SessionID)
			if err != nil {
				return nil, err
			}
			g = grid{rows: rows, seatsPerRow: seatsPerRow}
			grids[pick.SessionID] = g

			places, err := tx.TakenPlaces(ctx, pick.SessionID)
			if err != nil {
				return nil, err
			}
			taken[pick.SessionID] = places
		}

		if err := booking.ValidateSeat(g.rows, g.seatsPerRow, pick.Row, pick.Seat, taken[pick.SessionID]); err != nil {
			return nil, err
		}

		ticketID, err := tx.InsertTicket(ctx, rec.ID, pick.SessionID, pick.Row, pick.Seat)
		if err != nil {
			return nil, err
		}
		taken[pick.SessionID][booking.Place{Row: pick.Row, Seat: pick.Seat}] = true
		tickets = append(tickets, model.Ticket{
			ID:            ticketID,
			SessionID:     pick.SessionID,
			ReservationID: rec.ID,
			Row:           pick.Row,
			Seat:          pick.Seat,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &ReservationResult{Reservation: rec, Tickets: tickets}, nil
}

// ListByUser returns one page of the user's reservations plus the
// total count.  Page and pageSize are assumed already clamped.
func (s *ReservationService) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]repository.ReservationItem, int, error) {
	return s.store.ListByUser(ctx, userID, page, pageSize)
}
