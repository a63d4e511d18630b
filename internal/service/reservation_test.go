package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/planetarium-reservation/internal/booking"
	"github.com/iliyamo/planetarium-reservation/internal/model"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
)

// mockStore implements repository.ReservationStore over in-memory
// state.  Each Begin hands out a tx sharing the same state, which is
// enough to exercise the workflow's contract; the real serialization
// of concurrent transactions is the database's job.
type mockStore struct {
	sessions map[uint64]mockSession
	tx       *mockTx

	beginCalls int
	beginErr   error
}

type mockSession struct {
	rows, seatsPerRow int
	taken             []booking.Place
}

type mockTx struct {
	store *mockStore

	nextReservationID uint64
	nextTicketID      uint64
	insertedTickets   []model.Ticket
	reservations      int

	insertTicketErr func(call int) error
	commitErr       error

	committed  bool
	rolledBack bool
}

func newMockStore(sessions map[uint64]mockSession) *mockStore {
	return &mockStore{sessions: sessions}
}

func (m *mockStore) Begin(ctx context.Context) (repository.ReservationTx, error) {
	m.beginCalls++
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	m.tx = &mockTx{store: m, nextReservationID: 100, nextTicketID: 1000}
	return m.tx, nil
}

func (m *mockStore) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]repository.ReservationItem, int, error) {
	return nil, 0, nil
}

func (t *mockTx) SessionGrid(ctx context.Context, sessionID uint64) (int, int, error) {
	s, ok := t.store.sessions[sessionID]
	if !ok {
		return 0, 0, booking.ErrSessionNotFound
	}
	return s.rows, s.seatsPerRow, nil
}

func (t *mockTx) TakenPlaces(ctx context.Context, sessionID uint64) (map[booking.Place]bool, error) {
	out := make(map[booking.Place]bool)
	for _, p := range t.store.sessions[sessionID].taken {
		out[p] = true
	}
	return out, nil
}

func (t *mockTx) InsertReservation(ctx context.Context, userID uint64) (*model.Reservation, error) {
	t.reservations++
	return &model.Reservation{
		ID:        t.nextReservationID,
		UserID:    userID,
		CreatedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (t *mockTx) InsertTicket(ctx context.Context, reservationID, sessionID uint64, row, seat int) (uint64, error) {
	call := len(t.insertedTickets)
	if t.insertTicketErr != nil {
		if err := t.insertTicketErr(call); err != nil {
			return 0, err
		}
	}
	t.nextTicketID++
	t.insertedTickets = append(t.insertedTickets, model.Ticket{
		ID:            t.nextTicketID,
		SessionID:     sessionID,
		ReservationID: reservationID,
		Row:           row,
		Seat:          seat,
	})
	return t.nextTicketID, nil
}

func (t *mockTx) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *mockTx) Rollback() error {
	t.rolledBack = true
	return nil
}

func tenByTen(taken ...booking.Place) map[uint64]mockSession {
	return map[uint64]mockSession{
		1: {rows: 10, seatsPerRow: 10, taken: taken},
	}
}

func TestCreateEmptyPicksFailsWithoutTouchingStore(t *testing.T) {
	store := newMockStore(tenByTen())
	svc := NewReservationService(store)

	res, err := svc.Create(context.Background(), 42, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, booking.ErrEmptyReservation)
	assert.Zero(t, store.beginCalls, "empty request must not open a transaction")
}

func TestCreatePersistsReservationAndAllTickets(t *testing.T) {
	store := newMockStore(tenByTen())
	svc := NewReservationService(store)

	picks := []booking.SeatPick{
		{SessionID: 1, Row: 2, Seat: 3},
		{SessionID: 1, Row: 2, Seat: 4},
		{SessionID: 1, Row: 7, Seat: 1},
	}
	res, err := svc.Create(context.Background(), 42, picks)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, uint64(100), res.Reservation.ID)
	assert.Equal(t, uint64(42), res.Reservation.UserID)
	assert.Len(t, res.Tickets, 3)
	for i, tk := range res.Tickets {
		assert.Equal(t, res.Reservation.ID, tk.ReservationID)
		assert.Equal(t, picks[i].Row, tk.Row)
		assert.Equal(t, picks[i].Seat, tk.Seat)
	}
	assert.True(t, store.tx.committed)
	assert.False(t, store.tx.rolledBack)
}

func TestCreateRollsBackWhenSecondPickIsTaken(t *testing.T) {
	store := newMockStore(tenByTen(booking.Place{Row: 3, Seat: 4}))
	svc := NewReservationService(store)

	picks := []booking.SeatPick{
		{SessionID: 1, Row: 1, Seat: 1}, // individually valid
		{SessionID: 1, Row: 3, Seat: 4}, // already ticketed
	}
	res, err := svc.Create(context.Background(), 42, picks)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, booking.ErrSeatTaken)
	assert.False(t, store.tx.committed)
	assert.True(t, store.tx.rolledBack, "a mid-batch failure must roll back the whole reservation")
}

func TestCreateRollsBackOnOutOfRangePick(t *testing.T) {
	store := newMockStore(tenByTen())
	svc := NewReservationService(store)

	tests := []struct {
		name      string
		pick      booking.SeatPick
		wantField string
	}{
		{name: "row zero", pick: booking.SeatPick{SessionID: 1, Row: 0, Seat: 5}, wantField: "Row"},
		{name: "row above grid", pick: booking.SeatPick{SessionID: 1, Row: 11, Seat: 5}, wantField: "Row"},
		{name: "seat above grid", pick: booking.SeatPick{SessionID: 1, Row: 5, Seat: 11}, wantField: "Seat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Create(context.Background(), 42, []booking.SeatPick{tt.pick})
			assert.Nil(t, res)
			var re *booking.RangeError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.wantField, re.Field)
			assert.Equal(t, 10, re.Max)
			assert.True(t, store.tx.rolledBack)
			assert.False(t, store.tx.committed)
		})
	}
}

func TestCreateRejectsDuplicatePickWithinBatch(t *testing.T) {
	store := newMockStore(tenByTen())
	svc := NewReservationService(store)

	picks := []booking.SeatPick{
		{SessionID: 1, Row: 2, Seat: 3},
		{SessionID: 1, Row: 2, Seat: 3},
	}
	res, err := svc.Create(context.Background(), 42, picks)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, booking.ErrSeatTaken)
	// The duplicate is caught by validation against the first pick's
	// in-transaction insert, before a second insert is attempted.
	assert.Len(t, store.tx.insertedTickets, 1)
	assert.True(t, store.tx.rolledBack)
}

func TestCreateTranslatesConcurrentDuplicateKeyToSeatTaken(t *testing.T) {
	// Simulate a concurrent transaction winning the unique key:
	// validation saw the seat free, the insert hit a duplicate.
	store := newMockStore(tenByTen())
	tx := &mockTx{store: store, nextReservationID: 100, nextTicketID: 1000}
	tx.insertTicketErr = func(call int) error {
		if call == 0 {
			return booking.ErrSeatTaken
		}
		return nil
	}
	svc := NewReservationService(&fixedTxStore{tx: tx})

	res, err := svc.Create(context.Background(), 42,
		[]booking.SeatPick{{SessionID: 1, Row: 3, Seat: 4}})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, booking.ErrSeatTaken)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestCreateUnknownSessionRollsBack(t *testing.T) {
	store := newMockStore(tenByTen())
	svc := NewReservationService(store)

	res, err := svc.Create(context.Background(), 42,
		[]booking.SeatPick{{SessionID: 99, Row: 1, Seat: 1}})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, booking.ErrSessionNotFound)
	assert.True(t, store.tx.rolledBack)
}

func TestCreatePropagatesBeginError(t *testing.T) {
	store := newMockStore(tenByTen())
	store.beginErr = errors.New("connection refused")
	svc := NewReservationService(store)

	_, err := svc.Create(context.Background(), 42,
		[]booking.SeatPick{{SessionID: 1, Row: 1, Seat: 1}})
	assert.EqualError(t, err, "connection refused")
}

// fixedTxStore hands out a pre-built transaction, letting a test
// inject failures into a specific tx instance.
type fixedTxStore struct{ tx repository.ReservationTx }

func (s *fixedTxStore) Begin(ctx context.Context) (repository.ReservationTx, error) {
	return s.tx, nil
}

func (s *fixedTxStore) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]repository.ReservationItem, int, error) {
	return nil, 0, nil
}
