package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/planetarium-reservation/internal/booking"
	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// ReservationTx is the transactional view the reservation workflow
// runs against.  All reads observe the transaction's consistent state,
// so a ticket inserted earlier in the same transaction is visible to a
// later TakenPlaces call.  The caller must finish with exactly one of
// Commit or Rollback.
type ReservationTx interface {
	// SessionGrid returns the dome grid (rows, seats per row) for a
	// session, or booking.ErrSessionNotFound.
	SessionGrid(ctx context.Context, sessionID uint64) (rows, seatsPerRow int, err error)
	// TakenPlaces returns the set of ticketed places for a session.
	TakenPlaces(ctx context.Context, sessionID uint64) (map[booking.Place]bool, error)
	// InsertReservation creates the reservation row and reads back its
	// server-assigned creation time.
	InsertReservation(ctx context.Context, userID uint64) (*model.Reservation, error)
	// InsertTicket claims one place for the reservation.  A duplicate
	// on the (session, row, seat) unique key - a concurrent claim that
	// slipped past the in-transaction check - comes back as
	// booking.ErrSeatTaken.
	InsertTicket(ctx context.Context, reservationID, sessionID uint64, row, seat int) (uint64, error)
	Commit() error
	Rollback() error
}

// ReservationStore is what the reservation service needs from the
// storage layer.
type ReservationStore interface {
	Begin(ctx context.Context) (ReservationTx, error)
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]ReservationItem, int, error)
}

// ReservationRepo is the MySQL implementation of ReservationStore.
type ReservationRepo struct{ db *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Begin opens the transaction that serializes conflicting seat claims.
// The default isolation level is sufficient because the unique key on
// (session_id, row_num, seat_num) is what actually arbitrates races;
// the loser of two concurrent inserts gets a duplicate-key error.
func (r *ReservationRepo) Begin(ctx context.Context) (ReservationTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &reservationTx{tx: tx}, nil
}

type reservationTx struct{ tx *sql.Tx }

func (t *reservationTx) SessionGrid(ctx context.Context, sessionID uint64) (int, int, error) {
	var rows, seatsPerRow int
	err := t.tx.QueryRowContext(ctx,
		`SELECT d.seat_rows, d.seats_per_row
		 FROM show_sessions ss
		 JOIN domes d ON d.id = ss.dome_id
		 WHERE ss.id = ?`, sessionID).Scan(&rows, &seatsPerRow)
	if err == sql.ErrNoRows {
		return 0, 0, booking.ErrSessionNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return rows, seatsPerRow, nil
}

func (t *reservationTx) TakenPlaces(ctx context.Context, sessionID uint64) (map[booking.Place]bool, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT row_num, seat_num FROM tickets WHERE session_id=?", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	taken := make(map[booking.Place]bool)
	for rows.Next() {
		var p booking.Place
		if err := rows.Scan(&p.Row, &p.Seat); err != nil {
			return nil, err
		}
		taken[p] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

func (t *reservationTx) InsertReservation(ctx context.Context, userID uint64) (*model.Reservation, error) {
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO reservations (user_id) VALUES (?)", userID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	// Read the row back so CreatedAt carries the database's clock, not
	// the application's.
	rec := &model.Reservation{}
	err = t.tx.QueryRowContext(ctx,
		"SELECT id, user_id, created_at FROM reservations WHERE id=?",
		id).Scan(&rec.ID, &rec.UserID, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (t *reservationTx) InsertTicket(ctx context.Context, reservationID, sessionID uint64, row, seat int) (uint64, error) {
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO tickets (session_id, reservation_id, row_num, seat_num) VALUES (?,?,?,?)",
		sessionID, reservationID, row, seat)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, booking.ErrSeatTaken
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (t *reservationTx) Commit() error   { return t.tx.Commit() }
func (t *reservationTx) Rollback() error { return t.tx.Rollback() }

// ReservationItem is the list-view shape of a reservation: the tickets
// it owns, each annotated with its session for display.
type ReservationItem struct {
	ID        uint64              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Tickets   []ReservationTicket `json:"tickets"`
}

// ReservationTicket annotates a ticket with its session's show and
// start time so list views need no further lookups.
type ReservationTicket struct {
	ID        uint64    `json:"id"`
	SessionID uint64    `json:"show_session"`
	ShowTitle string    `json:"show_title"`
	ShowTime  time.Time `json:"show_time"`
	Row       int       `json:"row"`
	Seat      int       `json:"seat"`
}

// ListByUser returns one page of the user's reservations, newest
// first, plus the total reservation count for pagination.  Tickets for
// the whole page are fetched in a single query.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]ReservationItem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE user_id=?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM reservations
		 WHERE user_id=?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]ReservationItem, 0, pageSize)
	index := make(map[uint64]int)
	for rows.Next() {
		var it ReservationItem
		if err := rows.Scan(&it.ID, &it.CreatedAt); err != nil {
			return nil, 0, err
		}
		it.Tickets = []ReservationTicket{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, total, nil
	}

	ids := make([]any, 0, len(items))
	placeholders := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
		placeholders = append(placeholders, "?")
	}
	ticketQ := `SELECT t.reservation_id, t.id, t.session_id, s.title, ss.show_time, t.row_num, t.seat_num
	            FROM tickets t
	            JOIN show_sessions ss ON ss.id = t.session_id
	            JOIN shows s ON s.id = ss.show_id
	            WHERE t.reservation_id IN (` + strings.Join(placeholders, ",") + `)
	            ORDER BY t.reservation_id, t.row_num, t.seat_num`
	trows, err := r.db.QueryContext(ctx, ticketQ, ids...)
	if err != nil {
		return nil, 0, err
	}
	defer trows.Close()
	for trows.Next() {
		var resID uint64
		var tk ReservationTicket
		if err := trows.Scan(&resID, &tk.ID, &tk.SessionID, &tk.ShowTitle, &tk.ShowTime, &tk.Row, &tk.Seat); err != nil {
			return nil, 0, err
		}
		if idx, ok := index[resID]; ok {
			items[idx].Tickets = append(items[idx].Tickets, tk)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
