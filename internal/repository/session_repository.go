package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/planetarium-reservation/internal/booking"
)

// SessionRepo exposes the session registry: scheduled sessions with
// availability derived from dome geometry and sold tickets.  The
// availability numbers on list views are best-effort reads; allocation
// decisions always go through the reservation transaction instead.
type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// SessionFilter narrows session listings.  Date filters by the
// calendar date of show_time (UTC); ShowName is a case-insensitive
// substring match on the show title.  Zero values mean "no filter".
type SessionFilter struct {
	Date     *time.Time
	ShowID   uint64
	ShowName string
}

// SessionRow is the list-view shape of a session.  TicketsAvailable is
// dome capacity minus the current ticket count.
type SessionRow struct {
	ID               uint64    `json:"id"`
	ShowTitle        string    `json:"show"`
	DomeName         string    `json:"dome"`
	ShowTime         time.Time `json:"show_time"`
	TicketsAvailable int       `json:"tickets_available"`
}

// SessionDetail is the detail-view shape: the full show and dome
// records plus every already-ticketed place, for seat-map rendering.
type SessionDetail struct {
	ID       uint64    `json:"id"`
	ShowTime time.Time `json:"show_time"`
	Show     struct {
		ID          uint64 `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"show"`
	Dome struct {
		ID          uint64 `json:"id"`
		Name        string `json:"name"`
		SeatRows    int    `json:"rows"`
		SeatsPerRow int    `json:"seats_per_row"`
		Capacity    int    `json:"capacity"`
	} `json:"dome"`
	TakenPlaces []booking.Place `json:"taken_places"`
}

// sessionWhere builds the WHERE clause for List from a filter.  Split
// out so the clause assembly is testable without a database.
func sessionWhere(f SessionFilter) (string, []any) {
	where := []string{}
	args := []any{}
	if f.Date != nil {
		where = append(where, "DATE(ss.show_time) = ?")
		args = append(args, f.Date.UTC().Format("2006-01-02"))
	}
	if f.ShowID != 0 {
		where = append(where, "ss.show_id = ?")
		args = append(args, f.ShowID)
	}
	if f.ShowName != "" {
		where = append(where, "LOWER(s.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.ShowName)+"%")
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// sessionListQuery builds the List query: grid dimensions and the
// sold-ticket count come back per session so availability is derived
// in availableSeats rather than buried in SQL arithmetic.
func sessionListQuery(f SessionFilter) (string, []any) {
	cond, args := sessionWhere(f)
	q := `SELECT ss.id, s.title, d.name, ss.show_time,
	             d.seat_rows, d.seats_per_row, COUNT(t.id)
	      FROM show_sessions ss
	      JOIN shows s ON s.id = ss.show_id
	      JOIN domes d ON d.id = ss.dome_id
	      LEFT JOIN tickets t ON t.session_id = ss.id` + cond + `
	      GROUP BY ss.id, s.title, d.name, ss.show_time, d.seat_rows, d.seats_per_row
	      ORDER BY ss.show_time ASC`
	return q, args
}

// availableSeats derives how many places a session can still sell:
// full dome capacity minus tickets already issued.
func availableSeats(seatRows, seatsPerRow, sold int) int {
	return seatRows*seatsPerRow - sold
}

// List returns sessions matching the filter in chronological order,
// each annotated with the number of tickets still available.
func (r *SessionRepo) List(ctx context.Context, f SessionFilter) ([]SessionRow, error) {
	q, args := sessionListQuery(f)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SessionRow, 0)
	for rows.Next() {
		var s SessionRow
		var seatRows, seatsPerRow, sold int
		if err := rows.Scan(&s.ID, &s.ShowTitle, &s.DomeName, &s.ShowTime, &seatRows, &seatsPerRow, &sold); err != nil {
			return nil, err
		}
		s.TicketsAvailable = availableSeats(seatRows, seatsPerRow, sold)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetail returns a session with its show, dome and taken places.
// Returns ErrSessionNotFound when the id is absent.
func (r *SessionRepo) GetDetail(ctx context.Context, id uint64) (*SessionDetail, error) {
	var det SessionDetail
	err := r.db.QueryRowContext(ctx,
		`SELECT ss.id, ss.show_time,
		        s.id, s.title, s.description,
		        d.id, d.name, d.seat_rows, d.seats_per_row
		 FROM show_sessions ss
		 JOIN shows s ON s.id = ss.show_id
		 JOIN domes d ON d.id = ss.dome_id
		 WHERE ss.id = ?`, id).Scan(
		&det.ID, &det.ShowTime,
		&det.Show.ID, &det.Show.Title, &det.Show.Description,
		&det.Dome.ID, &det.Dome.Name, &det.Dome.SeatRows, &det.Dome.SeatsPerRow,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	det.Dome.Capacity = det.Dome.SeatRows * det.Dome.SeatsPerRow

	det.TakenPlaces = []booking.Place{}
	rows, err := r.db.QueryContext(ctx,
		"SELECT row_num, seat_num FROM tickets WHERE session_id=? ORDER BY row_num, seat_num", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p booking.Place
		if err := rows.Scan(&p.Row, &p.Seat); err != nil {
			return nil, err
		}
		det.TakenPlaces = append(det.TakenPlaces, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// Create schedules a session.  Foreign keys verify the show and dome
// exist; violations surface as the matching sentinel.
func (r *SessionRepo) Create(ctx context.Context, showID, domeID uint64, showTime time.Time) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO show_sessions (show_id, dome_id, show_time) VALUES (?,?,?)",
		showID, domeID, showTime.UTC())
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return 0, foreignKeySentinel(err)
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update reschedules a session.  Returns ErrSessionNotFound when the
// id is absent.
func (r *SessionRepo) Update(ctx context.Context, id, showID, domeID uint64, showTime time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE show_sessions SET show_id=?, dome_id=?, show_time=? WHERE id=?",
		showID, domeID, showTime.UTC(), id)
	if err != nil {
		if strings.Contains(err.Error(), "1452") {
			return foreignKeySentinel(err)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either absent or unchanged; distinguish with a lookup.
		var exists uint64
		if err := r.db.QueryRowContext(ctx,
			"SELECT id FROM show_sessions WHERE id=?", id).Scan(&exists); err == sql.ErrNoRows {
			return ErrSessionNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a session; its tickets go with it via ON DELETE
// CASCADE.  Returns ErrSessionNotFound when the id is absent.
func (r *SessionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM show_sessions WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// foreignKeySentinel maps a MySQL 1452 foreign-key error on the
// show_sessions table to the sentinel for the missing parent row.
func foreignKeySentinel(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "dome_id") {
		return ErrDomeNotFound
	}
	if strings.Contains(msg, "show_id") {
		return ErrShowNotFound
	}
	return err
}
