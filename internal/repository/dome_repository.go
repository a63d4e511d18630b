package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/planetarium-reservation/internal/model"
)

// DomeRepo provides catalog access to planetarium domes.  Capacity is
// derived from the seating grid and never stored.
type DomeRepo struct{ db *sql.DB }

func NewDomeRepo(db *sql.DB) *DomeRepo { return &DomeRepo{db: db} }

// Create inserts a dome and returns its id.  The caller validates the
// grid dimensions; the table additionally CHECKs them to be positive.
func (r *DomeRepo) Create(ctx context.Context, name string, seatRows, seatsPerRow int) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO domes (name, seat_rows, seats_per_row) VALUES (?,?,?)",
		strings.TrimSpace(name), seatRows, seatsPerRow)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns all domes ordered by name.
func (r *DomeRepo) List(ctx context.Context) ([]model.Dome, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, seat_rows, seats_per_row, created_at, updated_at FROM domes ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Dome, 0)
	for rows.Next() {
		var d model.Dome
		if err := rows.Scan(&d.ID, &d.Name, &d.SeatRows, &d.SeatsPerRow, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a dome by id.  Returns ErrDomeNotFound when absent.
func (r *DomeRepo) GetByID(ctx context.Context, id uint64) (model.Dome, error) {
	var d model.Dome
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, seat_rows, seats_per_row, created_at, updated_at FROM domes WHERE id=?",
		id).Scan(&d.ID, &d.Name, &d.SeatRows, &d.SeatsPerRow, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return d, ErrDomeNotFound
	}
	return d, err
}
