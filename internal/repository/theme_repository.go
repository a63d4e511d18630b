package repository

import (
	"context"
	"database/sql"
	"strings"
)

// ThemeRepo provides catalog access to show themes.
type ThemeRepo struct{ db *sql.DB }

func NewThemeRepo(db *sql.DB) *ThemeRepo { return &ThemeRepo{db: db} }

// ThemeFilter narrows theme listings to themes attached to a given
// show.  ShowName is a case-insensitive substring match on the show
// title; zero values mean "no filter".
type ThemeFilter struct {
	ShowID   uint64
	ShowName string
}

// ThemeRow is the list-view shape for a theme.
type ThemeRow struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ThemeDetail is the detail-view shape: the theme plus the titles of
// the shows presented under it.
type ThemeDetail struct {
	ID    uint64   `json:"id"`
	Name  string   `json:"name"`
	Shows []string `json:"shows"`
}

// Create inserts a theme and returns its id.
func (r *ThemeRepo) Create(ctx context.Context, name string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO themes (name) VALUES (?)", strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns themes matching the filter, ordered by name.  The
// show_id and show_name filters join through the show_themes relation.
func (r *ThemeRepo) List(ctx context.Context, f ThemeFilter) ([]ThemeRow, error) {
	where := []string{}
	args := []any{}
	if f.ShowID != 0 {
		where = append(where, "st.show_id = ?")
		args = append(args, f.ShowID)
	}
	if f.ShowName != "" {
		where = append(where, "LOWER(s.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.ShowName)+"%")
	}

	q := "SELECT DISTINCT t.id, t.name FROM themes t"
	if len(where) > 0 {
		q += ` JOIN show_themes st ON st.theme_id = t.id
		       JOIN shows s ON s.id = st.show_id
		       WHERE ` + strings.Join(where, " AND ")
	}
	q += " ORDER BY t.name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ThemeRow, 0)
	for rows.Next() {
		var t ThemeRow
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetail returns a theme with the titles of its shows.  Returns
// ErrThemeNotFound when the id is absent.
func (r *ThemeRepo) GetDetail(ctx context.Context, id uint64) (*ThemeDetail, error) {
	var det ThemeDetail
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM themes WHERE id=?", id).Scan(&det.ID, &det.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}
	det.Shows = []string{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.title FROM shows s
		 JOIN show_themes st ON st.show_id = s.id
		 WHERE st.theme_id = ?
		 ORDER BY s.title`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		det.Shows = append(det.Shows, title)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}
