package repository

import (
	"context"
	"database/sql"
	"strings"
)

// ShowRepo provides catalog access to shows and their theme relation.
// Shows are reference data: no concurrency concerns beyond the unique
// title key, so everything runs on plain pooled connections.
type ShowRepo struct{ db *sql.DB }

func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// ShowListItem is the list-view shape for a show: title plus the ids
// of its themes.  The description is deliberately omitted.
type ShowListItem struct {
	ID       uint64   `json:"id"`
	Title    string   `json:"title"`
	ThemeIDs []uint64 `json:"themes"`
}

// ShowDetail is the detail-view shape: full fields with theme names
// resolved for display.
type ShowDetail struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Themes      []string `json:"themes"`
}

// Create inserts a show and links it to the given themes in one
// transaction.  Returns ErrTitleExists when the title is taken and
// ErrThemeNotFound when a theme id does not exist.
func (r *ShowRepo) Create(ctx context.Context, title, description string, themeIDs []uint64) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO shows (title, description) VALUES (?,?)",
		strings.TrimSpace(title), description)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrTitleExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, tid := range themeIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO show_themes (show_id, theme_id) VALUES (?,?)",
			id, tid); err != nil {
			// FK violation on theme_id means the theme does not exist
			if strings.Contains(err.Error(), "1452") {
				return 0, ErrThemeNotFound
			}
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// List returns all shows ordered by title, each with its theme ids.
func (r *ShowRepo) List(ctx context.Context) ([]ShowListItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title FROM shows ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ShowListItem, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var it ShowListItem
		if err := rows.Scan(&it.ID, &it.Title); err != nil {
			return nil, err
		}
		it.ThemeIDs = []uint64{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	trows, err := r.db.QueryContext(ctx,
		"SELECT show_id, theme_id FROM show_themes ORDER BY show_id, theme_id")
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var showID, themeID uint64
		if err := trows.Scan(&showID, &themeID); err != nil {
			return nil, err
		}
		if idx, ok := index[showID]; ok {
			items[idx].ThemeIDs = append(items[idx].ThemeIDs, themeID)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetDetail returns a single show with theme names resolved.  Returns
// ErrShowNotFound when the id is absent.
func (r *ShowRepo) GetDetail(ctx context.Context, id uint64) (*ShowDetail, error) {
	var det ShowDetail
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, description FROM shows WHERE id=?",
		id).Scan(&det.ID, &det.Title, &det.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	det.Themes = []string{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.name FROM themes t
		 JOIN show_themes st ON st.theme_id = t.id
		 WHERE st.show_id = ?
		 ORDER BY t.name`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		det.Themes = append(det.Themes, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}
