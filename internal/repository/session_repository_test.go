package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionWhere(t *testing.T) {
	day := time.Date(2003, 4, 17, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   SessionFilter
		wantCond string
		wantArgs []any
	}{
		{
			name:     "no filters",
			filter:   SessionFilter{},
			wantCond: "",
			wantArgs: nil,
		},
		{
			name:     "date only",
			filter:   SessionFilter{Date: &day},
			wantCond: " WHERE DATE(ss.show_time) = ?",
			wantArgs: []any{"2003-04-17"},
		},
		{
			name:     "show id only",
			filter:   SessionFilter{ShowID: 7},
			wantCond: " WHERE ss.show_id = ?",
			wantArgs: []any{uint64(7)},
		},
		{
			name:     "show name lowercased substring",
			filter:   SessionFilter{ShowName: "NebULa"},
			wantCond: " WHERE LOWER(s.title) LIKE ?",
			wantArgs: []any{"%nebula%"},
		},
		{
			name:     "all filters combine with AND",
			filter:   SessionFilter{Date: &day, ShowID: 7, ShowName: "mars"},
			wantCond: " WHERE DATE(ss.show_time) = ? AND ss.show_id = ? AND LOWER(s.title) LIKE ?",
			wantArgs: []any{"2003-04-17", uint64(7), "%mars%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, args := sessionWhere(tt.filter)
			assert.Equal(t, tt.wantCond, cond)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestAvailableSeats(t *testing.T) {
	tests := []struct {
		name                        string
		seatRows, seatsPerRow, sold int
		want                        int
	}{
		{"empty session", 10, 10, 0, 100},
		{"three tickets sold", 10, 10, 3, 97},
		{"sold out", 20, 30, 600, 0},
		{"small dome", 5, 8, 1, 39},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, availableSeats(tt.seatRows, tt.seatsPerRow, tt.sold))
		})
	}
}

func TestSessionListQuery(t *testing.T) {
	q, args := sessionListQuery(SessionFilter{})
	assert.Nil(t, args)
	assert.Contains(t, q, "d.seat_rows, d.seats_per_row, COUNT(t.id)")
	assert.Contains(t, q, "LEFT JOIN tickets t ON t.session_id = ss.id")
	assert.Contains(t, q, "GROUP BY ss.id")
	assert.Contains(t, q, "ORDER BY ss.show_time ASC")
	assert.NotContains(t, q, "WHERE")

	day := time.Date(2003, 4, 17, 0, 0, 0, 0, time.UTC)
	q, args = sessionListQuery(SessionFilter{Date: &day, ShowID: 4})
	assert.Contains(t, q, "WHERE DATE(ss.show_time) = ? AND ss.show_id = ?")
	assert.Equal(t, []any{"2003-04-17", uint64(4)}, args)
}
