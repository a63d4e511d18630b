package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeat(t *testing.T) {
	taken := map[Place]bool{
		{Row: 2, Seat: 3}: true,
	}

	tests := []struct {
		name    string
		row     int
		seat    int
		wantErr error
	}{
		{name: "valid free seat", row: 5, seat: 5},
		{name: "first seat of grid", row: 1, seat: 1},
		{name: "last seat of grid", row: 10, seat: 10},
		{name: "row zero rejected", row: 0, seat: 5, wantErr: &RangeError{Field: "Row", Max: 10}},
		{name: "row above grid", row: 11, seat: 5, wantErr: &RangeError{Field: "Row", Max: 10}},
		{name: "negative row", row: -1, seat: 5, wantErr: &RangeError{Field: "Row", Max: 10}},
		{name: "seat zero rejected", row: 5, seat: 0, wantErr: &RangeError{Field: "Seat", Max: 10}},
		{name: "seat above grid", row: 5, seat: 11, wantErr: &RangeError{Field: "Seat", Max: 10}},
		{name: "seat already taken", row: 2, seat: 3, wantErr: ErrSeatTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeat(10, 10, tt.row, tt.seat, taken)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var wantRange *RangeError
			if errors.As(tt.wantErr, &wantRange) {
				var gotRange *RangeError
				require.ErrorAs(t, err, &gotRange)
				assert.Equal(t, wantRange.Field, gotRange.Field)
				assert.Equal(t, wantRange.Max, gotRange.Max)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// The row check must win over the seat check, and both must win over
// the taken check, so clients always see the cheapest failing rule.
func TestValidateSeatFirstFailureWins(t *testing.T) {
	taken := map[Place]bool{{Row: 1, Seat: 1}: true}

	var re *RangeError
	err := ValidateSeat(10, 10, 0, 0, taken)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Row", re.Field)

	err = ValidateSeat(10, 10, 1, 0, taken)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Seat", re.Field)
}

func TestRangeErrorMessage(t *testing.T) {
	assert.Equal(t, "Row must be in available range: (1, 20)",
		(&RangeError{Field: "Row", Max: 20}).Error())
	assert.Equal(t, "Seat must be in available range: (1, 15)",
		(&RangeError{Field: "Seat", Max: 15}).Error())
	assert.Equal(t, "Ticket is already taken", ErrSeatTaken.Error())
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrSeatTaken))
	assert.True(t, IsValidation(ErrEmptyReservation))
	assert.True(t, IsValidation(&RangeError{Field: "Row", Max: 10}))
	assert.False(t, IsValidation(ErrSessionNotFound))
	assert.False(t, IsValidation(errors.New("connection reset")))
}
