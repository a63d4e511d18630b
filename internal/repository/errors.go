// Package repository implements the data access layer over MySQL.  The
// sentinel values defined here let handlers distinguish failure
// scenarios without inspecting SQL errors: not-found conditions map to
// HTTP 404 and uniqueness conflicts to 409.  Seat conflicts are not
// represented here; the tickets unique key is translated to
// booking.ErrSeatTaken at the transaction boundary instead.
package repository

import (
	"errors"
	"strings"
)

// ErrShowNotFound is returned when a show id does not exist.
var ErrShowNotFound = errors.New("show not found")

// ErrThemeNotFound is returned when a theme id does not exist.
var ErrThemeNotFound = errors.New("theme not found")

// ErrDomeNotFound is returned when a dome id does not exist.
var ErrDomeNotFound = errors.New("dome not found")

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrTitleExists is returned when creating a show whose title is
// already in the catalog.  Show titles are unique at the store level.
var ErrTitleExists = errors.New("show title already exists")

// ErrEmailExists is returned when registering an email that is already
// taken.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062).  The driver formats these as "Error 1062 (23000): ...".
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "1062")
}
