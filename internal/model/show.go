package model

import "time"

// Show represents an astronomy show in the catalog.  Titles are unique
// across the whole catalog; the uniqueness is enforced by the `shows`
// table and surfaced as repository.ErrTitleExists on conflict.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – unique show title.
//  Description – free-form description text.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Show struct {
	ID          uint64    // shows.id
	Title       string    // shows.title
	Description string    // shows.description
	CreatedAt   time.Time // shows.created_at
	UpdatedAt   time.Time // shows.updated_at
}

// Theme classifies shows by subject (e.g. "Deep space", "Solar system").
// Shows and themes form a many-to-many relation through the
// `show_themes` join table; neither side stores the other's keys.
type Theme struct {
	ID        uint64    // themes.id
	Name      string    // themes.name
	CreatedAt time.Time // themes.created_at
	UpdatedAt time.Time // themes.updated_at
}
