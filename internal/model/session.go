package model

import "time"

// Session schedules a show in a dome at a point in time.  Deleting a
// session cascades to its tickets at the foreign-key level.  ShowTime
// carries no future-only constraint; past sessions are legal.
//
// Fields:
//  ID        – primary key identifier.
//  ShowID    – show being presented.
//  DomeID    – dome hosting the session.
//  ShowTime  – scheduled start, stored in UTC.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Session struct {
	ID        uint64    // show_sessions.id
	ShowID    uint64    // show_sessions.show_id
	DomeID    uint64    // show_sessions.dome_id
	ShowTime  time.Time // show_sessions.show_time
	CreatedAt time.Time // show_sessions.created_at
	UpdatedAt time.Time // show_sessions.updated_at
}
