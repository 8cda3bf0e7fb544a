// This file defines read-side repository queries for bookings. Booking
// writes (create, cancel, promote, check-in) all go through the
// scheduling service; this repo serves the "my bookings" view and the
// per-session roster a GM sees at the table.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// BookingListing is a booking joined with its session for list views.
type BookingListing struct {
	ID             uint64
	SessionID      uint64
	SessionTitle   string
	SessionStatus  string
	ScheduledStart time.Time
	Role           string
	Status         string
	RegisteredAt   time.Time
	CheckedInAt    *time.Time
}

// BookingRepo encapsulates read-only queries over bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// ListByUser returns all bookings of a user, most recent session first.
// Cancelled bookings are included so players can see their history.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*BookingListing, error) {
	const q = `SELECT b.id, b.game_session_id, gs.title, gs.status, gs.scheduled_start,
	                  b.role, b.status, b.registered_at, b.checked_in_at
	           FROM bookings b
	           JOIN game_sessions gs ON gs.id = b.game_session_id
	           WHERE b.user_id = ?
	           ORDER BY gs.scheduled_start DESC, b.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*BookingListing
	for rows.Next() {
		l := new(BookingListing)
		var checkedIn sql.NullTime
		if err := rows.Scan(&l.ID, &l.SessionID, &l.SessionTitle, &l.SessionStatus, &l.ScheduledStart,
			&l.Role, &l.Status, &l.RegisteredAt, &checkedIn); err != nil {
			return nil, err
		}
		if checkedIn.Valid {
			t := checkedIn.Time
			l.CheckedInAt = &t
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RosterEntry is one attendee on a session's roster, with their email
// so the GM can call names at the table.
type RosterEntry struct {
	BookingID    uint64
	UserID       uint64
	Email        string
	Role         string
	Status       string
	RegisteredAt time.Time
	CheckedInAt  *time.Time
}

// ListRoster returns the non-cancelled bookings of a session in
// registration order, confirmed seats before the waiting list.
func (r *BookingRepo) ListRoster(ctx context.Context, sessionID uint64) ([]*RosterEntry, error) {
	const q = `SELECT b.id, b.user_id, u.email, b.role, b.status, b.registered_at, b.checked_in_at
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           WHERE b.game_session_id = ? AND b.status <> ?
	           ORDER BY FIELD(b.status, 'CHECKED_IN', 'CONFIRMED', 'WAITING_LIST'), b.registered_at, b.id`
	rows, err := r.db.QueryContext(ctx, q, sessionID, model.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RosterEntry
	for rows.Next() {
		e := new(RosterEntry)
		var checkedIn sql.NullTime
		if err := rows.Scan(&e.BookingID, &e.UserID, &e.Email, &e.Role, &e.Status, &e.RegisteredAt, &checkedIn); err != nil {
			return nil, err
		}
		if checkedIn.Valid {
			t := checkedIn.Time
			e.CheckedInAt = &t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
