// This file defines read-side repository queries for game sessions.
// All writes to sessions go through the scheduling service, which owns
// the lifecycle rules; this repo only serves listings for the HTTP
// layer: public browsing, the moderation queue and a GM's own sessions.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a game session cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// SessionListing is a denormalized row for list responses: the session
// joined with its game title and, when assigned, its table label.
type SessionListing struct {
	ID             uint64
	Title          string
	GameTitle      string
	Status         string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	MaxPlayers     uint32
	SeatedCount    int
	TableLabel     *string
}

// SessionRepo encapsulates read-only queries over game sessions.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the provided DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

const listingSelect = `SELECT gs.id, gs.title, g.title, gs.status, gs.scheduled_start, gs.scheduled_end, gs.max_players,
	       (SELECT COUNT(*) FROM bookings b
	        WHERE b.game_session_id = gs.id AND b.status IN ('CONFIRMED', 'CHECKED_IN')),
	       pt.label
	FROM game_sessions gs
	JOIN games g ON g.id = gs.game_id
	LEFT JOIN physical_tables pt ON pt.id = gs.physical_table_id`

func collectListings(rows *sql.Rows) ([]*SessionListing, error) {
	var out []*SessionListing
	for rows.Next() {
		l := new(SessionListing)
		var label sql.NullString
		if err := rows.Scan(&l.ID, &l.Title, &l.GameTitle, &l.Status, &l.ScheduledStart, &l.ScheduledEnd,
			&l.MaxPlayers, &l.SeatedCount, &label); err != nil {
			return nil, err
		}
		if label.Valid {
			s := label.String
			l.TableLabel = &s
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListValidatedByExhibition returns bookable sessions of an exhibition
// ordered by start time. Used by the public browsing endpoints, so it
// filters to VALIDATED and IN_PROGRESS only.
func (r *SessionRepo) ListValidatedByExhibition(ctx context.Context, exhibitionID uint64) ([]*SessionListing, error) {
	const q = listingSelect + `
	WHERE gs.exhibition_id = ? AND gs.status IN ('VALIDATED', 'IN_PROGRESS')
	ORDER BY gs.scheduled_start, gs.id`
	rows, err := r.db.QueryContext(ctx, q, exhibitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// ListPendingModeration returns the moderation queue of an exhibition,
// oldest submission first.
func (r *SessionRepo) ListPendingModeration(ctx context.Context, exhibitionID uint64) ([]*SessionListing, error) {
	const q = listingSelect + `
	WHERE gs.exhibition_id = ? AND gs.status = 'PENDING_MODERATION'
	ORDER BY gs.updated_at, gs.id`
	rows, err := r.db.QueryContext(ctx, q, exhibitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// ListByCreator returns every session created by a user, any status,
// newest start first. Used for the "my sessions" view.
func (r *SessionRepo) ListByCreator(ctx context.Context, userID uint64) ([]*SessionListing, error) {
	const q = listingSelect + `
	WHERE gs.created_by = ?
	ORDER BY gs.scheduled_start DESC, gs.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}
