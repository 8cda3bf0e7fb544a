// This file defines repository methods for time slots. A time slot is a
// bookable window inside a zone; sessions must fit entirely within one
// slot and respect its maximum duration.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// ErrTimeSlotNotFound is returned when a time slot cannot be found.
var ErrTimeSlotNotFound = errors.New("time slot not found")

// TimeSlotRepo encapsulates all database queries related to time slots.
type TimeSlotRepo struct {
	db *sql.DB
}

// NewTimeSlotRepo constructs a TimeSlotRepo with the provided DB handle.
func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo {
	return &TimeSlotRepo{db: db}
}

// Create inserts a new time slot. On success the ID, CreatedAt and
// UpdatedAt fields are populated from the database.
func (r *TimeSlotRepo) Create(ctx context.Context, s *model.TimeSlot) error {
	const qInsert = `INSERT INTO time_slots (zone_id, starts_at, ends_at, max_duration_minutes, buffer_time_minutes)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, s.ZoneID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.MaxDurationMinutes, s.BufferTimeMinutes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT created_at, updated_at FROM time_slots WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches a time slot by its ID. It returns
// ErrTimeSlotNotFound if no row is found.
func (r *TimeSlotRepo) GetByID(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	const q = `SELECT id, zone_id, starts_at, ends_at, max_duration_minutes, buffer_time_minutes, created_at, updated_at
	           FROM time_slots WHERE id = ?`
	var s model.TimeSlot
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.ZoneID, &s.StartsAt, &s.EndsAt, &s.MaxDurationMinutes, &s.BufferTimeMinutes, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTimeSlotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByZone returns all time slots of a zone ordered by start time.
func (r *TimeSlotRepo) ListByZone(ctx context.Context, zoneID uint64) ([]*model.TimeSlot, error) {
	const q = `SELECT id, zone_id, starts_at, ends_at, max_duration_minutes, buffer_time_minutes, created_at, updated_at
	           FROM time_slots WHERE zone_id = ? ORDER BY starts_at, id`
	rows, err := r.db.QueryContext(ctx, q, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.TimeSlot
	for rows.Next() {
		s := new(model.TimeSlot)
		if err := rows.Scan(&s.ID, &s.ZoneID, &s.StartsAt, &s.EndsAt, &s.MaxDurationMinutes, &s.BufferTimeMinutes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a time slot unless sessions still reference it. It
// returns ErrConflict when sessions exist and sql.ErrNoRows when the
// slot is absent.
func (r *TimeSlotRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_sessions WHERE time_slot_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_slots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
