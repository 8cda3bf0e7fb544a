// This file defines repository methods for exhibitions. An exhibition is
// one edition of the convention; zones, time slots and game sessions all
// hang off it. Exhibitions are created and managed by organizers only.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// ErrExhibitionNotFound is returned when an exhibition cannot be found.
var ErrExhibitionNotFound = errors.New("exhibition not found")

// ExhibitionRepo encapsulates all database queries related to
// exhibitions. It depends on a sql.DB connection configured elsewhere.
type ExhibitionRepo struct {
	db *sql.DB
}

// NewExhibitionRepo constructs an ExhibitionRepo with the provided DB
// handle. This allows dependency injection of the database in tests
// and at startup.
func NewExhibitionRepo(db *sql.DB) *ExhibitionRepo {
	return &ExhibitionRepo{db: db}
}

// Create inserts a new exhibition. On success the ID, CreatedAt and
// UpdatedAt fields are populated from the database.
func (r *ExhibitionRepo) Create(ctx context.Context, e *model.Exhibition) error {
	const qInsert = `INSERT INTO exhibitions (name, starts_on, ends_on, grace_period_minutes, created_by)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, e.Name, e.StartsOn, e.EndsOn, e.GracePeriodMinutes, e.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)

	const qSelect = `SELECT created_at, updated_at FROM exhibitions WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, e.ID).Scan(&e.CreatedAt, &e.UpdatedAt)
}

// GetByID fetches an exhibition by its ID. It returns
// ErrExhibitionNotFound if no row is found.
func (r *ExhibitionRepo) GetByID(ctx context.Context, id uint64) (*model.Exhibition, error) {
	const q = `SELECT id, name, starts_on, ends_on, grace_period_minutes, created_by, created_at, updated_at
	           FROM exhibitions WHERE id = ?`
	var e model.Exhibition
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.Name, &e.StartsOn, &e.EndsOn, &e.GracePeriodMinutes, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrExhibitionNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListAll returns all exhibitions ordered by start date. It backs the
// public browsing endpoints.
func (r *ExhibitionRepo) ListAll(ctx context.Context) ([]*model.Exhibition, error) {
	const q = `SELECT id, name, starts_on, ends_on, grace_period_minutes, created_by, created_at, updated_at
	           FROM exhibitions ORDER BY starts_on, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Exhibition
	for rows.Next() {
		e := new(model.Exhibition)
		if err := rows.Scan(&e.ID, &e.Name, &e.StartsOn, &e.EndsOn, &e.GracePeriodMinutes, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists mutable fields of an exhibition. It returns
// sql.ErrNoRows when no row is affected.
func (r *ExhibitionRepo) Update(ctx context.Context, e *model.Exhibition) error {
	const q = `UPDATE exhibitions
	           SET name = ?, starts_on = ?, ends_on = ?, grace_period_minutes = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.StartsOn, e.EndsOn, e.GracePeriodMinutes, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
