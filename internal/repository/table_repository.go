// This file defines repository methods for physical tables. Tables are
// created in batches through the scheduling service (which owns the
// label numbering); this repo covers listing, status changes and
// removal.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// ErrTableNotFound is returned when a physical table cannot be found.
var ErrTableNotFound = errors.New("table not found")

// TableRepo encapsulates all database queries related to physical tables.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the provided DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

// GetByID fetches a table by its ID. It returns ErrTableNotFound if no
// row is found.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.PhysicalTable, error) {
	const q = `SELECT id, zone_id, label, capacity, status, created_at, updated_at
	           FROM physical_tables WHERE id = ?`
	var t model.PhysicalTable
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.ZoneID, &t.Label, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByZone returns all tables of a zone ordered by label.
func (r *TableRepo) ListByZone(ctx context.Context, zoneID uint64) ([]*model.PhysicalTable, error) {
	const q = `SELECT id, zone_id, label, capacity, status, created_at, updated_at
	           FROM physical_tables WHERE zone_id = ? ORDER BY label`
	rows, err := r.db.QueryContext(ctx, q, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PhysicalTable
	for rows.Next() {
		t := new(model.PhysicalTable)
		if err := rows.Scan(&t.ID, &t.ZoneID, &t.Label, &t.Capacity, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus changes a table's availability status. Status is
// informational only; it never blocks assignment. It returns
// sql.ErrNoRows when no row is affected.
func (r *TableRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE physical_tables SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a table unless sessions still reference it. It
// returns ErrConflict when sessions exist and sql.ErrNoRows when the
// table is absent.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_sessions WHERE physical_table_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM physical_tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
