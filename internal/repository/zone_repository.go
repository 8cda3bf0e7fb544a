// This file defines repository methods for zones and their time slots.
// A zone is a delegable sub-area of an exhibition; it owns its physical
// tables and time slots. Zone deletion is handled by the scheduling
// service because it must cascade inside a transaction and refuse when
// live sessions still reference the zone.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// ErrZoneNotFound is returned when a zone cannot be found.
var ErrZoneNotFound = errors.New("zone not found")

// ZoneRepo encapsulates all database queries related to zones.
type ZoneRepo struct {
	db *sql.DB
}

// NewZoneRepo constructs a ZoneRepo with the provided DB handle.
func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

// Create inserts a new zone. On success the ID, CreatedAt and
// UpdatedAt fields are populated from the database.
func (r *ZoneRepo) Create(ctx context.Context, z *model.Zone) error {
	var prefix any
	if z.TablePrefix != nil {
		prefix = *z.TablePrefix
	}
	const qInsert = `INSERT INTO zones (exhibition_id, name, moderation_required, table_prefix)
	                 VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, z.ExhibitionID, z.Name, z.ModerationRequired, prefix)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	z.ID = uint64(id)

	const qSelect = `SELECT created_at, updated_at FROM zones WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, z.ID).Scan(&z.CreatedAt, &z.UpdatedAt)
}

// GetByID fetches a zone by its ID. It returns ErrZoneNotFound if no
// row is found.
func (r *ZoneRepo) GetByID(ctx context.Context, id uint64) (*model.Zone, error) {
	const q = `SELECT id, exhibition_id, name, moderation_required, table_prefix, created_at, updated_at
	           FROM zones WHERE id = ?`
	var z model.Zone
	var prefix sql.NullString
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&z.ID, &z.ExhibitionID, &z.Name, &z.ModerationRequired, &prefix, &z.CreatedAt, &z.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	if prefix.Valid {
		p := prefix.String
		z.TablePrefix = &p
	}
	return &z, nil
}

// ListByExhibition returns all zones of an exhibition ordered by id.
func (r *ZoneRepo) ListByExhibition(ctx context.Context, exhibitionID uint64) ([]*model.Zone, error) {
	const q = `SELECT id, exhibition_id, name, moderation_required, table_prefix, created_at, updated_at
	           FROM zones WHERE exhibition_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, exhibitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Zone
	for rows.Next() {
		z := new(model.Zone)
		var prefix sql.NullString
		if err := rows.Scan(&z.ID, &z.ExhibitionID, &z.Name, &z.ModerationRequired, &prefix, &z.CreatedAt, &z.UpdatedAt); err != nil {
			return nil, err
		}
		if prefix.Valid {
			p := prefix.String
			z.TablePrefix = &p
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists mutable fields of a zone. It returns sql.ErrNoRows
// when no row is affected.
func (r *ZoneRepo) Update(ctx context.Context, z *model.Zone) error {
	var prefix any
	if z.TablePrefix != nil {
		prefix = *z.TablePrefix
	}
	const q = `UPDATE zones
	           SET name = ?, moderation_required = ?, table_prefix = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, z.Name, z.ModerationRequired, prefix, z.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
