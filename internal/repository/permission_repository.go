// This file implements the permission check the scheduling service
// consults before moderation, table assignment, batch creation and the
// auto-cancel sweep. An actor may manage an exhibition when they carry
// the ORGANIZER role or when they created the exhibition themselves.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lolautruche/StructuraLudis-sub000/internal/scheduling"
)

// PermissionRepo answers management checks against the exhibitions table.
type PermissionRepo struct {
	db *sql.DB
}

// NewPermissionRepo constructs a PermissionRepo with the provided DB handle.
func NewPermissionRepo(db *sql.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

// CanManage reports whether the actor may manage the exhibition.
// An unknown exhibition yields false with no error; the service turns
// that into its own not-found handling.
func (r *PermissionRepo) CanManage(ctx context.Context, actor scheduling.Actor, exhibitionID uint64) (bool, error) {
	if actor.Role == "ORGANIZER" {
		return true, nil
	}
	var createdBy uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT created_by FROM exhibitions WHERE id = ?`, exhibitionID).Scan(&createdBy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return createdBy == actor.UserID, nil
}
