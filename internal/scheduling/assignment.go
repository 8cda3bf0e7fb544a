package scheduling

import (
	"context"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// AssignTable binds a physical table to a session after checking for
// buffered collisions with other sessions on that table.  The table
// row is locked for the duration of the transaction so that two
// concurrent assignments targeting the same table cannot both pass
// the collision check.  The buffer comes from the session's time
// slot, falling back to the configured default.
func (s *Service) AssignTable(ctx context.Context, sessionID, tableID uint64, actor Actor) (*model.GameSession, error) {
	var updated *model.GameSession
	err := s.store.InTx(ctx, func(tx Tx) error {
		session, err := tx.SessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return &NotFoundError{Entity: "session", ID: sessionID}
		}
		if !s.canManage(ctx, actor, session.ExhibitionID) {
			return &ForbiddenError{Reason: "table assignment requires an organizer role"}
		}
		table, err := tx.TableForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if table == nil {
			return &NotFoundError{Entity: "table", ID: tableID}
		}
		buffer := time.Duration(s.cfg.BufferMinutes) * time.Minute
		slot, err := tx.TimeSlot(ctx, session.TimeSlotID)
		if err != nil {
			return err
		}
		if slot != nil && slot.BufferTimeMinutes > 0 {
			buffer = time.Duration(slot.BufferTimeMinutes) * time.Minute
		}
		conflict, err := findConflict(ctx, tx, tableID, session.ScheduledStart, session.ScheduledEnd, buffer, session.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{
				Reason:        "table already booked in this window",
				ConflictingID: conflict.ID,
				Title:         conflict.Title,
				Start:         conflict.ScheduledStart.UTC().Format(time.RFC3339),
				End:           conflict.ScheduledEnd.UTC().Format(time.RFC3339),
			}
		}
		session.PhysicalTableID = &table.ID
		if err := tx.UpdateSession(ctx, session); err != nil {
			return err
		}
		updated = session
		return nil
	})
	return updated, err
}
