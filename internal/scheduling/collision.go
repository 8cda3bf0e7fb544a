package scheduling

import (
	"context"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// findConflict returns the first VALIDATED or IN_PROGRESS session on
// the table whose window intersects [start, end) widened by buffer,
// or nil when the table is clear.  It always re-queries current
// state: table assignment is a contention point and cached answers
// would go stale under concurrent assignments.
func findConflict(ctx context.Context, tx Tx, tableID uint64, start, end time.Time, buffer time.Duration, excludeSessionID uint64) (*model.GameSession, error) {
	sessions, err := tx.SessionsOnTable(ctx, tableID, excludeSessionID)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		existing := &sessions[i]
		if Overlaps(start, end, existing.ScheduledStart, existing.ScheduledEnd, buffer) {
			return existing, nil
		}
	}
	return nil, nil
}
