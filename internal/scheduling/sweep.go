package scheduling

import (
	"context"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// SweepAutoCancel cancels every VALIDATED session of the exhibition
// whose scheduled start is past the grace period without a GM
// check-in.  It is idempotent: a second run with no intervening
// state change finds nothing and returns an empty list.  One
// session.cancelled event is emitted per swept session so bookers
// can be notified; delivery failures never fail the sweep.
func (s *Service) SweepAutoCancel(ctx context.Context, exhibitionID uint64, actor Actor) ([]model.GameSession, error) {
	swept := make([]model.GameSession, 0)
	bookers := make(map[uint64][]uint64)
	err := s.store.InTx(ctx, func(tx Tx) error {
		exhibition, err := tx.Exhibition(ctx, exhibitionID)
		if err != nil {
			return err
		}
		if exhibition == nil {
			return &NotFoundError{Entity: "exhibition", ID: exhibitionID}
		}
		if !s.canManage(ctx, actor, exhibitionID) {
			return &ForbiddenError{Reason: "the auto-cancel sweep requires an organizer role"}
		}
		grace := exhibition.GracePeriodMinutes
		if grace == 0 {
			grace = s.cfg.GracePeriodMinutes
		}
		cutoff := s.clock.Now().Add(-time.Duration(grace) * time.Minute)
		sessions, err := tx.SweepableSessions(ctx, exhibitionID, cutoff)
		if err != nil {
			return err
		}
		for i := range sessions {
			session := sessions[i]
			session.Status = model.SessionStatusCancelled
			if err := tx.UpdateSession(ctx, &session); err != nil {
				return err
			}
			all, err := tx.BookingsBySession(ctx, session.ID)
			if err != nil {
				return err
			}
			ids := make([]uint64, 0, len(all))
			for _, b := range all {
				if b.Status != model.BookingStatusCancelled {
					ids = append(ids, b.UserID)
				}
			}
			bookers[session.ID] = ids
			swept = append(swept, session)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().Format(time.RFC3339)
	for _, session := range swept {
		s.notif.Emit(ctx, EventSessionCancelled, SessionCancelledEvent{
			SessionID:    session.ID,
			SessionTitle: session.Title,
			BookerIDs:    bookers[session.ID],
			OccurredAt:   now,
		})
	}
	return swept, nil
}

// GMCheckIn records the GM's arrival: the session moves from
// VALIDATED to IN_PROGRESS with gm_checked_in_at and actual_start
// stamped.  A checked-in session is no longer sweepable.
func (s *Service) GMCheckIn(ctx context.Context, sessionID uint64, actor Actor) (*model.GameSession, error) {
	var updated *model.GameSession
	err := s.store.InTx(ctx, func(tx Tx) error {
		session, err := tx.SessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return &NotFoundError{Entity: "session", ID: sessionID}
		}
		if session.CreatedBy != actor.UserID && !s.canManage(ctx, actor, session.ExhibitionID) {
			return &ForbiddenError{Reason: "only the GM or an organizer may check the session in"}
		}
		if !CanTransition(session.Status, model.SessionStatusInProgress) {
			return &InvalidStateError{Entity: "session", State: session.Status, Op: "check in"}
		}
		now := s.clock.Now()
		session.Status = model.SessionStatusInProgress
		session.GMCheckedInAt = &now
		session.ActualStart = &now
		if err := tx.UpdateSession(ctx, session); err != nil {
			return err
		}
		updated = session
		return nil
	})
	return updated, err
}
