package scheduling

import (
	"context"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// Service is the scheduling façade exposed to the API layer.  It
// composes the lifecycle state machine, the booking engine, the
// collision detector, the table allocator and the auto-cancel sweep
// over a transactional store.
type Service struct {
	store Store
	perms PermissionChecker
	notif Notifier
	clock Clock
	cfg   Config
}

// NewService constructs the scheduling service.  All dependencies
// must be non-nil; pass NopNotifier when no broker is configured.
func NewService(store Store, perms PermissionChecker, notif Notifier, clock Clock, cfg Config) *Service {
	if store == nil || perms == nil || notif == nil || clock == nil {
		panic("nil dependency passed to scheduling.NewService")
	}
	if cfg.TablePrefix == "" {
		cfg.TablePrefix = "T"
	}
	return &Service{store: store, perms: perms, notif: notif, clock: clock, cfg: cfg}
}

// canManage asks the permission collaborator whether the actor holds
// an elevated role on the exhibition.  Errors from the checker deny.
func (s *Service) canManage(ctx context.Context, actor Actor, exhibitionID uint64) bool {
	ok, err := s.perms.CanManage(ctx, actor, exhibitionID)
	return err == nil && ok
}

// unixUTC converts unix seconds to a UTC time.Time.
func unixUTC(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

// SessionSpec describes a new session proposal.
type SessionSpec struct {
	ExhibitionID   uint64
	TimeSlotID     uint64
	GameID         uint64
	Title          string
	Description    string
	ScheduledStart int64 // unix seconds, UTC
	ScheduledEnd   int64
	MaxPlayers     uint32
}

// CreateSession validates a proposal and persists it in DRAFT.  The
// time slot must belong to the named exhibition and the schedule
// must fit the slot's bounds and duration cap.
func (s *Service) CreateSession(ctx context.Context, spec SessionSpec, actor Actor) (*model.GameSession, error) {
	exhibition, err := s.store.Exhibition(ctx, spec.ExhibitionID)
	if err != nil {
		return nil, err
	}
	if exhibition == nil {
		return nil, &NotFoundError{Entity: "exhibition", ID: spec.ExhibitionID}
	}
	slot, err := s.store.TimeSlot(ctx, spec.TimeSlotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, &NotFoundError{Entity: "time slot", ID: spec.TimeSlotID}
	}
	zone, err := s.store.Zone(ctx, slot.ZoneID)
	if err != nil {
		return nil, err
	}
	if zone == nil || zone.ExhibitionID != spec.ExhibitionID {
		return nil, &ValidationError{Field: "time_slot_id", Reason: "slot does not belong to the exhibition"}
	}
	game, err := s.store.Game(ctx, spec.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, &NotFoundError{Entity: "game", ID: spec.GameID}
	}
	start := unixUTC(spec.ScheduledStart)
	end := unixUTC(spec.ScheduledEnd)
	if err := ValidateSchedule(start, end, slot); err != nil {
		return nil, err
	}
	if spec.MaxPlayers == 0 {
		return nil, &ValidationError{Field: "max_players", Reason: "must be positive"}
	}
	title := spec.Title
	if title == "" {
		title = game.Title
	}
	session := &model.GameSession{
		ExhibitionID:   spec.ExhibitionID,
		TimeSlotID:     spec.TimeSlotID,
		GameID:         spec.GameID,
		CreatedBy:      actor.UserID,
		Title:          title,
		Description:    spec.Description,
		ScheduledStart: start,
		ScheduledEnd:   end,
		MaxPlayers:     spec.MaxPlayers,
		Status:         model.SessionStatusDraft,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSession applies a typed patch to a session.  Only the
// creator or an elevated actor may edit; the per-state allow-list is
// enforced by ApplyPatch and the schedule is re-validated against
// the (possibly changed) time slot.
func (s *Service) UpdateSession(ctx context.Context, sessionID uint64, patch *SessionPatch, actor Actor) (*model.GameSession, error) {
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
			return &ForbiddenError{Reason: "only the session creator or an organizer may edit"}
		}
		if err := ApplyPatch(session, patch); err != nil {
			return err
		}
		slot, err := tx.TimeSlot(ctx, session.TimeSlotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return &NotFoundError{Entity: "time slot", ID: session.TimeSlotID}
		}
		if err := ValidateSchedule(session.ScheduledStart, session.ScheduledEnd, slot); err != nil {
			return err
		}
		if err := tx.UpdateSession(ctx, session); err != nil {
			return err
		}
		updated = session
		return nil
	})
	return updated, err
}

// SubmitForModeration moves a DRAFT or REJECTED session to
// PENDING_MODERATION and clears any previous rejection reason.  When
// the owning zone does not require moderation, the submission is
// approved in the same call and the session comes back VALIDATED.
func (s *Service) SubmitForModeration(ctx context.Context, sessionID uint64, actor Actor) (*model.GameSession, error) {
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
			return &ForbiddenError{Reason: "only the session creator or an organizer may submit"}
		}
		if !CanTransition(session.Status, model.SessionStatusPendingModeration) {
			return &InvalidStateError{Entity: "session", State: session.Status, Op: "submit"}
		}
		session.Status = model.SessionStatusPendingModeration
		session.RejectionReason = nil
		slot, err := tx.TimeSlot(ctx, session.TimeSlotID)
		if err != nil {
			return err
		}
		if slot != nil {
			zone, err := tx.Zone(ctx, slot.ZoneID)
			if err != nil {
				return err
			}
			if zone != nil && !zone.ModerationRequired {
				// Zones without moderation auto-approve on submit.
				session.Status = model.SessionStatusValidated
			}
		}
		if err := tx.UpdateSession(ctx, session); err != nil {
			return err
		}
		updated = session
		return nil
	})
	return updated, err
}

// ModerationAction is the decision an organizer takes on a pending
// session.
type ModerationAction string

// Moderation decisions.
const (
	ModerationApprove ModerationAction = "approve"
	ModerationReject  ModerationAction = "reject"
)

// ModerateSession approves or rejects a PENDING_MODERATION session.
// Rejection requires a non-empty reason which is persisted on the
// session; approval clears it.
func (s *Service) ModerateSession(ctx context.Context, sessionID uint64, action ModerationAction, reason string, actor Actor) (*model.GameSession, error) {
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
			return &ForbiddenError{Reason: "moderation requires an organizer role"}
		}
		switch action {
		case ModerationApprove:
			if !CanTransition(session.Status, model.SessionStatusValidated) {
				return &InvalidStateError{Entity: "session", State: session.Status, Op: "approve"}
			}
			session.Status = model.SessionStatusValidated
			session.RejectionReason = nil
		case ModerationReject:
			if !CanTransition(session.Status, model.SessionStatusRejected) {
				return &InvalidStateError{Entity: "session", State: session.Status, Op: "reject"}
			}
			if reason == "" {
				return &ValidationError{Field: "reason", Reason: "rejection requires a reason"}
			}
			session.Status = model.SessionStatusRejected
			session.RejectionReason = &reason
		default:
			return &ValidationError{Field: "action", Reason: "must be approve or reject"}
		}
		if err := tx.UpdateSession(ctx, session); err != nil {
			return err
		}
		updated = session
		return nil
	})
	return updated, err
}

// DeleteSession physically removes a DRAFT session.  Any other state
// fails: cancellation, not deletion, is how a submitted session goes
// away.
func (s *Service) DeleteSession(ctx context.Context, sessionID uint64, actor Actor) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		session, err := tx.SessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return &NotFoundError{Entity: "session", ID: sessionID}
		}
		if session.CreatedBy != actor.UserID && !s.canManage(ctx, actor, session.ExhibitionID) {
			return &ForbiddenError{Reason: "only the session creator or an organizer may delete"}
		}
		if session.Status != model.SessionStatusDraft {
			return &InvalidStateError{Entity: "session", State: session.Status, Op: "delete"}
		}
		return tx.DeleteSession(ctx, sessionID)
	})
}

// DeleteZone removes a zone together with its tables and time slots
// in one explicit transaction.  Zones with live (non-cancelled)
// sessions cannot be deleted.
func (s *Service) DeleteZone(ctx context.Context, zoneID uint64, actor Actor) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		zone, err := tx.ZoneForUpdate(ctx, zoneID)
		if err != nil {
			return err
		}
		if zone == nil {
			return &NotFoundError{Entity: "zone", ID: zoneID}
		}
		if !s.canManage(ctx, actor, zone.ExhibitionID) {
			return &ForbiddenError{Reason: "zone deletion requires an organizer role"}
		}
		n, err := tx.CountActiveSessionsInZone(ctx, zoneID)
		if err != nil {
			return err
		}
		if n > 0 {
			return &ConflictError{Reason: "zone still has active sessions"}
		}
		if err := tx.DeleteZoneTables(ctx, zoneID); err != nil {
			return err
		}
		if err := tx.DeleteZoneTimeSlots(ctx, zoneID); err != nil {
			return err
		}
		return tx.DeleteZone(ctx, zoneID)
	})
}
