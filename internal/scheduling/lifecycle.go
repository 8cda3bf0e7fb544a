package scheduling

import (
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// transition is one allowed edge of the session state machine.
type transition struct {
	from, to string
}

// transitions enumerates every legal edge.  Anything not listed is
// an InvalidStateError.  CANCELLED has no outgoing edges; DRAFT is
// additionally the only state from which a session may be deleted.
var transitions = []transition{
	{model.SessionStatusDraft, model.SessionStatusPendingModeration},
	{model.SessionStatusRejected, model.SessionStatusPendingModeration},
	{model.SessionStatusPendingModeration, model.SessionStatusValidated},
	{model.SessionStatusPendingModeration, model.SessionStatusRejected},
	{model.SessionStatusValidated, model.SessionStatusInProgress},
	{model.SessionStatusValidated, model.SessionStatusCancelled},
}

// CanTransition reports whether the state machine allows moving a
// session from one status to another.
func CanTransition(from, to string) bool {
	for _, t := range transitions {
		if t.from == from && t.to == to {
			return true
		}
	}
	return false
}

// SessionPatch is a typed partial update for a session.  Nil fields
// are left untouched.  Which fields may change depends on the
// session's state: DRAFT and REJECTED sessions are fully editable,
// everything else only accepts the restricted set (description and
// table assignment).
type SessionPatch struct {
	Title           *string
	Description     *string
	GameID          *uint64
	TimeSlotID      *uint64
	ScheduledStart  *time.Time
	ScheduledEnd    *time.Time
	MaxPlayers      *uint32
	PhysicalTableID *uint64
}

// restricted reports whether the patch touches any field outside the
// post-draft allow-list.
func (p *SessionPatch) restricted() bool {
	return p.Title != nil || p.GameID != nil || p.TimeSlotID != nil ||
		p.ScheduledStart != nil || p.ScheduledEnd != nil || p.MaxPlayers != nil
}

// ApplyPatch copies the patch onto the session, enforcing the
// per-state allow-list.  It mutates the session in place and returns
// an InvalidStateError when a restricted field is patched outside
// DRAFT or REJECTED.  Schedule bounds are not validated here; the
// caller re-validates against the time slot after applying.
func ApplyPatch(s *model.GameSession, p *SessionPatch) error {
	editable := s.Status == model.SessionStatusDraft || s.Status == model.SessionStatusRejected
	if !editable && p.restricted() {
		return &InvalidStateError{Entity: "session", State: s.Status, Op: "edit restricted fields of"}
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.GameID != nil {
		s.GameID = *p.GameID
	}
	if p.TimeSlotID != nil {
		s.TimeSlotID = *p.TimeSlotID
	}
	if p.ScheduledStart != nil {
		s.ScheduledStart = *p.ScheduledStart
	}
	if p.ScheduledEnd != nil {
		s.ScheduledEnd = *p.ScheduledEnd
	}
	if p.MaxPlayers != nil {
		s.MaxPlayers = *p.MaxPlayers
	}
	if p.PhysicalTableID != nil {
		id := *p.PhysicalTableID
		s.PhysicalTableID = &id
	}
	return nil
}

// ValidateSchedule checks a session's planned window against its
// time slot: start within bounds, end within bounds, duration under
// the slot's cap.  It returns a ValidationError naming the first
// violated field.
func ValidateSchedule(start, end time.Time, slot *model.TimeSlot) error {
	if !end.After(start) {
		return &ValidationError{Field: "scheduled_end", Reason: "must be after scheduled_start"}
	}
	if start.Before(slot.StartsAt) {
		return &ValidationError{Field: "scheduled_start", Reason: "before the time slot opens"}
	}
	if end.After(slot.EndsAt) {
		return &ValidationError{Field: "scheduled_end", Reason: "after the time slot closes"}
	}
	if slot.MaxDurationMinutes > 0 {
		max := time.Duration(slot.MaxDurationMinutes) * time.Minute
		if end.Sub(start) > max {
			return &ValidationError{Field: "scheduled_end", Reason: "duration exceeds the slot maximum"}
		}
	}
	return nil
}
