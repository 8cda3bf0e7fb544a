package model

import "time"

// Session status values.  The lifecycle is:
//
//	DRAFT -> PENDING_MODERATION -> VALIDATED | REJECTED
//	REJECTED -> PENDING_MODERATION (resubmission)
//	VALIDATED -> IN_PROGRESS (GM check-in) | CANCELLED
//
// CANCELLED is terminal.  Only DRAFT sessions may be physically
// deleted; once a session leaves DRAFT, cancellation is a status
// change, never a row removal.
const (
	SessionStatusDraft             = "DRAFT"
	SessionStatusPendingModeration = "PENDING_MODERATION"
	SessionStatusValidated         = "VALIDATED"
	SessionStatusRejected          = "REJECTED"
	SessionStatusInProgress        = "IN_PROGRESS"
	SessionStatusCancelled         = "CANCELLED"
)

// GameSession is a proposed or scheduled run of a game.  The schedule
// must lie within the owning time slot's bounds and respect its
// maximum duration.  A physical table is optional until an organizer
// assigns one.
//
// Fields:
//  ID              – primary key identifier.
//  ExhibitionID    – exhibition the session belongs to.
//  TimeSlotID      – time slot bounding the schedule.
//  GameID          – catalog game being run.
//  PhysicalTableID – assigned table, nil until assignment.
//  CreatedBy       – GM proposing the session.
//  Title           – display title (defaults to the game title).
//  Description     – free-form pitch shown to players.
//  ScheduledStart  – planned start, within the slot.
//  ScheduledEnd    – planned end, within the slot.
//  MaxPlayers      – seat capacity for CONFIRMED bookings.
//  Status          – lifecycle state, see constants above.
//  RejectionReason – moderator's reason, set on REJECTED only.
//  GMCheckedInAt   – when the GM checked in (nil = not yet).
//  ActualStart     – when the session actually started.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type GameSession struct {
	ID              uint64     // game_sessions.id
	ExhibitionID    uint64     // game_sessions.exhibition_id
	TimeSlotID      uint64     // game_sessions.time_slot_id
	GameID          uint64     // game_sessions.game_id
	PhysicalTableID *uint64    // game_sessions.physical_table_id (nullable)
	CreatedBy       uint64     // game_sessions.created_by
	Title           string     // game_sessions.title
	Description     string     // game_sessions.description
	ScheduledStart  time.Time  // game_sessions.scheduled_start
	ScheduledEnd    time.Time  // game_sessions.scheduled_end
	MaxPlayers      uint32     // game_sessions.max_players
	Status          string     // game_sessions.status
	RejectionReason *string    // game_sessions.rejection_reason (nullable)
	GMCheckedInAt   *time.Time // game_sessions.gm_checked_in_at (nullable)
	ActualStart     *time.Time // game_sessions.actual_start (nullable)
	CreatedAt       time.Time  // game_sessions.created_at
	UpdatedAt       time.Time  // game_sessions.updated_at
}
