package model

import "time"

// Booking status values.  CONFIRMED and CHECKED_IN count against the
// session's capacity; WAITING_LIST bookings are promoted FIFO when a
// confirmed seat frees up.  CANCELLED rows are kept for history.
const (
	BookingStatusConfirmed   = "CONFIRMED"
	BookingStatusWaitingList = "WAITING_LIST"
	BookingStatusCheckedIn   = "CHECKED_IN"
	BookingStatusCancelled   = "CANCELLED"
)

// Booking roles.  Assistants and spectators occupy a seat like
// regular players; the role is informational for the GM.
const (
	BookingRolePlayer    = "PLAYER"
	BookingRoleAssistant = "ASSISTANT"
	BookingRoleSpectator = "SPECTATOR"
)

// Booking is a player's reservation against a game session.  At most
// one non-cancelled booking may exist per (user, session) pair.
//
// Fields:
//  ID            – primary key identifier.
//  GameSessionID – session being booked.
//  UserID        – booking user.
//  Role          – PLAYER, ASSISTANT or SPECTATOR.
//  Status        – see constants above.
//  RegisteredAt  – when the booking was made; orders the waitlist.
//  CheckedInAt   – when the player checked in (nil = not yet).
type Booking struct {
	ID            uint64     // bookings.id
	GameSessionID uint64     // bookings.game_session_id
	UserID        uint64     // bookings.user_id
	Role          string     // bookings.role
	Status        string     // bookings.status
	RegisteredAt  time.Time  // bookings.registered_at
	CheckedInAt   *time.Time // bookings.checked_in_at (nullable)
}
