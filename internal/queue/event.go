// Package queue defines message payloads exchanged over the message broker.
package queue

import "encoding/json"

// QueueName is the single durable queue all scheduling notifications
// travel through. The envelope's Kind field tells consumers apart.
const QueueName = "scheduling.events"

// Envelope wraps every published notification. Kind is one of the
// scheduling event kinds (booking.confirmed, booking.waitlisted,
// booking.promoted, session.cancelled); Payload holds the kind's
// specific body untouched so consumers can decode it lazily.
type Envelope struct {
	Kind       string          `json:"kind"`
	EmittedAt  string          `json:"emitted_at"`
	Payload    json.RawMessage `json:"payload"`
}

// BookingEvent is the payload for the three booking.* kinds. It
// carries enough information for downstream consumers to log or
// notify without querying the primary database.
type BookingEvent struct {
	BookingID    uint64 `json:"booking_id"`
	SessionID    uint64 `json:"session_id"`
	SessionTitle string `json:"session_title"`
	UserID       uint64 `json:"user_id"`
	Status       string `json:"status"`
	OccurredAt   string `json:"occurred_at"`
}

// SessionCancelledEvent is the payload for session.cancelled. It is
// emitted once per session, with every affected booker listed, so a
// consumer can fan out "your session was cancelled" notifications.
type SessionCancelledEvent struct {
	SessionID    uint64   `json:"session_id"`
	SessionTitle string   `json:"session_title"`
	BookerIDs    []uint64 `json:"booker_ids"`
	OccurredAt   string   `json:"occurred_at"`
}
