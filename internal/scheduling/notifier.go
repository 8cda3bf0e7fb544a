package scheduling

import "context"

// Event kinds emitted by the scheduling core.  Payload shapes are
// defined in the queue package; the core treats them as opaque.
const (
	EventBookingConfirmed  = "booking.confirmed"
	EventBookingWaitlisted = "booking.waitlisted"
	EventBookingPromoted   = "booking.promoted"
	EventSessionCancelled  = "session.cancelled"
)

// Notifier is the fire-and-forget notification sink.  Emit must
// never fail the calling business operation: implementations log
// delivery errors and swallow them.
type Notifier interface {
	Emit(ctx context.Context, kind string, payload any)
}

// NopNotifier discards all events.  Useful in tests and when the
// broker is not configured.
type NopNotifier struct{}

// Emit does nothing.
func (NopNotifier) Emit(ctx context.Context, kind string, payload any) {}
