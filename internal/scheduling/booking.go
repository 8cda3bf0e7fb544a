package scheduling

import (
	"context"
	"time"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
)

// BookingEvent is the payload emitted for booking.confirmed,
// booking.waitlisted and booking.promoted notifications.
type BookingEvent struct {
	BookingID    uint64 `json:"booking_id"`
	SessionID    uint64 `json:"session_id"`
	SessionTitle string `json:"session_title"`
	UserID       uint64 `json:"user_id"`
	Status       string `json:"status"`
	OccurredAt   string `json:"occurred_at"`
}

// SessionCancelledEvent is emitted once per session swept or
// cancelled, so downstream consumers can notify affected bookers.
type SessionCancelledEvent struct {
	SessionID    uint64   `json:"session_id"`
	SessionTitle string   `json:"session_title"`
	BookerIDs    []uint64 `json:"booker_ids"`
	OccurredAt   string   `json:"occurred_at"`
}

// CreateBooking reserves a seat on a VALIDATED session for the
// actor.  The session row is locked while the seat count is taken so
// two racing calls cannot both win the last seat: when CONFIRMED and
// CHECKED_IN bookings already fill max_players, the new booking goes
// to the waitlist instead.
func (s *Service) CreateBooking(ctx context.Context, sessionID uint64, role string, actor Actor) (*model.Booking, error) {
	switch role {
	case model.BookingRolePlayer, model.BookingRoleAssistant, model.BookingRoleSpectator:
	case "":
		role = model.BookingRolePlayer
	default:
		return nil, &ValidationError{Field: "role", Reason: "unknown booking role"}
	}
	var booking *model.Booking
	var title string
	err := s.store.InTx(ctx, func(tx Tx) error {
		session, err := tx.SessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return &NotFoundError{Entity: "session", ID: sessionID}
		}
		if session.Status != model.SessionStatusValidated {
			return &InvalidStateError{Entity: "session", State: session.Status, Op: "book"}
		}
		existing, err := tx.ActiveBookingByUser(ctx, sessionID, actor.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &ConflictError{Reason: "user already has a booking on this session"}
		}
		seated, err := tx.CountSeated(ctx, sessionID)
		if err != nil {
			return err
		}
		status := model.BookingStatusConfirmed
		if seated >= int(session.MaxPlayers) {
			status = model.BookingStatusWaitingList
		}
		booking = &model.Booking{
			GameSessionID: sessionID,
			UserID:        actor.UserID,
			Role:          role,
			Status:        status,
			RegisteredAt:  s.clock.Now(),
		}
		title = session.Title
		return tx.CreateBooking(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	kind := EventBookingConfirmed
	if booking.Status == model.BookingStatusWaitingList {
		kind = EventBookingWaitlisted
	}
	s.notif.Emit(ctx, kind, BookingEvent{
		BookingID:    booking.ID,
		SessionID:    sessionID,
		SessionTitle: title,
		UserID:       booking.UserID,
		Status:       booking.Status,
		OccurredAt:   s.clock.Now().Format(time.RFC3339),
	})
	return booking, nil
}

// CancelBooking cancels a booking owned by the actor (or any booking
// when the actor is elevated).  If the cancelled booking held a seat
// the oldest waitlisted booking is promoted to CONFIRMED in the same
// transaction, and the promoted user is notified after commit.
func (s *Service) CancelBooking(ctx context.Context, bookingID uint64, actor Actor) (*model.Booking, error) {
	var cancelled *model.Booking
	var promoted *model.Booking
	var title string
	err := s.store.InTx(ctx, func(tx Tx) error {
		booking, err := tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return &NotFoundError{Entity: "booking", ID: bookingID}
		}
		session, err := tx.SessionForUpdate(ctx, booking.GameSessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return &NotFoundError{Entity: "session", ID: booking.GameSessionID}
		}
		if booking.UserID != actor.UserID && !s.canManage(ctx, actor, session.ExhibitionID) {
			return &ForbiddenError{Reason: "only the booking owner or an organizer may cancel"}
		}
		if booking.Status == model.BookingStatusCancelled {
			return &InvalidStateError{Entity: "booking", State: booking.Status, Op: "cancel"}
		}
		heldSeat := booking.Status == model.BookingStatusConfirmed || booking.Status == model.BookingStatusCheckedIn
		booking.Status = model.BookingStatusCancelled
		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return err
		}
		cancelled = booking
		title = session.Title
		if !heldSeat {
			// A waitlisted cancellation frees no seat, nothing to promote.
			return nil
		}
		next, err := tx.OldestWaitlisted(ctx, booking.GameSessionID)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		next.Status = model.BookingStatusConfirmed
		if err := tx.UpdateBooking(ctx, next); err != nil {
			return err
		}
		promoted = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if promoted != nil {
		s.notif.Emit(ctx, EventBookingPromoted, BookingEvent{
			BookingID:    promoted.ID,
			SessionID:    promoted.GameSessionID,
			SessionTitle: title,
			UserID:       promoted.UserID,
			Status:       promoted.Status,
			OccurredAt:   s.clock.Now().Format(time.RFC3339),
		})
	}
	return cancelled, nil
}

// CheckInBooking marks a CONFIRMED booking as CHECKED_IN.  The
// booking owner, the session's GM and elevated actors may check a
// player in.
func (s *Service) CheckInBooking(ctx context.Context, bookingID uint64, actor Actor) (*model.Booking, error) {
	var updated *model.Booking
	err := s.store.InTx(ctx, func(tx Tx) error {
		booking, err := tx.Booking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return &NotFoundError{Entity: "booking", ID: bookingID}
		}
		session, err := tx.Session(ctx, booking.GameSessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return &NotFoundError{Entity: "session", ID: booking.GameSessionID}
		}
		allowed := booking.UserID == actor.UserID ||
			session.CreatedBy == actor.UserID ||
			s.canManage(ctx, actor, session.ExhibitionID)
		if !allowed {
			return &ForbiddenError{Reason: "only the booking owner, the GM or an organizer may check in"}
		}
		if booking.Status != model.BookingStatusConfirmed {
			return &InvalidStateError{Entity: "booking", State: booking.Status, Op: "check in"}
		}
		now := s.clock.Now()
		booking.Status = model.BookingStatusCheckedIn
		booking.CheckedInAt = &now
		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return err
		}
		updated = booking
		return nil
	})
	return updated, err
}
