package handler // player-facing booking endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
	"github.com/lolautruche/StructuraLudis-sub000/internal/scheduling"
)

// PlayerHandler serves booking operations on behalf of players. All
// capacity and waitlist rules live in the scheduling service; this
// layer only translates HTTP.
type PlayerHandler struct {
	Scheduler *scheduling.Service
	Bookings  *repository.BookingRepo
}

// NewPlayerHandler constructs a PlayerHandler and panics on nil
// dependencies.
func NewPlayerHandler(svc *scheduling.Service, b *repository.BookingRepo) *PlayerHandler {
	if svc == nil || b == nil {
		panic("nil dependency passed to NewPlayerHandler")
	}
	return &PlayerHandler{Scheduler: svc, Bookings: b}
}

// bookingResp is the JSON shape returned for a booking.
type bookingResp struct {
	ID            uint64     `json:"id"`
	GameSessionID uint64     `json:"game_session_id"`
	UserID        uint64     `json:"user_id"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	RegisteredAt  time.Time  `json:"registered_at"`
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:            b.ID,
		GameSessionID: b.GameSessionID,
		UserID:        b.UserID,
		Role:          b.Role,
		Status:        b.Status,
		RegisteredAt:  b.RegisteredAt,
		CheckedInAt:   b.CheckedInAt,
	}
}

// CreateBooking handles POST /v1/sessions/:id/bookings. When the
// session is full the booking lands on the waiting list; the response
// status tells the caller which happened.
func (h *PlayerHandler) CreateBooking(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Role string `json:"role"`
	}
	// Body is optional; an empty role defaults to PLAYER.
	_ = c.Bind(&body)
	booking, err := h.Scheduler.CreateBooking(c.Request().Context(), sessionID, strings.ToUpper(strings.TrimSpace(body.Role)), actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(booking))
}

// CancelBooking handles DELETE /v1/bookings/:id. Cancelling a
// confirmed seat promotes the oldest waitlisted booking in the same
// transaction.
func (h *PlayerHandler) CancelBooking(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	booking, err := h.Scheduler.CancelBooking(c.Request().Context(), bookingID, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}

// CheckInBooking handles POST /v1/bookings/:id/checkin, marking a
// confirmed attendee as arrived at the table.
func (h *PlayerHandler) CheckInBooking(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	booking, err := h.Scheduler.CheckInBooking(c.Request().Context(), bookingID, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}

// myBookingResp joins a booking with its session for the player's
// overview.
type myBookingResp struct {
	ID             uint64     `json:"id"`
	SessionID      uint64     `json:"session_id"`
	SessionTitle   string     `json:"session_title"`
	SessionStatus  string     `json:"session_status"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	RegisteredAt   time.Time  `json:"registered_at"`
	CheckedInAt    *time.Time `json:"checked_in_at,omitempty"`
}

// MyBookings handles GET /v1/my/bookings, listing the caller's
// bookings with their session context, cancelled history included.
func (h *PlayerHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]myBookingResp, 0, len(items))
	for _, b := range items {
		out = append(out, myBookingResp{
			ID:             b.ID,
			SessionID:      b.SessionID,
			SessionTitle:   b.SessionTitle,
			SessionStatus:  b.SessionStatus,
			ScheduledStart: b.ScheduledStart,
			Role:           b.Role,
			Status:         b.Status,
			RegisteredAt:   b.RegisteredAt,
			CheckedInAt:    b.CheckedInAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
