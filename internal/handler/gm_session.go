package handler // game-master session endpoints

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
	"github.com/lolautruche/StructuraLudis-sub000/internal/scheduling"
)

// SessionHandler serves game-master session management: proposing,
// editing, submitting for moderation and running sessions at the
// table. All lifecycle rules live in the scheduling service.
type SessionHandler struct {
	Scheduler *scheduling.Service
	Sessions  *repository.SessionRepo
	Bookings  *repository.BookingRepo
}

// NewSessionHandler constructs a SessionHandler and panics on nil
// dependencies.
func NewSessionHandler(svc *scheduling.Service, se *repository.SessionRepo, b *repository.BookingRepo) *SessionHandler {
	if svc == nil || se == nil || b == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Scheduler: svc, Sessions: se, Bookings: b}
}

// sessionResp is the JSON shape returned for a game session.
type sessionResp struct {
	ID              uint64     `json:"id"`
	ExhibitionID    uint64     `json:"exhibition_id"`
	TimeSlotID      uint64     `json:"time_slot_id"`
	GameID          uint64     `json:"game_id"`
	PhysicalTableID *uint64    `json:"physical_table_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ScheduledStart  time.Time  `json:"scheduled_start"`
	ScheduledEnd    time.Time  `json:"scheduled_end"`
	MaxPlayers      uint32     `json:"max_players"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	GMCheckedInAt   *time.Time `json:"gm_checked_in_at,omitempty"`
	ActualStart     *time.Time `json:"actual_start,omitempty"`
}

func toSessionResp(s *model.GameSession) sessionResp {
	return sessionResp{
		ID:              s.ID,
		ExhibitionID:    s.ExhibitionID,
		TimeSlotID:      s.TimeSlotID,
		GameID:          s.GameID,
		PhysicalTableID: s.PhysicalTableID,
		Title:           s.Title,
		Description:     s.Description,
		ScheduledStart:  s.ScheduledStart,
		ScheduledEnd:    s.ScheduledEnd,
		MaxPlayers:      s.MaxPlayers,
		Status:          s.Status,
		RejectionReason: s.RejectionReason,
		GMCheckedInAt:   s.GMCheckedInAt,
		ActualStart:     s.ActualStart,
	}
}

// CreateSession handles POST /v1/sessions. The proposal lands in
// DRAFT; nothing is visible to players until moderation approves it.
func (h *SessionHandler) CreateSession(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ExhibitionID   uint64 `json:"exhibition_id"`
		TimeSlotID     uint64 `json:"time_slot_id"`
		GameID         uint64 `json:"game_id"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		ScheduledStart string `json:"scheduled_start"`
		ScheduledEnd   string `json:"scheduled_end"`
		MaxPlayers     uint32 `json:"max_players"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	starts, err := time.Parse(time.RFC3339, body.ScheduledStart)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_start must be RFC3339"})
	}
	ends, err := time.Parse(time.RFC3339, body.ScheduledEnd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_end must be RFC3339"})
	}
	session, err := h.Scheduler.CreateSession(c.Request().Context(), scheduling.SessionSpec{
		ExhibitionID:   body.ExhibitionID,
		TimeSlotID:     body.TimeSlotID,
		GameID:         body.GameID,
		Title:          body.Title,
		Description:    body.Description,
		ScheduledStart: starts.Unix(),
		ScheduledEnd:   ends.Unix(),
		MaxPlayers:     body.MaxPlayers,
	}, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionResp(session))
}

// UpdateSession handles PATCH /v1/sessions/:id. Outside DRAFT and
// REJECTED only the description and table assignment are editable;
// the service enforces the allow-list.
func (h *SessionHandler) UpdateSession(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Title          *string `json:"title"`
		Description    *string `json:"description"`
		GameID         *uint64 `json:"game_id"`
		TimeSlotID     *uint64 `json:"time_slot_id"`
		ScheduledStart *string `json:"scheduled_start"`
		ScheduledEnd   *string `json:"scheduled_end"`
		MaxPlayers     *uint32 `json:"max_players"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	patch := &scheduling.SessionPatch{
		Title:       body.Title,
		Description: body.Description,
		GameID:      body.GameID,
		TimeSlotID:  body.TimeSlotID,
		MaxPlayers:  body.MaxPlayers,
	}
	if body.ScheduledStart != nil {
		t, err := time.Parse(time.RFC3339, *body.ScheduledStart)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_start must be RFC3339"})
		}
		u := t.UTC()
		patch.ScheduledStart = &u
	}
	if body.ScheduledEnd != nil {
		t, err := time.Parse(time.RFC3339, *body.ScheduledEnd)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_end must be RFC3339"})
		}
		u := t.UTC()
		patch.ScheduledEnd = &u
	}
	session, err := h.Scheduler.UpdateSession(c.Request().Context(), sessionID, patch, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(session))
}

// SubmitSession handles POST /v1/sessions/:id/submit. In zones that
// do not require moderation the session comes back VALIDATED already.
func (h *SessionHandler) SubmitSession(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	session, err := h.Scheduler.SubmitForModeration(c.Request().Context(), sessionID, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(session))
}

// DeleteSession handles DELETE /v1/sessions/:id. Only drafts may be
// deleted; anything later must go through cancellation.
func (h *SessionHandler) DeleteSession(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Scheduler.DeleteSession(c.Request().Context(), sessionID, actor); err != nil {
		return schedulingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GMCheckIn handles POST /v1/sessions/:id/checkin. Checking in moves
// the session to IN_PROGRESS and shields it from the auto-cancel
// sweep.
func (h *SessionHandler) GMCheckIn(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	session, err := h.Scheduler.GMCheckIn(c.Request().Context(), sessionID, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(session))
}

// MySessions handles GET /v1/my/sessions, listing every session the
// caller created, any status.
func (h *SessionHandler) MySessions(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Sessions.ListByCreator(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]listingResp, 0, len(items))
	for _, l := range items {
		out = append(out, toListingResp(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// rosterResp is one attendee row the GM sees at the table.
type rosterResp struct {
	BookingID    uint64     `json:"booking_id"`
	UserID       uint64     `json:"user_id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	RegisteredAt time.Time  `json:"registered_at"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
}

// GetRoster handles GET /v1/sessions/:id/roster, returning confirmed
// and checked-in attendees before the waiting list.
func (h *SessionHandler) GetRoster(c echo.Context) error {
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	entries, err := h.Bookings.ListRoster(c.Request().Context(), sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]rosterResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, rosterResp{
			BookingID:    e.BookingID,
			UserID:       e.UserID,
			Email:        e.Email,
			Role:         e.Role,
			Status:       e.Status,
			RegisteredAt: e.RegisteredAt,
			CheckedInAt:  e.CheckedInAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
