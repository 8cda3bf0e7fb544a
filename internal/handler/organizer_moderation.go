package handler // organizer-facing moderation and sweep endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
	"github.com/lolautruche/StructuraLudis-sub000/internal/scheduling"
)

// listingResp is the JSON shape for joined session rows.
type listingResp struct {
	ID             uint64  `json:"id"`
	Title          string  `json:"title"`
	GameTitle      string  `json:"game_title"`
	Status         string  `json:"status"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`
	MaxPlayers     uint32  `json:"max_players"`
	SeatedCount    int     `json:"seated_count"`
	TableLabel     *string `json:"table_label,omitempty"`
}

func toListingResp(l *repository.SessionListing) listingResp {
	return listingResp{
		ID:             l.ID,
		Title:          l.Title,
		GameTitle:      l.GameTitle,
		Status:         l.Status,
		ScheduledStart: l.ScheduledStart.UTC().Format(time.RFC3339),
		ScheduledEnd:   l.ScheduledEnd.UTC().Format(time.RFC3339),
		MaxPlayers:     l.MaxPlayers,
		SeatedCount:    l.SeatedCount,
		TableLabel:     l.TableLabel,
	}
}

// ListModerationQueue handles GET /v1/exhibitions/:id/moderation,
// returning pending sessions oldest submission first.
func (h *OrganizerHandler) ListModerationQueue(c echo.Context) error {
	exhibitionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Sessions.ListPendingModeration(c.Request().Context(), exhibitionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]listingResp, 0, len(items))
	for _, l := range items {
		out = append(out, toListingResp(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ModerateSession handles POST /v1/sessions/:id/moderate with a body
// of {"action": "approve"} or {"action": "reject", "reason": "..."}.
// Rejection without a reason is refused; the reason is stored on the
// session so the GM can fix and resubmit.
func (h *OrganizerHandler) ModerateSession(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var action scheduling.ModerationAction
	switch strings.ToLower(strings.TrimSpace(body.Action)) {
	case "approve":
		action = scheduling.ModerationApprove
	case "reject":
		action = scheduling.ModerationReject
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be approve or reject"})
	}
	session, err := h.Scheduler.ModerateSession(c.Request().Context(), sessionID, action, strings.TrimSpace(body.Reason), actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(session))
}

// SweepAutoCancel handles POST /v1/exhibitions/:id/sweep. Every
// VALIDATED session whose scheduled start plus the grace period has
// passed without a GM check-in is cancelled; affected bookers are
// notified through the queue. The endpoint is idempotent.
func (h *OrganizerHandler) SweepAutoCancel(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	exhibitionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	swept, err := h.Scheduler.SweepAutoCancel(c.Request().Context(), exhibitionID, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	ids := make([]uint64, 0, len(swept))
	for _, s := range swept {
		ids = append(ids, s.ID)
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled_session_ids": ids})
}
