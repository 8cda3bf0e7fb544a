// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated visitors to browse exhibitions, zones, the game catalog and
// bookable sessions without requiring authentication. Sensitive fields
// (creator IDs, rejection reasons, timestamps) are filtered from responses.

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	ExhibitionRepo *repository.ExhibitionRepo
	ZoneRepo       *repository.ZoneRepo
	SlotRepo       *repository.TimeSlotRepo
	GameRepo       *repository.GameRepo
	SessionRepo    *repository.SessionRepo
}

// PublicExhibition represents an exhibition exposed via the public API.
// It contains only safe fields.
type PublicExhibition struct {
	ID       uint64    `json:"id"`
	Name     string    `json:"name"`
	StartsOn time.Time `json:"starts_on"`
	EndsOn   time.Time `json:"ends_on"`
}

// PublicZone represents a zone exposed via the public API.
type PublicZone struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// PublicTimeSlot represents a zone time slot exposed via the public API.
type PublicTimeSlot struct {
	ID                 uint64    `json:"id"`
	StartsAt           time.Time `json:"starts_at"`
	EndsAt             time.Time `json:"ends_at"`
	MaxDurationMinutes uint32    `json:"max_duration_minutes"`
}

// PublicGame represents a catalog entry exposed via the public API.
type PublicGame struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	Complexity string `json:"complexity"`
	MinPlayers uint32 `json:"min_players"`
	MaxPlayers uint32 `json:"max_players"`
}

// PublicSession represents a bookable session in list responses,
// including how many of its seats are taken so visitors can see
// availability at a glance.
type PublicSession struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	GameTitle      string    `json:"game_title"`
	Status         string    `json:"status"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
	MaxPlayers     uint32    `json:"max_players"`
	SeatedCount    int       `json:"seated_count"`
	TableLabel     *string   `json:"table_label,omitempty"`
}

// GetPublicExhibitions returns all exhibitions. Response JSON contains
// an "items" array of PublicExhibition.
func (h *PublicHandler) GetPublicExhibitions(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.ExhibitionRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicExhibition, 0, len(items))
	for _, e := range items {
		out = append(out, PublicExhibition{ID: e.ID, Name: e.Name, StartsOn: e.StartsOn, EndsOn: e.EndsOn})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicZones lists zones of an exhibition for unauthenticated
// visitors. It validates the exhibition exists, then returns only
// non-sensitive fields.
func (h *PublicHandler) GetPublicZones(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// ensure exhibition exists
	if _, err := h.ExhibitionRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrExhibitionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	zones, err := h.ZoneRepo.ListByExhibition(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicZone, 0, len(zones))
	for _, z := range zones {
		out = append(out, PublicZone{ID: z.ID, Name: z.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicTimeSlots lists the time slots of a zone so visitors can
// see when sessions may run. The buffer setting stays internal.
func (h *PublicHandler) GetPublicTimeSlots(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.ZoneRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrZoneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	slots, err := h.SlotRepo.ListByZone(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicTimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, PublicTimeSlot{
			ID:                 s.ID,
			StartsAt:           s.StartsAt,
			EndsAt:             s.EndsAt,
			MaxDurationMinutes: s.MaxDurationMinutes,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicSessions lists the bookable sessions of an exhibition for
// unauthenticated visitors. Only VALIDATED and IN_PROGRESS sessions
// are returned; drafts and the moderation queue stay invisible.
func (h *PublicHandler) GetPublicSessions(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.ExhibitionRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrExhibitionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	sessions, err := h.SessionRepo.ListValidatedByExhibition(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, PublicSession{
			ID:             s.ID,
			Title:          s.Title,
			GameTitle:      s.GameTitle,
			Status:         s.Status,
			ScheduledStart: s.ScheduledStart,
			ScheduledEnd:   s.ScheduledEnd,
			MaxPlayers:     s.MaxPlayers,
			SeatedCount:    s.SeatedCount,
			TableLabel:     s.TableLabel,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicGame returns one catalog entry by id.
func (h *PublicHandler) GetPublicGame(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.GameRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrGameNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, PublicGame{ID: g.ID, Title: g.Title, Complexity: g.Complexity, MinPlayers: g.MinPlayers, MaxPlayers: g.MaxPlayers})
}

// GetPublicGames returns the game catalog for unauthenticated visitors.
func (h *PublicHandler) GetPublicGames(c echo.Context) error {
	ctx := c.Request().Context()
	games, err := h.GameRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicGame, 0, len(games))
	for _, g := range games {
		out = append(out, PublicGame{ID: g.ID, Title: g.Title, Complexity: g.Complexity, MinPlayers: g.MinPlayers, MaxPlayers: g.MaxPlayers})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
