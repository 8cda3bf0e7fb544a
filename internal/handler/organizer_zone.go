package handler // organizer-facing zone and time slot endpoints

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
)

// zoneResp is the JSON shape returned for a zone.
type zoneResp struct {
	ID                 uint64  `json:"id"`
	ExhibitionID       uint64  `json:"exhibition_id"`
	Name               string  `json:"name"`
	ModerationRequired bool    `json:"moderation_required"`
	TablePrefix        *string `json:"table_prefix,omitempty"`
}

func toZoneResp(z *model.Zone) zoneResp {
	return zoneResp{
		ID:                 z.ID,
		ExhibitionID:       z.ExhibitionID,
		Name:               z.Name,
		ModerationRequired: z.ModerationRequired,
		TablePrefix:        z.TablePrefix,
	}
}

// CreateZone handles POST /v1/exhibitions/:id/zones.
func (h *OrganizerHandler) CreateZone(c echo.Context) error {
	exhibitionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name               string  `json:"name"`
		ModerationRequired *bool   `json:"moderation_required"`
		TablePrefix        *string `json:"table_prefix"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Exhibitions.GetByID(ctx, exhibitionID); err != nil {
		if err == repository.ErrExhibitionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	// New zones require moderation unless the body says otherwise.
	moderated := true
	if body.ModerationRequired != nil {
		moderated = *body.ModerationRequired
	}
	zone := &model.Zone{
		ExhibitionID:       exhibitionID,
		Name:               name,
		ModerationRequired: moderated,
		TablePrefix:        body.TablePrefix,
	}
	if err := h.Zones.Create(ctx, zone); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create zone"})
	}
	return c.JSON(http.StatusCreated, toZoneResp(zone))
}

// ListZones handles GET /v1/exhibitions/:id/zones.
func (h *OrganizerHandler) ListZones(c echo.Context) error {
	exhibitionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Zones.ListByExhibition(c.Request().Context(), exhibitionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]zoneResp, 0, len(items))
	for _, z := range items {
		out = append(out, toZoneResp(z))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateZone handles PUT /v1/zones/:id.
func (h *OrganizerHandler) UpdateZone(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name               *string `json:"name"`
		ModerationRequired *bool   `json:"moderation_required"`
		TablePrefix        *string `json:"table_prefix"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	zone, err := h.Zones.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrZoneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.Name != nil {
		if n := strings.TrimSpace(*body.Name); n != "" {
			zone.Name = n
		}
	}
	if body.ModerationRequired != nil {
		zone.ModerationRequired = *body.ModerationRequired
	}
	if body.TablePrefix != nil {
		zone.TablePrefix = body.TablePrefix
	}
	if err := h.Zones.Update(ctx, zone); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toZoneResp(zone))
}

// DeleteZone handles DELETE /v1/zones/:id. The scheduling service
// refuses when live sessions still reference the zone and otherwise
// removes the zone with its tables and time slots in one transaction.
func (h *OrganizerHandler) DeleteZone(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Scheduler.DeleteZone(c.Request().Context(), id, actor); err != nil {
		return schedulingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// slotResp is the JSON shape returned for a time slot.
type slotResp struct {
	ID                 uint64    `json:"id"`
	ZoneID             uint64    `json:"zone_id"`
	StartsAt           time.Time `json:"starts_at"`
	EndsAt             time.Time `json:"ends_at"`
	MaxDurationMinutes uint32    `json:"max_duration_minutes"`
	BufferTimeMinutes  uint32    `json:"buffer_time_minutes"`
}

func toSlotResp(s *model.TimeSlot) slotResp {
	return slotResp{
		ID:                 s.ID,
		ZoneID:             s.ZoneID,
		StartsAt:           s.StartsAt,
		EndsAt:             s.EndsAt,
		MaxDurationMinutes: s.MaxDurationMinutes,
		BufferTimeMinutes:  s.BufferTimeMinutes,
	}
}

// CreateTimeSlot handles POST /v1/zones/:id/slots. Times are RFC3339.
func (h *OrganizerHandler) CreateTimeSlot(c echo.Context) error {
	zoneID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		StartsAt           string `json:"starts_at"`
		EndsAt             string `json:"ends_at"`
		MaxDurationMinutes uint32 `json:"max_duration_minutes"`
		BufferTimeMinutes  uint32 `json:"buffer_time_minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	starts, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	ends, err := time.Parse(time.RFC3339, body.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
	}
	if !ends.After(starts) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must follow starts_at"})
	}
	if body.MaxDurationMinutes == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_duration_minutes is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Zones.GetByID(ctx, zoneID); err != nil {
		if err == repository.ErrZoneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	slot := &model.TimeSlot{
		ZoneID:             zoneID,
		StartsAt:           starts.UTC(),
		EndsAt:             ends.UTC(),
		MaxDurationMinutes: body.MaxDurationMinutes,
		BufferTimeMinutes:  body.BufferTimeMinutes,
	}
	if err := h.Slots.Create(ctx, slot); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create time slot"})
	}
	return c.JSON(http.StatusCreated, toSlotResp(slot))
}

// ListTimeSlots handles GET /v1/zones/:id/slots.
func (h *OrganizerHandler) ListTimeSlots(c echo.Context) error {
	zoneID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Slots.ListByZone(c.Request().Context(), zoneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]slotResp, 0, len(items))
	for _, s := range items {
		out = append(out, toSlotResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// DeleteTimeSlot handles DELETE /v1/slots/:id.
func (h *OrganizerHandler) DeleteTimeSlot(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Slots.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "time slot not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot has sessions"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
