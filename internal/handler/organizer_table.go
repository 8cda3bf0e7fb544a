package handler // organizer-facing physical table endpoints

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
	"github.com/lolautruche/StructuraLudis-sub000/internal/scheduling"
)

// tableResp is the JSON shape returned for a physical table.
type tableResp struct {
	ID       uint64 `json:"id"`
	ZoneID   uint64 `json:"zone_id"`
	Label    string `json:"label"`
	Capacity uint32 `json:"capacity"`
	Status   string `json:"status"`
}

func toTableResp(t *model.PhysicalTable) tableResp {
	return tableResp{ID: t.ID, ZoneID: t.ZoneID, Label: t.Label, Capacity: t.Capacity, Status: t.Status}
}

// BatchCreateTables handles POST /v1/zones/:id/tables. The scheduling
// service owns the numbering: labels continue after the highest
// existing number, or fill gaps first when fill_gaps is set. The
// whole batch succeeds or fails together.
func (h *OrganizerHandler) BatchCreateTables(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	zoneID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Count          int    `json:"count"`
		Prefix         string `json:"prefix"`
		StartingNumber int    `json:"starting_number"`
		FillGaps       bool   `json:"fill_gaps"`
		Capacity       uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	tables, err := h.Scheduler.BatchCreateTables(c.Request().Context(), scheduling.BatchTablesSpec{
		ZoneID:         zoneID,
		Prefix:         strings.TrimSpace(body.Prefix),
		Count:          body.Count,
		StartingNumber: body.StartingNumber,
		FillGaps:       body.FillGaps,
		Capacity:       body.Capacity,
	}, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	out := make([]tableResp, 0, len(tables))
	for _, t := range tables {
		out = append(out, toTableResp(t))
	}
	return c.JSON(http.StatusCreated, echo.Map{"items": out})
}

// ListTables handles GET /v1/zones/:id/tables.
func (h *OrganizerHandler) ListTables(c echo.Context) error {
	zoneID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.Tables.ListByZone(c.Request().Context(), zoneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]tableResp, 0, len(items))
	for _, t := range items {
		out = append(out, toTableResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateTableStatus handles PATCH /v1/tables/:id/status. The status is
// informational (floor-plan display); it never blocks assignment.
func (h *OrganizerHandler) UpdateTableStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	switch status {
	case model.TableStatusAvailable, model.TableStatusOccupied, model.TableStatusReserved, model.TableStatusOutOfService:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if err := h.Tables.UpdateStatus(c.Request().Context(), id, status); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	table, _ := h.Tables.GetByID(c.Request().Context(), id)
	return c.JSON(http.StatusOK, toTableResp(table))
}

// DeleteTable handles DELETE /v1/tables/:id.
func (h *OrganizerHandler) DeleteTable(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "table has sessions"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignTable handles PUT /v1/sessions/:id/table. The scheduling
// service checks buffered overlap against every session already on
// the target table and rejects with 409 naming the conflicting
// session and its occupied window.
func (h *OrganizerHandler) AssignTable(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		TableID uint64 `json:"table_id"`
	}
	if err := c.Bind(&body); err != nil || body.TableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
	}
	session, err := h.Scheduler.AssignTable(c.Request().Context(), sessionID, body.TableID, actor)
	if err != nil {
		return schedulingError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(session))
}
