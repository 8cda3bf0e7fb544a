package handler // organizer-facing exhibition endpoints

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/model"
	"github.com/lolautruche/StructuraLudis-sub000/internal/repository"
)

// exhibitionResp is the JSON shape returned for an exhibition.
type exhibitionResp struct {
	ID                 uint64    `json:"id"`
	Name               string    `json:"name"`
	StartsOn           time.Time `json:"starts_on"`
	EndsOn             time.Time `json:"ends_on"`
	GracePeriodMinutes uint32    `json:"grace_period_minutes"`
	CreatedBy          uint64    `json:"created_by"`
}

func toExhibitionResp(e *model.Exhibition) exhibitionResp {
	return exhibitionResp{
		ID:                 e.ID,
		Name:               e.Name,
		StartsOn:           e.StartsOn,
		EndsOn:             e.EndsOn,
		GracePeriodMinutes: e.GracePeriodMinutes,
		CreatedBy:          e.CreatedBy,
	}
}

// CreateExhibition handles POST /v1/exhibitions. Dates use the
// YYYY-MM-DD form; the grace period defaults to 30 minutes when the
// body omits it.
func (h *OrganizerHandler) CreateExhibition(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name               string  `json:"name"`
		StartsOn           string  `json:"starts_on"`
		EndsOn             string  `json:"ends_on"`
		GracePeriodMinutes *uint32 `json:"grace_period_minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	starts, err := time.Parse("2006-01-02", body.StartsOn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_on must be YYYY-MM-DD"})
	}
	ends, err := time.Parse("2006-01-02", body.EndsOn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on must be YYYY-MM-DD"})
	}
	if ends.Before(starts) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on must not precede starts_on"})
	}
	grace := uint32(30)
	if body.GracePeriodMinutes != nil {
		grace = *body.GracePeriodMinutes
	}
	ex := &model.Exhibition{
		Name:               name,
		StartsOn:           starts,
		EndsOn:             ends,
		GracePeriodMinutes: grace,
		CreatedBy:          userID,
	}
	if err := h.Exhibitions.Create(c.Request().Context(), ex); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create exhibition"})
	}
	return c.JSON(http.StatusCreated, toExhibitionResp(ex))
}

// ListExhibitions handles GET /v1/exhibitions for organizers.
func (h *OrganizerHandler) ListExhibitions(c echo.Context) error {
	items, err := h.Exhibitions.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]exhibitionResp, 0, len(items))
	for _, e := range items {
		out = append(out, toExhibitionResp(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateExhibition handles PUT /v1/exhibitions/:id. Only the creator
// may update an exhibition; the ORGANIZER role check happened in
// middleware already.
func (h *OrganizerHandler) UpdateExhibition(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name               *string `json:"name"`
		StartsOn           *string `json:"starts_on"`
		EndsOn             *string `json:"ends_on"`
		GracePeriodMinutes *uint32 `json:"grace_period_minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	ex, err := h.Exhibitions.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrExhibitionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if ex.CreatedBy != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if body.Name != nil {
		if n := strings.TrimSpace(*body.Name); n != "" {
			ex.Name = n
		}
	}
	if body.StartsOn != nil {
		t, err := time.Parse("2006-01-02", *body.StartsOn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_on must be YYYY-MM-DD"})
		}
		ex.StartsOn = t
	}
	if body.EndsOn != nil {
		t, err := time.Parse("2006-01-02", *body.EndsOn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on must be YYYY-MM-DD"})
		}
		ex.EndsOn = t
	}
	if ex.EndsOn.Before(ex.StartsOn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on must not precede starts_on"})
	}
	if body.GracePeriodMinutes != nil {
		ex.GracePeriodMinutes = *body.GracePeriodMinutes
	}
	if err := h.Exhibitions.Update(ctx, ex); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exhibition not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toExhibitionResp(ex))
}
