package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values and errors.As
	"net/http"
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/lolautruche/StructuraLudis-sub000/internal/repository" // repository holds data access layer
	"github.com/lolautruche/StructuraLudis-sub000/internal/scheduling"
)

// OrganizerHandler bundles the repositories and the scheduling service
// used by organizer-facing endpoints: exhibition setup, zones, time
// slots, physical tables, the game catalog and the moderation queue.
type OrganizerHandler struct {
	Exhibitions *repository.ExhibitionRepo
	Zones       *repository.ZoneRepo
	Slots       *repository.TimeSlotRepo
	Tables      *repository.TableRepo
	Games       *repository.GameRepo
	Sessions    *repository.SessionRepo
	Scheduler   *scheduling.Service
}

// NewOrganizerHandler constructs a new OrganizerHandler and panics if
// any dependency is nil.
func NewOrganizerHandler(ex *repository.ExhibitionRepo, z *repository.ZoneRepo, ts *repository.TimeSlotRepo, tb *repository.TableRepo, g *repository.GameRepo, se *repository.SessionRepo, svc *scheduling.Service) *OrganizerHandler {
	if ex == nil || z == nil || ts == nil || tb == nil || g == nil || se == nil || svc == nil {
		panic("nil dependency passed to NewOrganizerHandler")
	}
	return &OrganizerHandler{
		Exhibitions: ex,
		Zones:       z,
		Slots:       ts,
		Tables:      tb,
		Games:       g,
		Sessions:    se,
		Scheduler:   svc,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id") // fetch user_id from context
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context") // value missing or of unexpected type
}

// getActor builds a scheduling.Actor from the JWT claims the auth
// middleware stored on the context.
func getActor(c echo.Context) (scheduling.Actor, error) {
	uid, err := getUserID(c)
	if err != nil {
		return scheduling.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return scheduling.Actor{UserID: uid, Role: role}, nil
}

// schedulingError translates the scheduling service's typed errors
// into HTTP responses. Unknown errors become a generic 500 so internal
// details never leak to clients.
func schedulingError(c echo.Context, err error) error {
	var (
		notFound  *scheduling.NotFoundError
		invalid   *scheduling.ValidationError
		state     *scheduling.InvalidStateError
		forbidden *scheduling.ForbiddenError
		conflict  *scheduling.ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound.Error()})
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": invalid.Error(), "field": invalid.Field})
	case errors.As(err, &state):
		return c.JSON(http.StatusConflict, echo.Map{"error": state.Error()})
	case errors.As(err, &forbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": forbidden.Error()})
	case errors.As(err, &conflict):
		resp := echo.Map{"error": conflict.Error()}
		if conflict.ConflictingID != 0 {
			resp["conflicting_session_id"] = conflict.ConflictingID
		}
		if conflict.Label != "" {
			resp["label"] = conflict.Label
		}
		return c.JSON(http.StatusConflict, resp)
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// paramID parses a numeric path parameter, rejecting zero.
func paramID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
