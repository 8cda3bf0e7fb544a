package router

// This file registers game-master session routes. GMs propose and run
// sessions; organizers inherit the same abilities since the scheduling
// service accepts elevated actors on every session operation.

import (
	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/handler"
	"github.com/lolautruche/StructuraLudis-sub000/internal/middleware"
)

// RegisterSessions registers session lifecycle endpoints under /v1.
// All routes require a valid JWT with the GAME_MASTER or ORGANIZER
// role; ownership of individual sessions is enforced by the
// scheduling service.
func RegisterSessions(e *echo.Echo, h *handler.SessionHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("GAME_MASTER", "ORGANIZER"),
	)
	g.POST("/sessions", h.CreateSession)
	g.PATCH("/sessions/:id", h.UpdateSession)
	g.PUT("/sessions/:id", h.UpdateSession)
	g.POST("/sessions/:id/submit", h.SubmitSession)
	g.DELETE("/sessions/:id", h.DeleteSession)
	g.POST("/sessions/:id/checkin", h.GMCheckIn)
	g.GET("/sessions/:id/roster", h.GetRoster)
	g.GET("/my/sessions", h.MySessions)
}
