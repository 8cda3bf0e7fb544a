package router

import (
	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/handler"
	"github.com/lolautruche/StructuraLudis-sub000/internal/middleware"
)

// RegisterPlayer registers booking endpoints under /v1. Any
// authenticated role may book: players take seats, GMs and organizers
// can book on behalf of walk-ups and cancel or check in any booking
// on sessions they run.
func RegisterPlayer(e *echo.Echo, h *handler.PlayerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("PLAYER", "GAME_MASTER", "ORGANIZER"),
	)
	g.POST("/sessions/:id/bookings", h.CreateBooking)
	g.DELETE("/bookings/:id", h.CancelBooking)
	g.POST("/bookings/:id/checkin", h.CheckInBooking)
	g.GET("/my/bookings", h.MyBookings)
}
