package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/lolautruche/StructuraLudis-sub000/internal/handler"    // organizer handlers
	"github.com/lolautruche/StructuraLudis-sub000/internal/middleware" // JWT + role middlewares
)

// RegisterOrganizer registers ORGANIZER-scoped endpoints under /v1.
// All routes require a valid JWT and ORGANIZER role.
func RegisterOrganizer(e *echo.Echo, o *handler.OrganizerHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ORGANIZER"),
	)

	// ---- Exhibitions ----
	g.POST("/exhibitions", o.CreateExhibition)
	// NOTE: Listing exhibitions is also available on the public browse API;
	// the organizer variant includes grace periods and creator IDs.
	g.GET("/exhibitions", o.ListExhibitions)
	g.PUT("/exhibitions/:id", o.UpdateExhibition)
	g.PATCH("/exhibitions/:id", o.UpdateExhibition) // allow partial updates via PATCH as well

	// ---- Zones ----
	g.POST("/exhibitions/:id/zones", o.CreateZone)
	g.GET("/exhibitions/:id/zones", o.ListZones)
	g.PUT("/zones/:id", o.UpdateZone)
	g.PATCH("/zones/:id", o.UpdateZone)
	g.DELETE("/zones/:id", o.DeleteZone)

	// ---- Time slots ----
	g.POST("/zones/:id/slots", o.CreateTimeSlot)
	g.GET("/zones/:id/slots", o.ListTimeSlots)
	g.DELETE("/slots/:id", o.DeleteTimeSlot)

	// ---- Physical tables ----
	g.POST("/zones/:id/tables", o.BatchCreateTables) // batch numbered creation
	g.GET("/zones/:id/tables", o.ListTables)
	g.PATCH("/tables/:id/status", o.UpdateTableStatus)
	g.DELETE("/tables/:id", o.DeleteTable)
	g.PUT("/sessions/:id/table", o.AssignTable) // collision-checked assignment

	// ---- Game catalog ----
	g.POST("/games", o.CreateGame)
	g.GET("/games", o.ListGames)
	g.PUT("/games/:id", o.UpdateGame)
	g.PATCH("/games/:id", o.UpdateGame)

	// ---- Moderation and sweep ----
	g.GET("/exhibitions/:id/moderation", o.ListModerationQueue)
	g.POST("/sessions/:id/moderate", o.ModerateSession)
	g.POST("/exhibitions/:id/sweep", o.SweepAutoCancel)
}
