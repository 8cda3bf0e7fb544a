package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/lolautruche/StructuraLudis-sub000/internal/handler"    // import the handlers that implement business logic
	"github.com/lolautruche/StructuraLudis-sub000/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers non-authenticated routes on the provided Echo instance.
// At the moment it only exposes a health check endpoint.
// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and their middleware.
// The provided AuthHandler implements the logic for each endpoint, and the
// jwtSecret is used to sign and verify JWT tokens for protected routes.
// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
    // Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Register a POST endpoint to issue a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
	// Register a POST endpoint to log out using a refresh token.  Unlike
	// previous iterations, logout does not require JWT authentication. The
	// handler accepts a JSON body containing a `refresh_token` and will
	// invalidate that token.  If the token is valid, a 204 response is
	// returned; otherwise 400/401/500 are possible depending on the error.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.  Protected endpoints live under /v1.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Apply the RequireRole middleware for any authenticated endpoint.
	// Every known role may query its own identity.  The middleware will
	// reject requests with missing or unknown roles.
	auth.Use(middleware.RequireRole("ORGANIZER", "GAME_MASTER", "PLAYER"))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)

	// Additionally map POST /v1/logout to the same handler.  This route lives
	// at the top level (outside of the protected group) so it does not
	// require a JWT.  Clients can therefore call either /v1/auth/logout or
	// /v1/logout with a valid refresh token in the body to terminate a
	// session.
	e.POST("/v1/logout", a.Logout)

}

// RegisterPublic registers unauthenticated browse endpoints on the provided Echo instance.
// The provided PublicHandler exposes handlers that return sanitized data for
// exhibitions, zones, sessions and the game catalog. These routes do not apply
// any JWT or role middleware and are intended for guest visitors.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// Expose list of all exhibitions
	e.GET("/v1/public/exhibitions", p.GetPublicExhibitions)
	// List zones of a specific exhibition
	e.GET("/v1/public/exhibitions/:id/zones", p.GetPublicZones)
	// List the time slots of a zone
	e.GET("/v1/public/zones/:id/slots", p.GetPublicTimeSlots)
	// List bookable sessions of an exhibition.  Only VALIDATED and
	// IN_PROGRESS sessions appear; drafts and the moderation queue are
	// never exposed to guests.
	e.GET("/v1/public/exhibitions/:id/sessions", p.GetPublicSessions)
	// Expose the game catalog
	e.GET("/v1/public/games", p.GetPublicGames)
	e.GET("/v1/public/games/:id", p.GetPublicGame)
}