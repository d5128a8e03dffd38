package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stayboard/internal/handler"
	"github.com/iliyamo/stayboard/internal/middleware"
	"github.com/iliyamo/stayboard/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only the health check.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc) {
	e.GET("/healthz", health)
}

// RegisterAuth registers all authentication-related routes.  Register,
// login, refresh and logout live under /v1/auth and need no session; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// rotates the refresh token
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleOperator, model.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterDesk registers the operator desk under /v1.  Every route needs an
// OPERATOR or ADMIN token; forced approval is ADMIN only.  limiter guards
// writes, cache serves the room catalog.
func RegisterDesk(e *echo.Echo, d *handler.DeskHandler, jwtSecret string, limiter, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOperator, model.RoleAdmin),
		limiter,
	)

	// ---- Rooms ----
	g.GET("/rooms", d.ListRooms, cache)
	g.GET("/rooms/:id", d.GetRoom, cache)

	// ---- Bookings ----
	g.GET("/bookings", d.ListBookings)
	g.POST("/bookings/validate", d.ValidateBooking)
	g.POST("/bookings", d.CreateBooking)
	g.PATCH("/bookings/:id/status", d.UpdateBookingStatus)

	// ---- Holds ----
	g.GET("/holds", d.ListHolds)
	g.POST("/holds", d.CreateHold)
	g.DELETE("/holds/:id", d.ReleaseHold)

	// ---- Conflicts ----
	g.GET("/conflicts", d.ListConflicts)
	g.POST("/conflicts/:key/review", d.ReviewConflict)
	g.GET("/conflicts/:key/actions", d.ListActions)
	g.POST("/conflicts/:key/actions/:action", d.RunAction)
	g.POST("/conflicts/:key/force-approve", d.ForceApprove, middleware.RequireRole(model.RoleAdmin))
	g.GET("/audit", d.ListAudit)

	// ---- Views ----
	g.GET("/calendar", d.Calendar)
	g.GET("/dashboard", d.Dashboard)
}
