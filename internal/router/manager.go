package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/handler"
	"github.com/kvnguyen/karaoke-pos/internal/middleware"
)

// RegisterManager registers the endpoints reserved for managers and
// admins: force-ending a session, deciding on edit requests and
// amending archived bills.  All routes require a valid JWT and the
// MANAGER or ADMIN role.
func RegisterManager(e *echo.Echo, sessions *handler.SessionHandler, billing *handler.BillingHandler,
	jwtSecret string, extra ...echo.MiddlewareFunc) {

	mw := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MANAGER", "ADMIN"),
	}, extra...)
	g := e.Group("/v1", mw...)

	g.POST("/rooms/:id/force-end", sessions.ForceEnd)
	g.POST("/edit-requests/:id/resolve", billing.Resolve)
	g.PUT("/orders/:id", billing.Amend)
}

// RegisterAdmin registers account provisioning, restricted to ADMIN.
func RegisterAdmin(e *echo.Echo, users *handler.UserHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mw := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	}, extra...)
	g := e.Group("/v1", mw...)

	g.POST("/users", users.CreateUser)
}
