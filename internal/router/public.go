package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/handler"
)

// RegisterPublic registers the endpoints that do not require a token:
// the health probe and the login endpoint.
func RegisterPublic(e *echo.Echo, auth *handler.AuthHandler) {
	e.GET("/health", handler.Health)
	e.POST("/v1/auth/login", auth.Login)
}
