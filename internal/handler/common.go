package handler

// common.go carries the helpers shared by every handler file: tenant
// scope extraction and the translation of engine/repository sentinels
// into HTTP status codes.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/engine"
	"github.com/kvnguyen/karaoke-pos/internal/middleware"
	"github.com/kvnguyen/karaoke-pos/internal/model"
	"github.com/kvnguyen/karaoke-pos/internal/repository"
)

// actorFrom is a local alias for the middleware helper, so handler
// code reads naturally.
func actorFrom(c echo.Context) engine.Actor { return middleware.ActorFrom(c) }

// normStatus normalizes a client-supplied status string.
func normStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// roomStatusFrom normalizes a client-supplied status string; the
// engine validates the result.
func roomStatusFrom(s string) model.RoomStatus {
	return model.RoomStatus(normStatus(s))
}

// storeScope returns the tenant scope for the request or writes a 400
// when none is present.  The bool reports whether the handler may
// proceed.
func storeScope(c echo.Context) (string, bool) {
	storeID := middleware.StoreFrom(c)
	if storeID == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "missing store scope"})
		return "", false
	}
	return storeID, true
}

// engineError maps engine and repository failures onto HTTP responses.
// Unknown errors become a 500 with a generic message so internals are
// not leaked to clients.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, engine.ErrNoActiveSession):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active session"})
	case errors.Is(err, engine.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid state"})
	case errors.Is(err, engine.ErrTargetUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "target room unavailable"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
