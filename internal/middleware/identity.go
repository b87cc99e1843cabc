package middleware

// identity.go exposes the actor and store scope extracted by JWTAuth.
// The engine performs no authorization itself; these helpers are how
// the HTTP layer supplies the trusted identity and tenant context the
// engine attributes its audit entries to.

import (
	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/engine"
)

// ActorFrom builds the audit actor from the JWT claims stored in
// context.  Unauthenticated or malformed contexts yield the "system"
// actor rather than failing; routes that require a real user are
// protected by JWTAuth before this is ever called.
func ActorFrom(c echo.Context) engine.Actor {
	a := engine.Actor{ID: "system", Name: "System"}
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		a.ID = v
	}
	if v, ok := c.Get("user_name").(string); ok && v != "" {
		a.Name = v
	}
	return a
}

// StoreFrom returns the tenant scope for the request: the X-Store-ID
// header when a manager is switching branches, otherwise the home
// store from the token.  An empty result means the request carries no
// usable scope and must be rejected by the handler.
func StoreFrom(c echo.Context) string {
	if h := c.Request().Header.Get("X-Store-ID"); h != "" {
		return h
	}
	if v, ok := c.Get("store_id").(string); ok {
		return v
	}
	return ""
}
