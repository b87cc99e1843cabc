package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/handler"
	"github.com/kvnguyen/karaoke-pos/internal/middleware"
)

// RegisterStaff registers the endpoints any authenticated staff member
// may call: the room board, session lifecycle, the live order and the
// bill history.  All routes require a valid JWT; extra middleware
// such as the rate limiter is passed in by the caller.
func RegisterStaff(e *echo.Echo, auth *handler.AuthHandler, rooms *handler.RoomHandler,
	sessions *handler.SessionHandler, items *handler.OrderItemHandler,
	billing *handler.BillingHandler, audit *handler.AuditHandler,
	jwtSecret string, extra ...echo.MiddlewareFunc) {

	mw := append([]echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}, extra...)
	g := e.Group("/v1", mw...)

	// The signed-in user's own profile.
	g.GET("/me", auth.Me)

	// Room board and manual status changes.
	g.GET("/rooms", rooms.GetBoard)
	g.PATCH("/rooms/:id/status", rooms.SetStatus)

	// Session lifecycle.
	g.POST("/rooms/:id/session", sessions.Start)
	g.POST("/rooms/:id/checkout", sessions.Checkout)
	g.POST("/rooms/:id/move", sessions.Move)

	// The live order on an occupied room.
	g.GET("/rooms/:id/order", items.GetLiveOrder)
	g.POST("/rooms/:id/order/items", items.AddItem)
	g.POST("/rooms/:id/order/items/:itemID/stop", items.StopItem)
	g.POST("/rooms/:id/order/items/:itemID/resume", items.ResumeItem)
	g.DELETE("/rooms/:id/order/items/:itemID", items.RemoveItem)
	g.PATCH("/rooms/:id/order/start-time", items.AdjustSessionStart)
	g.PATCH("/rooms/:id/order/items/:itemID/start-time", items.AdjustItemStart)

	// Archived bills and the correction workflow.
	g.GET("/orders", billing.ListOrders)
	g.GET("/orders/:id", billing.GetOrder)
	g.POST("/orders/:id/print", billing.Print)
	g.POST("/orders/:id/edit-requests", billing.RequestEdit)
	g.GET("/edit-requests", billing.ListRequests)

	// Store settings and the audit trail.
	g.GET("/settings", billing.GetSettings)
	g.GET("/audit", audit.List)
}
