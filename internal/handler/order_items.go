package handler

// This file defines the live order endpoints used while a session is
// running: viewing the order, adding products, controlling metered
// items and correcting clock-entry mistakes.  The item mutations
// deliberately answer 204 even when the target order or item no longer
// exists; two terminals race on the same room all day and the late
// call's intent is already satisfied.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/engine"
	"github.com/kvnguyen/karaoke-pos/internal/repository"
)

// OrderItemHandler mutates the live order of a room.
type OrderItemHandler struct {
	Engine   *engine.Engine
	Products *repository.ProductRepo
	Board    *RoomHandler
}

// NewOrderItemHandler constructs an OrderItemHandler.
func NewOrderItemHandler(eng *engine.Engine, products *repository.ProductRepo, board *RoomHandler) *OrderItemHandler {
	if eng == nil || products == nil {
		panic("nil dependency passed to NewOrderItemHandler")
	}
	return &OrderItemHandler{Engine: eng, Products: products, Board: board}
}

// GetLiveOrder handles GET /v1/rooms/:id/order.  It returns the open
// order of the room or 404 when the room has no session.
func (h *OrderItemHandler) GetLiveOrder(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	order, found := h.Engine.LiveOrder(storeID, c.Param("id"))
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddItem handles POST /v1/rooms/:id/order/items.  The product's name
// and prices are snapshotted at this moment; catalog changes later do
// not touch bills already accrued.
func (h *OrderItemHandler) AddItem(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req addItemRequest
	if err := c.Bind(&req); err != nil || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	ctx := c.Request().Context()
	product, err := h.Products.Get(ctx, storeID, req.ProductID)
	if err != nil {
		return engineError(c, err)
	}
	h.Engine.AddItem(ctx, storeID, c.Param("id"), product, req.Quantity, actorFrom(c))
	h.invalidate(c, storeID)
	return c.NoContent(http.StatusNoContent)
}

// StopItem handles POST /v1/rooms/:id/order/items/:itemID/stop.  It
// freezes a metered item's accrual.
func (h *OrderItemHandler) StopItem(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	h.Engine.StopMeteredItem(c.Request().Context(), storeID, c.Param("id"), c.Param("itemID"), actorFrom(c))
	return c.NoContent(http.StatusNoContent)
}

// ResumeItem handles POST /v1/rooms/:id/order/items/:itemID/resume.
func (h *OrderItemHandler) ResumeItem(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	h.Engine.ResumeMeteredItem(c.Request().Context(), storeID, c.Param("id"), c.Param("itemID"), actorFrom(c))
	return c.NoContent(http.StatusNoContent)
}

// RemoveItem handles DELETE /v1/rooms/:id/order/items/:itemID.
func (h *OrderItemHandler) RemoveItem(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	h.Engine.RemoveItem(c.Request().Context(), storeID, c.Param("id"), c.Param("itemID"), actorFrom(c))
	h.invalidate(c, storeID)
	return c.NoContent(http.StatusNoContent)
}

type adjustRequest struct {
	DeltaMinutes int `json:"delta_minutes"`
}

// AdjustSessionStart handles PATCH /v1/rooms/:id/order/start-time.  It
// shifts the session start by the given minutes to fix a late or
// mistyped check-in.
func (h *OrderItemHandler) AdjustSessionStart(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req adjustRequest
	if err := c.Bind(&req); err != nil || req.DeltaMinutes == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "delta_minutes required"})
	}
	h.Engine.AdjustSessionStart(c.Request().Context(), storeID, c.Param("id"), req.DeltaMinutes, actorFrom(c))
	h.invalidate(c, storeID)
	return c.NoContent(http.StatusNoContent)
}

// AdjustItemStart handles PATCH /v1/rooms/:id/order/items/:itemID/start-time.
func (h *OrderItemHandler) AdjustItemStart(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req adjustRequest
	if err := c.Bind(&req); err != nil || req.DeltaMinutes == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "delta_minutes required"})
	}
	h.Engine.AdjustItemStart(c.Request().Context(), storeID, c.Param("id"), c.Param("itemID"), req.DeltaMinutes, actorFrom(c))
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderItemHandler) invalidate(c echo.Context, storeID string) {
	if h.Board != nil {
		h.Board.invalidateBoard(c, storeID)
	}
}
