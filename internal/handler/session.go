package handler

// This file defines the session lifecycle endpoints: opening a room,
// checking it out, force-ending it and moving a session between rooms.
// Checkout and force-end publish a session.closed event after the
// mutation has committed; publication failures are ignored since the
// broker is informational, not authoritative.

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/engine"
	"github.com/kvnguyen/karaoke-pos/internal/model"
	"github.com/kvnguyen/karaoke-pos/internal/queue"
	"github.com/kvnguyen/karaoke-pos/internal/repository"
	queue_publisher "github.com/kvnguyen/karaoke-pos/internal/service"
)

// SessionHandler drives the room occupancy state machine over HTTP.
type SessionHandler struct {
	Engine *engine.Engine
	Rooms  *repository.RoomRepo
	Board  *RoomHandler // for cache invalidation after mutations
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(eng *engine.Engine, rooms *repository.RoomRepo, board *RoomHandler) *SessionHandler {
	if eng == nil || rooms == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Engine: eng, Rooms: rooms, Board: board}
}

// Start handles POST /v1/rooms/:id/session.  It opens a new order on
// an available room and returns it.
func (h *SessionHandler) Start(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	order, err := h.Engine.StartSession(c.Request().Context(), storeID, c.Param("id"), actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	h.invalidate(c, storeID)
	return c.JSON(http.StatusCreated, echo.Map{"order": order})
}

// Checkout handles POST /v1/rooms/:id/checkout.  It closes the open
// order, returns the priced bill and emits a session.closed event.
func (h *SessionHandler) Checkout(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()
	order, err := h.Engine.Checkout(ctx, storeID, c.Param("id"), actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	h.invalidate(c, storeID)
	h.publishClosed(c, order)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

type forceEndRequest struct {
	TargetStatus string `json:"target_status"`
}

// ForceEnd handles POST /v1/rooms/:id/force-end.  It cancels any open
// session without billing and overwrites the room status.  The route
// is gated to MANAGER/ADMIN; the UI must have confirmed the discard
// with the operator before calling.
func (h *SessionHandler) ForceEnd(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req forceEndRequest
	if err := c.Bind(&req); err != nil || req.TargetStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "target_status required"})
	}
	ctx := c.Request().Context()
	roomID := c.Param("id")

	// Capture the open order before it disappears so the event can
	// describe it.
	live, hadSession := h.Engine.LiveOrder(storeID, roomID)

	err := h.Engine.ForceEndSession(ctx, storeID, roomID, roomStatusFrom(req.TargetStatus), actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	h.invalidate(c, storeID)
	if hadSession {
		live.Status = model.OrderCancelled
		h.publishClosed(c, live)
	}
	return c.NoContent(http.StatusNoContent)
}

type moveRequest struct {
	ToRoomID string `json:"to_room_id"`
}

// Move handles POST /v1/rooms/:id/move.  It re-parents the open order
// onto a free room, preserving identity and elapsed time.
func (h *SessionHandler) Move(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req moveRequest
	if err := c.Bind(&req); err != nil || req.ToRoomID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to_room_id required"})
	}
	err := h.Engine.MoveSession(c.Request().Context(), storeID, c.Param("id"), req.ToRoomID, actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	h.invalidate(c, storeID)
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) invalidate(c echo.Context, storeID string) {
	if h.Board != nil {
		h.Board.invalidateBoard(c, storeID)
	}
}

// publishClosed emits the session.closed event for an archived order.
func (h *SessionHandler) publishClosed(c echo.Context, order model.Order) {
	ctx := c.Request().Context()
	roomName := order.RoomID
	if rm, err := h.Rooms.Get(ctx, order.StoreID, order.RoomID); err == nil {
		roomName = rm.Name
	}
	end := ""
	if order.EndTime != nil {
		end = order.EndTime.UTC().Format(time.RFC3339)
	}
	_ = queue_publisher.PublishSessionClosed(ctx, queue.SessionClosedEvent{
		OrderID:     order.ID,
		StoreID:     order.StoreID,
		RoomID:      order.RoomID,
		RoomName:    roomName,
		Status:      string(order.Status),
		StartTime:   order.StartTime.UTC().Format(time.RFC3339),
		EndTime:     end,
		ItemCount:   len(order.Items),
		SubTotal:    order.SubTotal,
		TotalAmount: order.TotalAmount,
		ClosedBy:    actorFrom(c).Name,
		ClosedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}
