package handler

// This file defines the read side of the room floor: the board every
// terminal polls for room statuses and live session elapsed time.  The
// board is served from a short-lived Redis cache keyed per store so a
// wall of polling terminals does not hammer MySQL; with Redis absent
// the handler simply rebuilds the board on every request.

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kvnguyen/karaoke-pos/internal/engine"
	"github.com/kvnguyen/karaoke-pos/internal/repository"
)

// boardCacheTTL bounds how stale the board may be.  Elapsed minutes
// move once a minute, so a few seconds of staleness is invisible.
const boardCacheTTL = 5 * time.Second

// RoomHandler serves the room board and plain status transitions.
type RoomHandler struct {
	Engine   *engine.Engine
	Rooms    *repository.RoomRepo
	Products *repository.ProductRepo
	Settings *repository.SettingsRepo
	Redis    *redis.Client // may be nil; caching is then disabled
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(eng *engine.Engine, rooms *repository.RoomRepo, products *repository.ProductRepo, settings *repository.SettingsRepo, rdb *redis.Client) *RoomHandler {
	if eng == nil || rooms == nil || products == nil || settings == nil {
		panic("nil dependency passed to NewRoomHandler")
	}
	return &RoomHandler{Engine: eng, Rooms: rooms, Products: products, Settings: settings, Redis: rdb}
}

// boardRoom is one row of the board response.
type boardRoom struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Type           string  `json:"type"`
	HourlyRate     float64 `json:"hourly_rate"`
	OrderID        string  `json:"order_id,omitempty"`
	SessionStart   *string `json:"session_start,omitempty"`
	ElapsedMinutes int     `json:"elapsed_minutes,omitempty"`
	ItemCount      int     `json:"item_count,omitempty"`
}

type boardResponse struct {
	Rooms    []boardRoom `json:"rooms"`
	LowStock int         `json:"low_stock_count"`
}

// GetBoard handles GET /v1/rooms.  It returns every room of the store
// with its live session summary plus the count of low-stock products.
func (h *RoomHandler) GetBoard(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()

	cacheKey := "board:" + storeID
	if h.Redis != nil {
		if raw, err := h.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			return c.JSONBlob(http.StatusOK, raw)
		}
	}

	resp, err := h.buildBoard(ctx, storeID)
	if err != nil {
		return engineError(c, err)
	}
	if h.Redis != nil {
		if raw, err := json.Marshal(resp); err == nil {
			_ = h.Redis.Set(ctx, cacheKey, raw, boardCacheTTL).Err()
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RoomHandler) buildBoard(ctx context.Context, storeID string) (boardResponse, error) {
	rooms, err := h.Rooms.ListByStore(ctx, storeID)
	if err != nil {
		return boardResponse{}, err
	}
	cfg, err := h.Settings.For(ctx, storeID)
	if err != nil {
		return boardResponse{}, err
	}
	low, err := h.Products.ListLowStock(ctx, storeID, cfg.LowStockThreshold)
	if err != nil {
		return boardResponse{}, err
	}

	now := time.Now()
	out := boardResponse{Rooms: make([]boardRoom, 0, len(rooms)), LowStock: len(low)}
	for _, rm := range rooms {
		row := boardRoom{
			ID:         rm.ID,
			Name:       rm.Name,
			Status:     string(rm.Status),
			Type:       rm.Type,
			HourlyRate: rm.HourlyRate,
		}
		if order, ok := h.Engine.LiveOrder(storeID, rm.ID); ok {
			start := order.StartTime.UTC().Format(time.RFC3339)
			row.OrderID = order.ID
			row.SessionStart = &start
			row.ElapsedMinutes = int(now.Sub(order.StartTime).Minutes())
			row.ItemCount = len(order.Items)
		}
		out.Rooms = append(out.Rooms, row)
	}
	return out, nil
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /v1/rooms/:id/status for the plain
// transitions between non-session states (and the OCCUPIED toggle to
// PAYMENT_PENDING while a bill is being settled).
func (h *RoomHandler) SetStatus(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req setStatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	err := h.Engine.SetRoomStatus(c.Request().Context(), storeID, c.Param("id"),
		roomStatusFrom(req.Status), actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	h.invalidateBoard(c, storeID)
	return c.NoContent(http.StatusNoContent)
}

// invalidateBoard drops the cached board after a mutation so the next
// poll sees the new state immediately.
func (h *RoomHandler) invalidateBoard(c echo.Context, storeID string) {
	if h.Redis != nil {
		_ = h.Redis.Del(c.Request().Context(), "board:"+storeID).Err()
	}
}
