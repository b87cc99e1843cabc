package handler

// This file defines the archived order surface: the bill history, the
// reprint counter and the bill correction workflow (request, decision,
// amendment).  Approval of a request and the amendment itself are
// separate calls on purpose; an approval only authorizes, it changes
// nothing on the bill.

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/engine"
	"github.com/kvnguyen/karaoke-pos/internal/model"
	"github.com/kvnguyen/karaoke-pos/internal/repository"
)

// BillingHandler serves archived orders and the correction workflow.
type BillingHandler struct {
	Engine   *engine.Engine
	Orders   *repository.OrderRepo
	Requests *repository.BillRequestRepo
	Settings *repository.SettingsRepo
}

// NewBillingHandler constructs a BillingHandler.
func NewBillingHandler(eng *engine.Engine, orders *repository.OrderRepo, requests *repository.BillRequestRepo, settings *repository.SettingsRepo) *BillingHandler {
	if eng == nil || orders == nil || requests == nil || settings == nil {
		panic("nil dependency passed to NewBillingHandler")
	}
	return &BillingHandler{Engine: eng, Orders: orders, Requests: requests, Settings: settings}
}

// ListOrders handles GET /v1/orders.  Query parameters: status
// (PAID or CANCELLED), limit.
func (h *BillingHandler) ListOrders(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	status := model.OrderStatus(normStatus(c.QueryParam("status"))) // may be empty, meaning all
	orders, err := h.Orders.ListByStore(c.Request().Context(), storeID, status, time.Time{}, limit)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orders, "count": len(orders)})
}

// GetOrder handles GET /v1/orders/:id.
func (h *BillingHandler) GetOrder(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	order, err := h.Orders.Get(c.Request().Context(), storeID, c.Param("id"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

// Print handles POST /v1/orders/:id/print.  It bumps the reprint
// counter and logs the reprint for the audit trail.
func (h *BillingHandler) Print(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	order, err := h.Engine.IncrementPrintCount(c.Request().Context(), storeID, c.Param("id"), actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

// GetSettings handles GET /v1/settings.  Clients use the edit window
// values here to decide when to offer direct edits versus requests.
func (h *BillingHandler) GetSettings(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	s, err := h.Settings.For(c.Request().Context(), storeID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": s})
}

type requestEditRequest struct {
	Reason string `json:"reason"`
}

// RequestEdit handles POST /v1/orders/:id/edit-requests.  Staff file
// the request; whether they are still inside the edit window is policy
// the client checks against settings, not enforced here.
func (h *BillingHandler) RequestEdit(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req requestEditRequest
	if err := c.Bind(&req); err != nil || req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason required"})
	}
	out, err := h.Engine.RequestEdit(c.Request().Context(), storeID, c.Param("id"), req.Reason, actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"request": out})
}

// ListRequests handles GET /v1/edit-requests.  Query parameter:
// status (PENDING, APPROVED, REJECTED, COMPLETED).
func (h *BillingHandler) ListRequests(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	status := model.RequestStatus(normStatus(c.QueryParam("status")))
	items, err := h.Requests.ListByStore(c.Request().Context(), storeID, status, limit)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

type resolveRequest struct {
	Decision string `json:"decision"` // "APPROVE" or "REJECT"
}

// Resolve handles POST /v1/edit-requests/:id/resolve.  Gated to
// MANAGER/ADMIN by the router.
func (h *BillingHandler) Resolve(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var approve bool
	switch normStatus(req.Decision) {
	case "APPROVE":
		approve = true
	case "REJECT":
		approve = false
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "decision must be APPROVE or REJECT"})
	}
	out, err := h.Engine.ResolveRequest(c.Request().Context(), storeID, c.Param("id"), approve, actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"request": out})
}

type amendRequest struct {
	Items     []model.LineItem `json:"items"`
	StartTime *time.Time       `json:"start_time,omitempty"`
	EndTime   *time.Time       `json:"end_time,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

// Amend handles PUT /v1/orders/:id.  It replaces the archived order's
// items and time window, re-prices the bill and completes the linked
// request when one is supplied.  An amendment that changes nothing
// returns the order untouched.
func (h *BillingHandler) Amend(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	var req amendRequest
	if err := c.Bind(&req); err != nil || req.Items == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
	}
	order, err := h.Engine.ApplyAmendment(c.Request().Context(), storeID, c.Param("id"),
		req.Items, req.StartTime, req.EndTime, req.RequestID, actorFrom(c))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}
