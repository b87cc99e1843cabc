package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/repository"
)

// AuditHandler serves the store's action log.
type AuditHandler struct {
	Logs *repository.ActionLogRepo
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(logs *repository.ActionLogRepo) *AuditHandler {
	if logs == nil {
		panic("nil ActionLogRepo passed to NewAuditHandler")
	}
	return &AuditHandler{Logs: logs}
}

// List handles GET /v1/audit.  Entries come back newest first.
func (h *AuditHandler) List(c echo.Context) error {
	storeID, ok := storeScope(c)
	if !ok {
		return nil
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.Logs.ListByStore(c.Request().Context(), storeID, limit)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries, "count": len(entries)})
}
