package engine

import (
	"context"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// Actor identifies the user performing a mutation for audit
// attribution.  The engine trusts this value; authentication happens
// upstream.
type Actor struct {
	ID   string
	Name string
}

// StockDecrement records how many units of a product were consumed by
// a checked-out order.  Decrements are applied in the same transaction
// as the order archive insert.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// RoomStore provides the room lookups and status writes the engine
// needs.  Implementations must scope every call to the given store and
// return ErrNotFound for unknown ids.
type RoomStore interface {
	Get(ctx context.Context, storeID, roomID string) (model.Room, error)
	SetStatus(ctx context.Context, storeID, roomID string, status model.RoomStatus) error
}

// OrderArchive is the historical order store.  Open orders never touch
// it; they live in the engine's in-memory index until checkout or
// cancellation archives them.
//
// ArchiveCheckout must apply the order insert and the stock decrements
// atomically: either both happen or neither does.  Replace swaps the
// stored order for the given complete value and is used by the
// amendment workflow and the print counter.
type OrderArchive interface {
	Get(ctx context.Context, storeID, orderID string) (model.Order, error)
	ArchiveCheckout(ctx context.Context, order model.Order, decrements []StockDecrement) error
	ArchiveCancelled(ctx context.Context, order model.Order) error
	Replace(ctx context.Context, order model.Order) error
}

// RequestStore persists bill edit requests.
type RequestStore interface {
	Create(ctx context.Context, req model.BillEditRequest) error
	Get(ctx context.Context, storeID, requestID string) (model.BillEditRequest, error)
	Update(ctx context.Context, req model.BillEditRequest) error
}

// AuditStore appends entries to the action log.  The engine writes the
// entry after the mutation it describes has been committed and treats
// append failures as non-fatal.
type AuditStore interface {
	Append(ctx context.Context, entry model.ActionLogEntry) error
}

// SettingsSource supplies the billing policy for a store.  The engine
// only reads settings, never writes them.
type SettingsSource interface {
	For(ctx context.Context, storeID string) (model.Settings, error)
}
