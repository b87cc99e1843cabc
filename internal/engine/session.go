package engine

// session.go implements the per-room occupancy state machine.  The
// reachable transitions are:
//
//   AVAILABLE -> OCCUPIED (StartSession)
//   OCCUPIED  -> CLEANING (Checkout)
//   OCCUPIED  -> any      (ForceEndSession, cancels the order)
//   AVAILABLE/CLEANING/OUT_OF_SERVICE -> each other (SetRoomStatus)
//
// PAYMENT_PENDING is treated as OCCUPIED everywhere: it requires an
// open order and counts as a live session.

import (
	"context"
	"fmt"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// StartSession opens a new order on an AVAILABLE room and flips it to
// OCCUPIED.  The order snapshots the store's VAT rate at open time.
// Returns ErrInvalidState when the room already has an open order or is
// not AVAILABLE.
func (e *Engine) StartSession(ctx context.Context, storeID, roomID string, actor Actor) (model.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.rooms.Get(ctx, storeID, roomID)
	if err != nil {
		return model.Order{}, err
	}
	if e.liveOrder(storeID, roomID) != nil || room.Status != model.RoomAvailable {
		return model.Order{}, fmt.Errorf("start session on %s: %w", room.Name, ErrInvalidState)
	}

	cfg, err := e.settings.For(ctx, storeID)
	if err != nil {
		return model.Order{}, err
	}

	order := model.Order{
		ID:        e.newID("ord"),
		StoreID:   storeID,
		RoomID:    roomID,
		Status:    model.OrderOpen,
		Items:     []model.LineItem{},
		StartTime: e.now(),
		VATRate:   cfg.VATRate,
	}
	if err := e.rooms.SetStatus(ctx, storeID, roomID, model.RoomOccupied); err != nil {
		return model.Order{}, err
	}
	e.live[roomID] = &order

	e.record(ctx, storeID, actor, model.ActionCreate, room.Name, "Opened session")
	snap := order
	snap.Items = order.CloneItems()
	return snap, nil
}

// Checkout closes the room's open order: it freezes the end time, runs
// the tariff calculator over the accumulated time and items, archives
// the order as PAID and decrements stock for the discrete items in one
// transaction, then flips the room to CLEANING.  Returns
// ErrNoActiveSession when the room has no open order.
func (e *Engine) Checkout(ctx context.Context, storeID, roomID string, actor Actor) (model.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.liveOrder(storeID, roomID)
	if order == nil {
		return model.Order{}, fmt.Errorf("checkout room %s: %w", roomID, ErrNoActiveSession)
	}
	room, err := e.rooms.Get(ctx, storeID, roomID)
	if err != nil {
		return model.Order{}, err
	}
	cfg, err := e.settings.For(ctx, storeID)
	if err != nil {
		return model.Order{}, err
	}

	end := e.now()
	roomCharge := RoomTimeCharge(end.Sub(order.StartTime), room.HourlyRate, cfg.TimeRoundingMinutes, cfg.StaffServiceMinutes)
	totals := PriceLineItems(order.Items, end, cfg.ServiceBlockMinutes)
	inv := ComputeInvoice(roomCharge, totals, order.VATRate)

	final := *order
	final.Items = order.CloneItems()
	final.EndTime = &end
	final.Status = model.OrderPaid
	final.SubTotal = inv.SubTotal
	final.TotalAmount = inv.TotalAmount
	final.TotalProfit = inv.TotalProfit

	var decrements []StockDecrement
	for _, it := range final.Items {
		if !it.Metered() {
			decrements = append(decrements, StockDecrement{ProductID: it.ProductID, Quantity: it.Quantity})
		}
	}

	// Archive insert and stock decrement commit together; the order
	// stays live if either fails.
	if err := e.archive.ArchiveCheckout(ctx, final, decrements); err != nil {
		return model.Order{}, err
	}
	delete(e.live, roomID)
	if err := e.rooms.SetStatus(ctx, storeID, roomID, model.RoomCleaning); err != nil {
		return model.Order{}, err
	}

	e.record(ctx, storeID, actor, model.ActionUpdate, room.Name,
		fmt.Sprintf("Checked out, total %.0f", final.TotalAmount))
	return final, nil
}

// ForceEndSession is the operator escape hatch: it discards any open
// order without billing it and overwrites the room status with the
// given target.  A cancelled order is archived with zeroed totals and
// no stock is decremented.  The only guard is on the target itself:
// forcing a room into OCCUPIED or PAYMENT_PENDING would fabricate a
// session that does not exist, so those targets are rejected with
// ErrInvalidState.  Callers are expected to have obtained human
// confirmation before invoking this.
func (e *Engine) ForceEndSession(ctx context.Context, storeID, roomID string, target model.RoomStatus, actor Actor) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !target.Valid() || target.Occupied() {
		return fmt.Errorf("force end to %s: %w", target, ErrInvalidState)
	}
	room, err := e.rooms.Get(ctx, storeID, roomID)
	if err != nil {
		return err
	}

	if order := e.liveOrder(storeID, roomID); order != nil {
		end := e.now()
		cancelled := *order
		cancelled.Items = order.CloneItems()
		cancelled.EndTime = &end
		cancelled.Status = model.OrderCancelled
		cancelled.SubTotal, cancelled.TotalAmount, cancelled.TotalProfit = 0, 0, 0
		if err := e.archive.ArchiveCancelled(ctx, cancelled); err != nil {
			return err
		}
		delete(e.live, roomID)
		e.record(ctx, storeID, actor, model.ActionDelete, room.Name,
			fmt.Sprintf("Force-ended session, room set to %s", target))
	} else {
		e.record(ctx, storeID, actor, model.ActionUpdate, room.Name,
			fmt.Sprintf("Status forced to %s", target))
	}

	return e.rooms.SetStatus(ctx, storeID, roomID, target)
}

// MoveSession re-parents the open order of one room onto another free
// room of the same store.  The order keeps its identity and elapsed
// time.  Returns ErrNoActiveSession when the source has no open order
// and ErrTargetUnavailable when the destination is not AVAILABLE.
func (e *Engine) MoveSession(ctx context.Context, storeID, fromRoomID, toRoomID string, actor Actor) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.liveOrder(storeID, fromRoomID)
	if order == nil {
		return fmt.Errorf("move from %s: %w", fromRoomID, ErrNoActiveSession)
	}
	from, err := e.rooms.Get(ctx, storeID, fromRoomID)
	if err != nil {
		return err
	}
	to, err := e.rooms.Get(ctx, storeID, toRoomID)
	if err != nil {
		return err
	}
	if to.Status != model.RoomAvailable || e.liveOrder(storeID, toRoomID) != nil {
		return fmt.Errorf("move to %s: %w", to.Name, ErrTargetUnavailable)
	}

	order.RoomID = toRoomID
	e.live[toRoomID] = order
	delete(e.live, fromRoomID)

	if err := e.rooms.SetStatus(ctx, storeID, fromRoomID, model.RoomAvailable); err != nil {
		return err
	}
	if err := e.rooms.SetStatus(ctx, storeID, toRoomID, model.RoomOccupied); err != nil {
		return err
	}
	e.record(ctx, storeID, actor, model.ActionUpdate, "Move session",
		fmt.Sprintf("Moved from %s to %s", from.Name, to.Name))
	return nil
}

// SetRoomStatus performs a plain status transition.  Rooms without an
// open order may move freely between the non-session states
// (AVAILABLE, CLEANING, OUT_OF_SERVICE); rooms with an open order may
// only toggle between OCCUPIED and PAYMENT_PENDING.  Anything else
// would break the status/open-order consistency and is rejected with
// ErrInvalidState; ForceEndSession exists for those cases.
func (e *Engine) SetRoomStatus(ctx context.Context, storeID, roomID string, status model.RoomStatus, actor Actor) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !status.Valid() {
		return fmt.Errorf("set status %s: %w", status, ErrInvalidState)
	}
	hasOrder := e.liveOrder(storeID, roomID) != nil
	if hasOrder != status.Occupied() {
		return fmt.Errorf("set status %s with open order %t: %w", status, hasOrder, ErrInvalidState)
	}
	room, err := e.rooms.Get(ctx, storeID, roomID)
	if err != nil {
		return err
	}
	if err := e.rooms.SetStatus(ctx, storeID, roomID, status); err != nil {
		return err
	}
	e.record(ctx, storeID, actor, model.ActionUpdate, room.Name, fmt.Sprintf("Status set to %s", status))
	return nil
}
