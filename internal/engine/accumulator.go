package engine

// accumulator.go mutates the live order of a room while the session is
// running.  Every operation here tolerates a missing order or line item
// as a silent no-op rather than an error: the floor UI races with
// itself (two terminals, or a removal racing a stop), and failing the
// late call would only surface noise for a state that already matches
// the caller's intent.  This is a deliberate trade-off; do not turn
// these paths into errors.

import (
	"context"
	"fmt"
	"time"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// AddItem adds a product to the room's open order, snapshotting its
// name and prices.  Metered products always append a fresh line item
// with its own running clock, so the same service can run several
// concurrent meters.  Discrete products merge into the existing line
// for the product: quantities sum, a result of zero or less removes the
// line, and a brand-new line is only created for a positive quantity.
func (e *Engine) AddItem(ctx context.Context, storeID, roomID string, product model.Product, quantity int, actor Actor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.liveOrder(storeID, roomID)
	if order == nil {
		return
	}

	if product.Metered {
		start := e.now()
		order.Items = append(order.Items, model.LineItem{
			ID:        e.newID("item"),
			ProductID: product.ID,
			Name:      product.Name,
			Kind:      model.ItemMetered,
			SellPrice: product.SellPrice,
			CostPrice: product.CostPrice,
			StartTime: &start,
		})
		e.record(ctx, storeID, actor, model.ActionUpdate, product.Name, "Started metered service")
		return
	}

	for i := range order.Items {
		it := &order.Items[i]
		if it.ProductID != product.ID || it.Metered() {
			continue
		}
		newQty := it.Quantity + quantity
		if newQty <= 0 {
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
			e.record(ctx, storeID, actor, model.ActionUpdate, product.Name, "Removed item (quantity reached zero)")
		} else {
			it.Quantity = newQty
			e.record(ctx, storeID, actor, model.ActionUpdate, product.Name,
				fmt.Sprintf("Quantity changed to %d", newQty))
		}
		return
	}
	if quantity <= 0 {
		return
	}
	order.Items = append(order.Items, model.LineItem{
		ID:        e.newID("item"),
		ProductID: product.ID,
		Name:      product.Name,
		Kind:      model.ItemDiscrete,
		Quantity:  quantity,
		SellPrice: product.SellPrice,
		CostPrice: product.CostPrice,
	})
	e.record(ctx, storeID, actor, model.ActionUpdate, product.Name, fmt.Sprintf("Added x%d", quantity))
}

// StopMeteredItem freezes a running metered item's accrual at now.
// Already-stopped items and discrete items are left untouched, so a
// second stop keeps the first stop's end time.
func (e *Engine) StopMeteredItem(ctx context.Context, storeID, roomID, itemID string, actor Actor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.liveOrder(storeID, roomID)
	if order == nil {
		return
	}
	it := order.Item(itemID)
	if it == nil || !it.Running() {
		return
	}
	end := e.now()
	it.EndTime = &end
	e.record(ctx, storeID, actor, model.ActionUpdate, it.Name, "Stopped metered service")
}

// ResumeMeteredItem clears a stopped metered item's end time so it
// accrues again.  Items that are already running are a no-op.
func (e *Engine) ResumeMeteredItem(ctx context.Context, storeID, roomID, itemID string, actor Actor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.liveOrder(storeID, roomID)
	if order == nil {
		return
	}
	it := order.Item(itemID)
	if it == nil || !it.Metered() || it.EndTime == nil {
		return
	}
	it.EndTime = nil
	e.record(ctx, storeID, actor, model.ActionUpdate, it.Name, "Resumed metered service")
}

// RemoveItem removes a line item from the open order by id.
func (e *Engine) RemoveItem(ctx context.Context, storeID, roomID, itemID string, actor Actor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.liveOrder(storeID, roomID)
	if order == nil {
		return
	}
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			name := order.Items[i].Name
			order.Items = append(order.Items[:i], order.Items[i+1:]...)
			e.record(ctx, storeID, actor, model.ActionUpdate, name, "Removed item")
			return
		}
	}
}

// AdjustSessionStart shifts the open order's start time by the given
// number of minutes (negative shifts it earlier).  Used to correct
// clock-entry mistakes before checkout; no bound checking is applied,
// the caller is responsible for sanity.
func (e *Engine) AdjustSessionStart(ctx context.Context, storeID, roomID string, deltaMinutes int, actor Actor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.liveOrder(storeID, roomID)
	if order == nil || deltaMinutes == 0 {
		return
	}
	order.StartTime = order.StartTime.Add(time.Duration(deltaMinutes) * time.Minute)
	e.record(ctx, storeID, actor, model.ActionUpdate, "Session "+order.ID,
		fmt.Sprintf("Start time shifted by %d min", deltaMinutes))
}

// AdjustItemStart shifts a metered item's start time by the given
// number of minutes.  Discrete items are ignored.
func (e *Engine) AdjustItemStart(ctx context.Context, storeID, roomID, itemID string, deltaMinutes int, actor Actor) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.liveOrder(storeID, roomID)
	if order == nil || deltaMinutes == 0 {
		return
	}
	it := order.Item(itemID)
	if it == nil || !it.Metered() || it.StartTime == nil {
		return
	}
	shifted := it.StartTime.Add(time.Duration(deltaMinutes) * time.Minute)
	it.StartTime = &shifted
	e.record(ctx, storeID, actor, model.ActionUpdate, it.Name,
		fmt.Sprintf("Item start shifted by %d min", deltaMinutes))
}
