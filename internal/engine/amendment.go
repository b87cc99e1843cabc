package engine

// amendment.go implements the post-payment bill correction workflow: a
// staff request, an admin decision and a recomputation step.  Approval
// only authorizes the edit; ApplyAmendment is the separate call that
// performs it and completes the request.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// RequestEdit files a PENDING bill edit request against an archived
// PAID order.  Eligibility windows (staff edit window, hard lock) are
// policy for the caller to check against settings; the workflow itself
// does not enforce them.
func (e *Engine) RequestEdit(ctx context.Context, storeID, orderID, reason string, actor Actor) (model.BillEditRequest, error) {
	order, err := e.archive.Get(ctx, storeID, orderID)
	if err != nil {
		return model.BillEditRequest{}, err
	}
	if order.Status != model.OrderPaid {
		return model.BillEditRequest{}, fmt.Errorf("request edit on %s order: %w", order.Status, ErrInvalidState)
	}
	req := model.BillEditRequest{
		ID:            e.newID("req"),
		StoreID:       storeID,
		OrderID:       orderID,
		RequestedBy:   actor.ID,
		RequestedName: actor.Name,
		Reason:        reason,
		Status:        model.RequestPending,
		CreatedAt:     e.now(),
	}
	if err := e.requests.Create(ctx, req); err != nil {
		return model.BillEditRequest{}, err
	}
	e.record(ctx, storeID, actor, model.ActionRequest, "Bill "+orderID, "Requested bill edit: "+reason)
	return req, nil
}

// ResolveRequest decides a PENDING request: approve transitions it to
// APPROVED (awaiting the amendment), reject to REJECTED (terminal).
// The resolver's name and the decision time are recorded on the
// request.  Non-pending requests yield ErrInvalidState.
func (e *Engine) ResolveRequest(ctx context.Context, storeID, requestID string, approve bool, actor Actor) (model.BillEditRequest, error) {
	req, err := e.requests.Get(ctx, storeID, requestID)
	if err != nil {
		return model.BillEditRequest{}, err
	}
	if req.Status != model.RequestPending {
		return model.BillEditRequest{}, fmt.Errorf("resolve %s request: %w", req.Status, ErrInvalidState)
	}
	now := e.now()
	req.ResolvedBy = &actor.Name
	req.ResolvedAt = &now
	decision := "Rejected"
	req.Status = model.RequestRejected
	if approve {
		req.Status = model.RequestApproved
		decision = "Approved"
	}
	if err := e.requests.Update(ctx, req); err != nil {
		return model.BillEditRequest{}, err
	}
	e.record(ctx, storeID, actor, model.ActionUpdate, "Bill edit request", decision+" edit request for bill "+req.OrderID)
	return req, nil
}

// ApplyAmendment replaces an archived PAID order's items and time
// window, re-prices it and increments the edit counter.  When the
// supplied values produce no difference against the stored order the
// call is a complete no-op: no counter bump, no log entry, no request
// transition.  When requestID is non-empty and names an APPROVED
// request, that request is marked COMPLETED alongside the edit.
func (e *Engine) ApplyAmendment(ctx context.Context, storeID, orderID string, newItems []model.LineItem, newStart, newEnd *time.Time, requestID string, actor Actor) (model.Order, error) {
	order, err := e.archive.Get(ctx, storeID, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.Status != model.OrderPaid {
		return model.Order{}, fmt.Errorf("amend %s order: %w", order.Status, ErrInvalidState)
	}

	changes := diffAmendment(order, newItems, newStart, newEnd)
	if len(changes) == 0 {
		return order, nil
	}

	finalStart := order.StartTime
	if newStart != nil {
		finalStart = *newStart
	}
	finalEnd := e.now()
	if newEnd != nil {
		finalEnd = *newEnd
	} else if order.EndTime != nil {
		finalEnd = *order.EndTime
	}

	room, err := e.rooms.Get(ctx, storeID, order.RoomID)
	if err != nil {
		return model.Order{}, err
	}
	cfg, err := e.settings.For(ctx, storeID)
	if err != nil {
		return model.Order{}, err
	}

	roomCharge := RoomTimeCharge(finalEnd.Sub(finalStart), room.HourlyRate, cfg.TimeRoundingMinutes, cfg.StaffServiceMinutes)
	totals := PriceLineItems(newItems, finalEnd, cfg.ServiceBlockMinutes)
	inv := ComputeInvoice(roomCharge, totals, order.VATRate)

	order.StartTime = finalStart
	order.EndTime = &finalEnd
	order.Items = newItems
	order.SubTotal = inv.SubTotal
	order.TotalAmount = inv.TotalAmount
	order.TotalProfit = inv.TotalProfit
	order.EditCount++

	if err := e.archive.Replace(ctx, order); err != nil {
		return model.Order{}, err
	}

	if requestID != "" {
		if req, err := e.requests.Get(ctx, storeID, requestID); err == nil && req.Status == model.RequestApproved {
			req.Status = model.RequestCompleted
			if err := e.requests.Update(ctx, req); err != nil {
				return model.Order{}, err
			}
		}
	}

	e.record(ctx, storeID, actor, model.ActionUpdate, "Bill "+orderID, "Amended bill: "+strings.Join(changes, ", "))
	return order, nil
}

// diffAmendment builds the human-readable change list between an
// archived order and the proposed amendment.  An empty result means the
// amendment changes nothing.
func diffAmendment(old model.Order, newItems []model.LineItem, newStart, newEnd *time.Time) []string {
	var changes []string

	if newStart != nil && !newStart.Equal(old.StartTime) {
		changes = append(changes, fmt.Sprintf("session start %s -> %s", clock(old.StartTime), clock(*newStart)))
	}
	if newEnd != nil && old.EndTime != nil && !newEnd.Equal(*old.EndTime) {
		changes = append(changes, fmt.Sprintf("session end %s -> %s", clock(*old.EndTime), clock(*newEnd)))
	}

	for _, ni := range newItems {
		oi := old.Item(itemKey(ni))
		if oi == nil {
			oi = matchByProduct(old.Items, ni)
		}
		switch {
		case oi == nil:
			changes = append(changes, fmt.Sprintf("added %s (x%d)", ni.Name, ni.Quantity))
		case oi.Quantity != ni.Quantity:
			changes = append(changes, fmt.Sprintf("%s: %d -> %d", ni.Name, oi.Quantity, ni.Quantity))
		case ni.Metered() && oi.Metered():
			if !timesEqual(oi.StartTime, ni.StartTime) {
				changes = append(changes, fmt.Sprintf("%s start %s -> %s", ni.Name, clockPtr(oi.StartTime), clockPtr(ni.StartTime)))
			}
			if !timesEqual(oi.EndTime, ni.EndTime) {
				changes = append(changes, fmt.Sprintf("%s end %s -> %s", ni.Name, clockPtr(oi.EndTime), clockPtr(ni.EndTime)))
			}
		}
	}
	for _, oi := range old.Items {
		if findItem(newItems, itemKey(oi)) != nil || resubmittedByProduct(newItems, oi) {
			continue
		}
		changes = append(changes, "removed "+oi.Name)
	}
	return changes
}

// resubmittedByProduct reports whether an id-less amendment line stands
// in for the old discrete line, mirroring the pairing matchByProduct
// performs in the forward pass.
func resubmittedByProduct(items []model.LineItem, old model.LineItem) bool {
	if old.Metered() {
		return false
	}
	for _, ni := range items {
		if ni.ID == "" && ni.ProductID == old.ProductID && !ni.Metered() {
			return true
		}
	}
	return false
}

// itemKey identifies a line item across an amendment: the item id when
// present, otherwise the product id.
func itemKey(it model.LineItem) string {
	if it.ID != "" {
		return it.ID
	}
	return it.ProductID
}

func findItem(items []model.LineItem, key string) *model.LineItem {
	for i := range items {
		if itemKey(items[i]) == key {
			return &items[i]
		}
	}
	return nil
}

// matchByProduct pairs an amendment line that carries no item id with
// the old discrete line for the same product.
func matchByProduct(items []model.LineItem, target model.LineItem) *model.LineItem {
	if target.ID != "" {
		return nil
	}
	for i := range items {
		if items[i].ProductID == target.ProductID && !items[i].Metered() {
			return &items[i]
		}
	}
	return nil
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func clock(t time.Time) string { return t.Format("15:04:05") }

func clockPtr(t *time.Time) string {
	if t == nil {
		return "..."
	}
	return clock(*t)
}
