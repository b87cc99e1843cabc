package engine

import (
	"time"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// Tariff math.  Everything here is pure: durations and rate policy in,
// amounts out.  All duration arithmetic rounds minutes up, never down
// and never to nearest; the failure mode being guarded against is
// under-billing elapsed time.

// ceilMinutes converts a duration to whole minutes, rounding any
// fraction up.  Negative durations count as zero.
func ceilMinutes(d time.Duration) int {
	ms := d.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int((ms + 59_999) / 60_000)
}

// roundUpTo rounds minutes up to the next multiple of step.  Steps of 1
// or less leave the value untouched.
func roundUpTo(minutes, step int) int {
	if step <= 1 || minutes <= 0 {
		return minutes
	}
	return (minutes + step - 1) / step * step
}

// BilledRoomMinutes converts raw session time into billable minutes:
// the elapsed minutes rounded up to the rounding step, plus the fixed
// staff-service surcharge window.
func BilledRoomMinutes(elapsed time.Duration, roundingStepMinutes, serviceAdditionMinutes int) int {
	return roundUpTo(ceilMinutes(elapsed), roundingStepMinutes) + serviceAdditionMinutes
}

// RoomTimeCharge prices the rented room time.
func RoomTimeCharge(elapsed time.Duration, hourlyRate float64, roundingStepMinutes, serviceAdditionMinutes int) float64 {
	billed := BilledRoomMinutes(elapsed, roundingStepMinutes, serviceAdditionMinutes)
	return float64(billed) / 60 * hourlyRate
}

// ItemTotals is the revenue/cost pair produced by pricing an order's
// line items.
type ItemTotals struct {
	Revenue float64
	Cost    float64
}

// PriceLineItems prices every line item of an order.  Discrete items
// contribute price times quantity.  Metered items bill their elapsed
// time, rounded up to serviceBlockMinutes, against their hourly
// prices; an item still running at session end is cut off at
// sessionEnd.  A metered item always bills at least one minute.
func PriceLineItems(items []model.LineItem, sessionEnd time.Time, serviceBlockMinutes int) ItemTotals {
	var t ItemTotals
	block := serviceBlockMinutes
	if block < 1 {
		block = 1
	}
	for _, it := range items {
		switch {
		case it.Metered() && it.StartTime != nil:
			end := sessionEnd
			if it.EndTime != nil {
				end = *it.EndTime
			}
			minutes := ceilMinutes(end.Sub(*it.StartTime))
			if minutes < 1 {
				minutes = 1
			}
			billed := roundUpTo(minutes, block)
			t.Revenue += float64(billed) / 60 * it.SellPrice
			t.Cost += float64(billed) / 60 * it.CostPrice
		default:
			t.Revenue += it.SellPrice * float64(it.Quantity)
			t.Cost += it.CostPrice * float64(it.Quantity)
		}
	}
	return t
}

// Invoice carries the final amounts of a priced order.
type Invoice struct {
	SubTotal    float64
	VATAmount   float64
	TotalAmount float64
	TotalProfit float64
}

// ComputeInvoice combines the room-time charge and item totals into the
// final invoice.  Room time has no cost component in this model, so it
// is pure margin: profit is the subtotal minus item cost only.
func ComputeInvoice(roomCharge float64, items ItemTotals, vatRate float64) Invoice {
	sub := roomCharge + items.Revenue
	vat := sub * vatRate / 100
	return Invoice{
		SubTotal:    sub,
		VATAmount:   vat,
		TotalAmount: sub + vat,
		TotalProfit: sub - items.Cost,
	}
}
