package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

func TestCeilMinutes(t *testing.T) {
	cases := []struct {
		name string
		d    time.Duration
		want int
	}{
		{"zero", 0, 0},
		{"negative", -5 * time.Minute, 0},
		{"sub-minute rounds up", 30 * time.Second, 1},
		{"exact minute", time.Minute, 1},
		{"one second over", 61 * time.Second, 2},
		{"millisecond over", time.Minute + time.Millisecond, 2},
		{"just under a minute", 59*time.Second + 999*time.Millisecond, 1},
		{"an hour", time.Hour, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ceilMinutes(tc.d))
		})
	}
}

func TestRoundUpTo(t *testing.T) {
	assert.Equal(t, 65, roundUpTo(61, 5))
	assert.Equal(t, 60, roundUpTo(60, 5))
	assert.Equal(t, 10, roundUpTo(1, 10))
	assert.Equal(t, 0, roundUpTo(0, 5))
	assert.Equal(t, 61, roundUpTo(61, 1))
	assert.Equal(t, 61, roundUpTo(61, 0))
}

func TestBilledRoomMinutes(t *testing.T) {
	// 50 elapsed minutes, 5-minute rounding, 10 service minutes.
	assert.Equal(t, 60, BilledRoomMinutes(50*time.Minute, 5, 10))
	// 61 minutes rounds to 65 before the surcharge.
	assert.Equal(t, 75, BilledRoomMinutes(61*time.Minute, 5, 10))
	// An instant session still pays the surcharge.
	assert.Equal(t, 10, BilledRoomMinutes(0, 5, 10))
}

func TestRoomTimeCharge(t *testing.T) {
	// 50 min at 150000/h with 5-min rounding and 10 service minutes
	// bills exactly one hour.
	got := RoomTimeCharge(50*time.Minute, 150000, 5, 10)
	assert.InDelta(t, 150000, got, 0.001)
}

func TestPriceLineItemsDiscrete(t *testing.T) {
	items := []model.LineItem{
		{ID: "i1", Kind: model.ItemDiscrete, Quantity: 2, SellPrice: 30000, CostPrice: 10000},
		{ID: "i2", Kind: model.ItemDiscrete, Quantity: 1, SellPrice: 45000, CostPrice: 20000},
	}
	got := PriceLineItems(items, time.Now(), 10)
	assert.InDelta(t, 105000, got.Revenue, 0.001)
	assert.InDelta(t, 40000, got.Cost, 0.001)
}

func TestPriceLineItemsMeteredBlocks(t *testing.T) {
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(22 * time.Minute)
	items := []model.LineItem{
		{ID: "i1", Kind: model.ItemMetered, SellPrice: 50000, CostPrice: 30000, StartTime: &start},
	}

	// 22 minutes in 10-minute blocks bills 30 minutes.
	got := PriceLineItems(items, end, 10)
	assert.InDelta(t, 25000, got.Revenue, 0.001)
	assert.InDelta(t, 15000, got.Cost, 0.001)
}

func TestPriceLineItemsMeteredStoppedBeforeEnd(t *testing.T) {
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	stop := start.Add(9 * time.Minute)
	sessionEnd := start.Add(2 * time.Hour)
	items := []model.LineItem{
		{ID: "i1", Kind: model.ItemMetered, SellPrice: 60000, StartTime: &start, EndTime: &stop},
	}

	// The stop time caps accrual, not the session end: 9 min -> one
	// 10-minute block.
	got := PriceLineItems(items, sessionEnd, 10)
	assert.InDelta(t, 10000, got.Revenue, 0.001)
}

func TestPriceLineItemsMeteredMinimumOneMinute(t *testing.T) {
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	items := []model.LineItem{
		{ID: "i1", Kind: model.ItemMetered, SellPrice: 60000, StartTime: &start},
	}

	// Started and ended in the same instant: one minute, then block
	// rounding applies.
	got := PriceLineItems(items, start, 10)
	assert.InDelta(t, float64(10)/60*60000, got.Revenue, 0.001)

	// With no block rounding the single minute stands alone.
	got = PriceLineItems(items, start, 1)
	assert.InDelta(t, float64(1)/60*60000, got.Revenue, 0.001)
}

func TestComputeInvoice(t *testing.T) {
	inv := ComputeInvoice(150000, ItemTotals{}, 10)
	assert.InDelta(t, 150000, inv.SubTotal, 0.001)
	assert.InDelta(t, 15000, inv.VATAmount, 0.001)
	assert.InDelta(t, 165000, inv.TotalAmount, 0.001)
	assert.InDelta(t, 150000, inv.TotalProfit, 0.001)
}

func TestComputeInvoiceWithItems(t *testing.T) {
	inv := ComputeInvoice(150000, ItemTotals{Revenue: 60000, Cost: 20000}, 10)
	assert.InDelta(t, 210000, inv.SubTotal, 0.001)
	assert.InDelta(t, 231000, inv.TotalAmount, 0.001)
	// Room time carries no cost, so only item cost reduces profit.
	assert.InDelta(t, 190000, inv.TotalProfit, 0.001)
}

func TestComputeInvoiceZeroVAT(t *testing.T) {
	inv := ComputeInvoice(100000, ItemTotals{Revenue: 50000, Cost: 10000}, 0)
	assert.InDelta(t, 150000, inv.TotalAmount, 0.001)
	assert.InDelta(t, 0, inv.VATAmount, 0.001)
}
