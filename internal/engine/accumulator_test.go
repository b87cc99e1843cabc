package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

var karaokeHost = model.Product{ID: "p-host", StoreID: testStore, Name: "Host service", Metered: true, SellPrice: 50000, CostPrice: 30000}

func startSession(t *testing.T, e *Engine, roomID string) {
	t.Helper()
	_, err := e.StartSession(context.Background(), testStore, roomID, testActor)
	require.NoError(t, err)
}

func liveItems(t *testing.T, e *Engine, roomID string) []model.LineItem {
	t.Helper()
	o, ok := e.LiveOrder(testStore, roomID)
	require.True(t, ok)
	return o.Items
}

func TestAddItemMergesDiscreteByProduct(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")

	e.AddItem(ctx, testStore, "r1", beer, 2, testActor)
	e.AddItem(ctx, testStore, "r1", beer, 1, testActor)

	items := liveItems(t, e, "r1")
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, model.ItemDiscrete, items[0].Kind)
	assert.Equal(t, beer.Name, items[0].Name)
	assert.InDelta(t, beer.SellPrice, items[0].SellPrice, 0.001)
}

func TestAddItemNegativeQuantityRemovesAtZero(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")

	e.AddItem(ctx, testStore, "r1", beer, 2, testActor)
	e.AddItem(ctx, testStore, "r1", beer, -1, testActor)
	items := liveItems(t, e, "r1")
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	e.AddItem(ctx, testStore, "r1", beer, -5, testActor)
	assert.Empty(t, liveItems(t, e, "r1"))
}

func TestAddItemIgnoresNonPositiveOnNewLine(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")
	before := s.logCount()

	e.AddItem(ctx, testStore, "r1", beer, 0, testActor)
	e.AddItem(ctx, testStore, "r1", beer, -3, testActor)

	assert.Empty(t, liveItems(t, e, "r1"))
	assert.Equal(t, before, s.logCount())
}

func TestAddItemMeteredAlwaysAppends(t *testing.T) {
	e, _, clk := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")

	e.AddItem(ctx, testStore, "r1", karaokeHost, 1, testActor)
	clk.Advance(5 * time.Minute)
	e.AddItem(ctx, testStore, "r1", karaokeHost, 1, testActor)

	items := liveItems(t, e, "r1")
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, model.ItemMetered, it.Kind)
		assert.True(t, it.Running())
		require.NotNil(t, it.StartTime)
	}
	// Each meter runs its own clock.
	assert.NotEqual(t, items[0].StartTime, items[1].StartTime)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestStopAndResumeMeteredItem(t *testing.T) {
	e, _, clk := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")

	e.AddItem(ctx, testStore, "r1", karaokeHost, 1, testActor)
	itemID := liveItems(t, e, "r1")[0].ID

	clk.Advance(10 * time.Minute)
	e.StopMeteredItem(ctx, testStore, "r1", itemID, testActor)
	stopped := liveItems(t, e, "r1")[0]
	require.NotNil(t, stopped.EndTime)
	firstEnd := *stopped.EndTime

	// A second stop must not move the recorded end time.
	clk.Advance(10 * time.Minute)
	e.StopMeteredItem(ctx, testStore, "r1", itemID, testActor)
	assert.Equal(t, firstEnd, *liveItems(t, e, "r1")[0].EndTime)

	e.ResumeMeteredItem(ctx, testStore, "r1", itemID, testActor)
	assert.True(t, liveItems(t, e, "r1")[0].Running())

	// Resuming a running item changes nothing.
	before := liveItems(t, e, "r1")[0]
	e.ResumeMeteredItem(ctx, testStore, "r1", itemID, testActor)
	assert.Equal(t, before, liveItems(t, e, "r1")[0])
}

func TestStopIgnoresDiscreteItems(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")

	e.AddItem(ctx, testStore, "r1", beer, 1, testActor)
	itemID := liveItems(t, e, "r1")[0].ID
	before := s.logCount()

	e.StopMeteredItem(ctx, testStore, "r1", itemID, testActor)
	assert.Nil(t, liveItems(t, e, "r1")[0].EndTime)
	assert.Equal(t, before, s.logCount())
}

func TestRemoveItem(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")

	e.AddItem(ctx, testStore, "r1", beer, 2, testActor)
	e.AddItem(ctx, testStore, "r1", karaokeHost, 1, testActor)
	items := liveItems(t, e, "r1")
	require.Len(t, items, 2)

	e.RemoveItem(ctx, testStore, "r1", items[0].ID, testActor)
	items = liveItems(t, e, "r1")
	require.Len(t, items, 1)
	assert.Equal(t, karaokeHost.Name, items[0].Name)
}

func TestAccumulatorSilentWithoutSession(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()
	before := s.logCount()

	e.AddItem(ctx, testStore, "r1", beer, 2, testActor)
	e.StopMeteredItem(ctx, testStore, "r1", "item-x", testActor)
	e.ResumeMeteredItem(ctx, testStore, "r1", "item-x", testActor)
	e.RemoveItem(ctx, testStore, "r1", "item-x", testActor)
	e.AdjustSessionStart(ctx, testStore, "r1", -10, testActor)
	e.AdjustItemStart(ctx, testStore, "r1", "item-x", -10, testActor)

	_, ok := e.LiveOrder(testStore, "r1")
	assert.False(t, ok)
	assert.Equal(t, before, s.logCount())
}

func TestAccumulatorScopedToStore(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")
	before := s.logCount()

	// Another tenant's call against the same room id must not touch
	// this store's order.
	e.AddItem(ctx, "other-store", "r1", beer, 2, testActor)
	assert.Empty(t, liveItems(t, e, "r1"))
	assert.Equal(t, before, s.logCount())
}

func TestAdjustSessionStart(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")

	orig, _ := e.LiveOrder(testStore, "r1")
	e.AdjustSessionStart(ctx, testStore, "r1", -15, testActor)
	adjusted, _ := e.LiveOrder(testStore, "r1")
	assert.Equal(t, orig.StartTime.Add(-15*time.Minute), adjusted.StartTime)

	// A zero delta is a no-op and leaves no trace.
	before := s.logCount()
	e.AdjustSessionStart(ctx, testStore, "r1", 0, testActor)
	assert.Equal(t, before, s.logCount())
}

func TestAdjustItemStart(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()
	startSession(t, e, "r1")

	e.AddItem(ctx, testStore, "r1", karaokeHost, 1, testActor)
	e.AddItem(ctx, testStore, "r1", beer, 1, testActor)
	items := liveItems(t, e, "r1")
	metered, discrete := items[0], items[1]

	origStart := *metered.StartTime
	e.AdjustItemStart(ctx, testStore, "r1", metered.ID, -5, testActor)
	got := liveItems(t, e, "r1")[0]
	assert.Equal(t, origStart.Add(-5*time.Minute), *got.StartTime)

	before := s.logCount()
	e.AdjustItemStart(ctx, testStore, "r1", discrete.ID, -5, testActor)
	assert.Equal(t, before, s.logCount())
}
