package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// paidOrder runs a session with two beers for 50 minutes and checks it
// out, returning the archived PAID order.
func paidOrder(t *testing.T, e *Engine, s *memState, clk *fakeClock) model.Order {
	t.Helper()
	ctx := context.Background()
	s.stock[beer.ID] = 100
	_, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	e.AddItem(ctx, testStore, "r1", beer, 2, testActor)
	clk.Advance(50 * time.Minute)
	paid, err := e.Checkout(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	return paid
}

func TestRequestEditLifecycle(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	paid := paidOrder(t, e, s, clk)

	req, err := e.RequestEdit(ctx, testStore, paid.ID, "wrong quantity", testActor)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, req.Status)
	assert.Equal(t, paid.ID, req.OrderID)
	assert.Equal(t, testActor.ID, req.RequestedBy)
	assert.Equal(t, model.ActionRequest, s.lastLog().Kind)

	resolved, err := e.ResolveRequest(ctx, testStore, req.ID, true, testActor)
	require.NoError(t, err)
	assert.Equal(t, model.RequestApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, testActor.Name, *resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedAt)

	// A decided request cannot be decided again.
	_, err = e.ResolveRequest(ctx, testStore, req.ID, false, testActor)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRequestEditRejection(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	paid := paidOrder(t, e, s, clk)

	req, err := e.RequestEdit(ctx, testStore, paid.ID, "customer dispute", testActor)
	require.NoError(t, err)
	resolved, err := e.ResolveRequest(ctx, testStore, req.ID, false, testActor)
	require.NoError(t, err)
	assert.Equal(t, model.RequestRejected, resolved.Status)
}

func TestRequestEditOnlyOnPaidOrders(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()

	started, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	clk.Advance(10 * time.Minute)
	require.NoError(t, e.ForceEndSession(ctx, testStore, "r1", model.RoomAvailable, testActor))

	_, err = e.RequestEdit(ctx, testStore, started.ID, "late regret", testActor)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, model.OrderCancelled, s.order(started.ID).Status)
}

func TestApplyAmendmentNoChangeIsNoOp(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	paid := paidOrder(t, e, s, clk)
	before := s.logCount()

	same := paid.CloneItems()
	out, err := e.ApplyAmendment(ctx, testStore, paid.ID, same, &paid.StartTime, paid.EndTime, "", testActor)
	require.NoError(t, err)

	// Nothing changed, so nothing happened: no counter bump, no log.
	assert.Equal(t, 0, out.EditCount)
	assert.InDelta(t, paid.TotalAmount, out.TotalAmount, 0.001)
	assert.Equal(t, before, s.logCount())
	assert.Equal(t, 0, s.order(paid.ID).EditCount)
}

func TestApplyAmendmentIdLessResubmissionIsNoOp(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	paid := paidOrder(t, e, s, clk)
	before := s.logCount()

	// A client resubmitting the bill without line item ids still
	// describes the same order; nothing may change.
	resubmitted := paid.CloneItems()
	for i := range resubmitted {
		resubmitted[i].ID = ""
	}
	out, err := e.ApplyAmendment(ctx, testStore, paid.ID, resubmitted, nil, nil, "", testActor)
	require.NoError(t, err)
	assert.Equal(t, 0, out.EditCount)
	assert.Equal(t, before, s.logCount())
	assert.Equal(t, 0, s.order(paid.ID).EditCount)
}

func TestApplyAmendmentRecomputesTotals(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	paid := paidOrder(t, e, s, clk)

	req, err := e.RequestEdit(ctx, testStore, paid.ID, "forgot a beer", testActor)
	require.NoError(t, err)
	_, err = e.ResolveRequest(ctx, testStore, req.ID, true, testActor)
	require.NoError(t, err)

	amended := paid.CloneItems()
	amended[0].Quantity = 3
	out, err := e.ApplyAmendment(ctx, testStore, paid.ID, amended, nil, nil, req.ID, testActor)
	require.NoError(t, err)

	// Room 150000 + 3 beers at 30000 = 240000, plus 10% VAT.
	assert.InDelta(t, 240000, out.SubTotal, 0.001)
	assert.InDelta(t, 264000, out.TotalAmount, 0.001)
	assert.InDelta(t, 210000, out.TotalProfit, 0.001)
	assert.Equal(t, 1, out.EditCount)

	stored := s.order(paid.ID)
	assert.Equal(t, 1, stored.EditCount)
	assert.InDelta(t, 264000, stored.TotalAmount, 0.001)

	// The linked approved request completes with the edit.
	done, err := memRequests{s}.Get(ctx, testStore, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestCompleted, done.Status)

	assert.Equal(t, model.ActionUpdate, s.lastLog().Kind)
	assert.Contains(t, s.lastLog().Description, "Amended bill")
}

func TestApplyAmendmentEditCountMonotonic(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	paid := paidOrder(t, e, s, clk)

	first := paid.CloneItems()
	first[0].Quantity = 3
	_, err := e.ApplyAmendment(ctx, testStore, paid.ID, first, nil, nil, "", testActor)
	require.NoError(t, err)

	afterFirst := s.order(paid.ID)
	second := afterFirst.CloneItems()
	second[0].Quantity = 1
	out, err := e.ApplyAmendment(ctx, testStore, paid.ID, second, nil, nil, "", testActor)
	require.NoError(t, err)
	assert.Equal(t, 2, out.EditCount)
}

func TestApplyAmendmentSessionTimeChange(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	paid := paidOrder(t, e, s, clk)

	// Pull the start 10 minutes earlier: 60 elapsed minutes plus the
	// 10 service minutes bills 70 at 150000/h.
	newStart := paid.StartTime.Add(-10 * time.Minute)
	out, err := e.ApplyAmendment(ctx, testStore, paid.ID, paid.CloneItems(), &newStart, nil, "", testActor)
	require.NoError(t, err)

	assert.Equal(t, 1, out.EditCount)
	assert.Equal(t, newStart, out.StartTime)
	assert.InDelta(t, float64(70)/60*150000+60000, out.SubTotal, 0.001)
	assert.Equal(t, newStart, s.order(paid.ID).StartTime)
}

func TestApplyAmendmentRejectsCancelledOrder(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()

	started, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	clk.Advance(5 * time.Minute)
	require.NoError(t, e.ForceEndSession(ctx, testStore, "r1", model.RoomAvailable, testActor))

	_, err = e.ApplyAmendment(ctx, testStore, started.ID, nil, nil, nil, "", testActor)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 0, s.order(started.ID).EditCount)
}

func TestApplyAmendmentUnknownRequestTolerated(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	paid := paidOrder(t, e, s, clk)

	amended := paid.CloneItems()
	amended[0].Quantity = 5
	out, err := e.ApplyAmendment(ctx, testStore, paid.ID, amended, nil, nil, "req-missing", testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, out.EditCount)
	assert.Equal(t, 1, s.order(paid.ID).EditCount)
}

func TestDiffAmendment(t *testing.T) {
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	old := model.Order{
		StartTime: start,
		EndTime:   &end,
		Items: []model.LineItem{
			{ID: "i1", ProductID: "p1", Name: "Beer", Kind: model.ItemDiscrete, Quantity: 2},
		},
	}

	t.Run("identical is empty", func(t *testing.T) {
		changes := diffAmendment(old, old.CloneItems(), &start, &end)
		assert.Empty(t, changes)
	})

	t.Run("quantity change", func(t *testing.T) {
		items := old.CloneItems()
		items[0].Quantity = 4
		changes := diffAmendment(old, items, nil, nil)
		require.Len(t, changes, 1)
		assert.Contains(t, changes[0], "2 -> 4")
	})

	t.Run("added and removed", func(t *testing.T) {
		items := []model.LineItem{
			{ID: "i2", ProductID: "p2", Name: "Snacks", Kind: model.ItemDiscrete, Quantity: 1},
		}
		changes := diffAmendment(old, items, nil, nil)
		assert.Contains(t, changes, "added Snacks (x1)")
		assert.Contains(t, changes, "removed Beer")
	})

	t.Run("line without id pairs by product", func(t *testing.T) {
		items := []model.LineItem{
			{ProductID: "p1", Name: "Beer", Kind: model.ItemDiscrete, Quantity: 4},
		}
		changes := diffAmendment(old, items, nil, nil)
		assert.Equal(t, []string{"Beer: 2 -> 4"}, changes)
	})

	t.Run("identical line without id is no change", func(t *testing.T) {
		items := []model.LineItem{
			{ProductID: "p1", Name: "Beer", Kind: model.ItemDiscrete, Quantity: 2},
		}
		changes := diffAmendment(old, items, nil, nil)
		assert.Empty(t, changes)
	})

	t.Run("session window change", func(t *testing.T) {
		ns := start.Add(-10 * time.Minute)
		ne := end.Add(5 * time.Minute)
		changes := diffAmendment(old, old.CloneItems(), &ns, &ne)
		assert.Len(t, changes, 2)
	})
}
