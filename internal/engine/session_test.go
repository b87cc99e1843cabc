package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

var beer = model.Product{ID: "p-beer", StoreID: testStore, Name: "Beer", SellPrice: 30000, CostPrice: 10000}

func TestStartSession(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()

	order, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	assert.Equal(t, model.OrderOpen, order.Status)
	assert.Equal(t, testStore, order.StoreID)
	assert.Equal(t, "r1", order.RoomID)
	assert.Empty(t, order.Items)
	// VAT is frozen on the order at open time.
	assert.InDelta(t, s.settings.VATRate, order.VATRate, 0.001)

	assert.Equal(t, model.RoomOccupied, s.room("r1").Status)
	assert.Equal(t, model.ActionCreate, s.lastLog().Kind)

	_, ok := e.LiveOrder(testStore, "r1")
	assert.True(t, ok)
}

func TestStartSessionRejectsNonAvailableRoom(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()

	for _, st := range []model.RoomStatus{model.RoomCleaning, model.RoomOutOfService, model.RoomOccupied} {
		r := s.room("r1")
		r.Status = st
		s.rooms["r1"] = r
		_, err := e.StartSession(ctx, testStore, "r1", testActor)
		assert.ErrorIs(t, err, ErrInvalidState, "status %s", st)
	}
}

func TestStartSessionTwiceFails(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	_, err = e.StartSession(ctx, testStore, "r1", testActor)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStartSessionUnknownRoom(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.StartSession(context.Background(), testStore, "nope", testActor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutBillsRoomTime(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()

	started, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	clk.Advance(50 * time.Minute)

	paid, err := e.Checkout(ctx, testStore, "r1", testActor)
	require.NoError(t, err)

	// 50 min rounds to 60 billed minutes at 150000/h, plus 10% VAT.
	assert.Equal(t, model.OrderPaid, paid.Status)
	assert.InDelta(t, 150000, paid.SubTotal, 0.001)
	assert.InDelta(t, 165000, paid.TotalAmount, 0.001)
	assert.InDelta(t, 150000, paid.TotalProfit, 0.001)
	require.NotNil(t, paid.EndTime)
	assert.Equal(t, started.StartTime.Add(50*time.Minute), *paid.EndTime)

	assert.Equal(t, model.RoomCleaning, s.room("r1").Status)
	_, ok := e.LiveOrder(testStore, "r1")
	assert.False(t, ok)
	assert.Equal(t, model.OrderPaid, s.order(paid.ID).Status)
}

func TestCheckoutDecrementsStock(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	s.stock[beer.ID] = 10

	_, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	e.AddItem(ctx, testStore, "r1", beer, 2, testActor)
	clk.Advance(50 * time.Minute)

	paid, err := e.Checkout(ctx, testStore, "r1", testActor)
	require.NoError(t, err)

	assert.InDelta(t, 210000, paid.SubTotal, 0.001)
	assert.InDelta(t, 231000, paid.TotalAmount, 0.001)
	assert.InDelta(t, 190000, paid.TotalProfit, 0.001)
	assert.Equal(t, 8, s.stock[beer.ID])
}

func TestCheckoutWithoutSession(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.Checkout(context.Background(), testStore, "r1", testActor)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestCheckoutArchiveFailureKeepsSessionLive(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()

	_, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	clk.Advance(20 * time.Minute)

	s.checkoutErr = errors.New("db down")
	_, err = e.Checkout(ctx, testStore, "r1", testActor)
	require.Error(t, err)

	// The failed checkout must leave the session untouched.
	_, ok := e.LiveOrder(testStore, "r1")
	assert.True(t, ok)
	assert.Equal(t, model.RoomOccupied, s.room("r1").Status)

	s.checkoutErr = nil
	_, err = e.Checkout(ctx, testStore, "r1", testActor)
	assert.NoError(t, err)
}

func TestForceEndCancelsWithoutBilling(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()
	s.stock[beer.ID] = 10

	started, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	e.AddItem(ctx, testStore, "r1", beer, 2, testActor)
	clk.Advance(40 * time.Minute)

	require.NoError(t, e.ForceEndSession(ctx, testStore, "r1", model.RoomAvailable, testActor))

	cancelled := s.order(started.ID)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Zero(t, cancelled.TotalAmount)
	assert.Zero(t, cancelled.SubTotal)
	assert.Zero(t, cancelled.TotalProfit)
	// A cancelled session never touches stock.
	assert.Equal(t, 10, s.stock[beer.ID])

	assert.Equal(t, model.RoomAvailable, s.room("r1").Status)
	_, ok := e.LiveOrder(testStore, "r1")
	assert.False(t, ok)
	assert.Equal(t, model.ActionDelete, s.lastLog().Kind)
}

func TestForceEndWithoutSessionJustSetsStatus(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.ForceEndSession(ctx, testStore, "r1", model.RoomOutOfService, testActor))
	assert.Equal(t, model.RoomOutOfService, s.room("r1").Status)
	assert.Equal(t, model.ActionUpdate, s.lastLog().Kind)
}

func TestForceEndRejectsOccupiedTargets(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	assert.ErrorIs(t, e.ForceEndSession(ctx, testStore, "r1", model.RoomOccupied, testActor), ErrInvalidState)
	assert.ErrorIs(t, e.ForceEndSession(ctx, testStore, "r1", model.RoomPaymentPending, testActor), ErrInvalidState)
	assert.ErrorIs(t, e.ForceEndSession(ctx, testStore, "r1", "BOGUS", testActor), ErrInvalidState)
}

func TestMoveSessionKeepsOrderAndStartTime(t *testing.T) {
	e, s, clk := newTestEngine(t)
	ctx := context.Background()

	started, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)
	clk.Advance(10 * time.Minute)

	require.NoError(t, e.MoveSession(ctx, testStore, "r1", "r2", testActor))

	assert.Equal(t, model.RoomAvailable, s.room("r1").Status)
	assert.Equal(t, model.RoomOccupied, s.room("r2").Status)

	_, ok := e.LiveOrder(testStore, "r1")
	assert.False(t, ok)
	moved, ok := e.LiveOrder(testStore, "r2")
	require.True(t, ok)
	assert.Equal(t, started.ID, moved.ID)
	assert.Equal(t, started.StartTime, moved.StartTime)
	assert.Equal(t, "r2", moved.RoomID)
}

func TestMoveSessionErrors(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()

	err := e.MoveSession(ctx, testStore, "r1", "r2", testActor)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)

	r2 := s.room("r2")
	r2.Status = model.RoomCleaning
	s.rooms["r2"] = r2
	err = e.MoveSession(ctx, testStore, "r1", "r2", testActor)
	assert.ErrorIs(t, err, ErrTargetUnavailable)

	err = e.MoveSession(ctx, testStore, "r1", "nope", testActor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRoomStatusFreeRoom(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomCleaning, testActor))
	assert.Equal(t, model.RoomCleaning, s.room("r1").Status)
	require.NoError(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomOutOfService, testActor))
	require.NoError(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomAvailable, testActor))

	// A room without an open order can never be marked occupied.
	assert.ErrorIs(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomOccupied, testActor), ErrInvalidState)
	assert.ErrorIs(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomPaymentPending, testActor), ErrInvalidState)
	assert.ErrorIs(t, e.SetRoomStatus(ctx, testStore, "r1", "BOGUS", testActor), ErrInvalidState)
}

func TestSetRoomStatusWithOpenOrder(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.StartSession(ctx, testStore, "r1", testActor)
	require.NoError(t, err)

	// An occupied room may toggle between the two session states only.
	require.NoError(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomPaymentPending, testActor))
	assert.Equal(t, model.RoomPaymentPending, s.room("r1").Status)
	require.NoError(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomOccupied, testActor))

	assert.ErrorIs(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomAvailable, testActor), ErrInvalidState)
	assert.ErrorIs(t, e.SetRoomStatus(ctx, testStore, "r1", model.RoomCleaning, testActor), ErrInvalidState)
}
