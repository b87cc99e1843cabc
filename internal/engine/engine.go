package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// Engine owns the live-session index and drives every mutation of the
// session and billing state.  All operations take the store id of the
// acting tenant and verify it against the entities they touch, so a
// live order can never leak across stores.
//
// A single mutex serializes mutations.  StartSession, Checkout,
// ForceEndSession and MoveSession all read-then-write the same live
// slot and must not interleave; the workload is one terminal per store,
// so one lock is enough and keeps the invariants easy to reason about.
type Engine struct {
	rooms    RoomStore
	archive  OrderArchive
	requests RequestStore
	audit    AuditStore
	settings SettingsSource

	mu   sync.Mutex
	live map[string]*model.Order // open orders keyed by room id

	now   func() time.Time
	idSeq atomic.Uint64
}

// New constructs an Engine over the given stores.  All dependencies
// must be non-nil.
func New(rooms RoomStore, archive OrderArchive, requests RequestStore, audit AuditStore, settings SettingsSource) *Engine {
	if rooms == nil || archive == nil || requests == nil || audit == nil || settings == nil {
		panic("nil store passed to engine.New")
	}
	return &Engine{
		rooms:    rooms,
		archive:  archive,
		requests: requests,
		audit:    audit,
		settings: settings,
		live:     make(map[string]*model.Order),
		now:      time.Now,
	}
}

// SetClock overrides the engine's time source.  Intended for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// newID returns a process-unique identifier with the given prefix.
func (e *Engine) newID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, e.now().UnixMilli(), e.idSeq.Add(1))
}

// liveOrder returns the open order for a room, scoped to the store.
// An order opened by another store is treated as absent.
func (e *Engine) liveOrder(storeID, roomID string) *model.Order {
	o, ok := e.live[roomID]
	if !ok || o.StoreID != storeID {
		return nil
	}
	return o
}

// LiveOrder returns a snapshot of the open order for a room, or false
// when none exists.  Read-only; used by the room board.
func (e *Engine) LiveOrder(storeID, roomID string) (model.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o := e.liveOrder(storeID, roomID)
	if o == nil {
		return model.Order{}, false
	}
	snap := *o
	snap.Items = o.CloneItems()
	return snap, true
}

// record appends one audit entry describing a committed mutation.  The
// append is fire-and-forget: a failing audit store must not undo the
// state change it describes, so the error is only logged.
func (e *Engine) record(ctx context.Context, storeID string, actor Actor, kind model.ActionKind, target, description string) {
	entry := model.ActionLogEntry{
		ID:          e.newID("log"),
		StoreID:     storeID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Kind:        kind,
		Target:      target,
		Description: description,
		CreatedAt:   e.now(),
	}
	if err := e.audit.Append(ctx, entry); err != nil {
		log.Printf("audit: append failed for %s/%s: %v", storeID, target, err)
	}
}

// IncrementPrintCount bumps the print counter on an archived order and
// records a PRINT action.  Returns ErrNotFound for unknown orders.
func (e *Engine) IncrementPrintCount(ctx context.Context, storeID, orderID string, actor Actor) (model.Order, error) {
	order, err := e.archive.Get(ctx, storeID, orderID)
	if err != nil {
		return model.Order{}, err
	}
	order.PrintCount++
	if err := e.archive.Replace(ctx, order); err != nil {
		return model.Order{}, err
	}
	e.record(ctx, storeID, actor, model.ActionPrint, "Bill "+orderID, "Reprinted bill")
	return order, nil
}
