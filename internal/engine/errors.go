// Package engine implements the session and billing core: the room
// occupancy state machine, the live order accumulator, the tariff
// calculator and the bill correction workflow.  It holds open orders in
// an in-memory live-session index and persists everything else through
// the store interfaces declared in stores.go.  These sentinel values
// allow the HTTP layer to translate engine failures into status codes
// with errors.Is.
package engine

import "errors"

// ErrInvalidState is returned when an operation is attempted against a
// room or order whose current state does not allow it, such as opening
// a session on an occupied room or amending a cancelled bill.
var ErrInvalidState = errors.New("invalid state")

// ErrNoActiveSession is returned when an operation requires an open
// order for the room and none exists.
var ErrNoActiveSession = errors.New("no active session")

// ErrTargetUnavailable is returned by MoveSession when the destination
// room is not free.
var ErrTargetUnavailable = errors.New("target room unavailable")

// ErrNotFound is returned when a referenced room, order or request does
// not exist in the caller's store.  Item-level operations on the live
// order deliberately do not use it; they no-op on missing targets.
var ErrNotFound = errors.New("not found")
