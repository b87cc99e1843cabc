// Package repository implements the MySQL persistence layer.  Each
// repository wraps a *sql.DB and exposes the store-scoped operations
// the engine and handlers need.  These sentinel values let higher
// layers distinguish failure scenarios with errors.Is; for example,
// ErrNotFound becomes an HTTP 404 while ErrConflict becomes a 409.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist within the
// caller's store.  Lookups never leak rows belonging to other stores;
// a cross-store id behaves exactly like an unknown one.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state, such as archiving an order whose id already
// exists. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
