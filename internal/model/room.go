package model

import "time"

// RoomStatus enumerates the occupancy states a room can be in.  The
// status column on the rooms table stores these values verbatim.
// OCCUPIED and PAYMENT_PENDING imply that a live order exists for the
// room; every other status implies that none does.
type RoomStatus string

const (
	RoomAvailable      RoomStatus = "AVAILABLE"       // free, a session may be started
	RoomOccupied       RoomStatus = "OCCUPIED"        // guests inside, order accruing
	RoomPaymentPending RoomStatus = "PAYMENT_PENDING" // bill requested, treated as OCCUPIED for billing
	RoomCleaning       RoomStatus = "CLEANING"        // being turned over after checkout
	RoomOutOfService   RoomStatus = "OUT_OF_SERVICE"  // unavailable for sessions
)

// Valid reports whether s is one of the known room statuses.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomPaymentPending, RoomCleaning, RoomOutOfService:
		return true
	}
	return false
}

// Occupied reports whether the status implies a live session.
// PAYMENT_PENDING is a UI-level sub-state of OCCUPIED and counts as
// occupied for every billing purpose.
func (s RoomStatus) Occupied() bool {
	return s == RoomOccupied || s == RoomPaymentPending
}

// Room represents a billable karaoke room inside one store.  Rooms own
// at most one open order at a time; the engine keeps that order in its
// live-session index rather than on the row itself.
//
// Fields:
//  ID         – primary key identifier.
//  StoreID    – store (tenant) this room belongs to.
//  Name       – display name, unique per store.
//  Status     – current occupancy status.
//  Type       – room class (VIP or NORMAL).
//  HourlyRate – room-time price per hour in the store currency.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
	ID         string     // rooms.id
	StoreID    string     // rooms.store_id
	Name       string     // rooms.name
	Status     RoomStatus // rooms.status
	Type       string     // rooms.type ('VIP' or 'NORMAL')
	HourlyRate float64    // rooms.hourly_rate
	CreatedAt  time.Time  // rooms.created_at
	UpdatedAt  time.Time  // rooms.updated_at
}
