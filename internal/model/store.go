package model

import "time"

// Store represents one tenant: a physical karaoke venue with its own
// rooms, catalog, orders and settings.  Every other entity carries a
// StoreID referencing a row of the `stores` table, and the engine
// never relates entities across stores.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – venue name.
//  Address   – street address.
//  Phone     – contact phone number.
//  Status    – ACTIVE, LOCKED or MAINTENANCE.
//  CreatedAt – timestamp when the store was created.
//  UpdatedAt – timestamp of last update.
type Store struct {
	ID        string    // stores.id
	Name      string    // stores.name
	Address   string    // stores.address
	Phone     string    // stores.phone
	Status    string    // stores.status
	CreatedAt time.Time // stores.created_at
	UpdatedAt time.Time // stores.updated_at
}
