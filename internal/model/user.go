package model

import "time"

// User represents a staff account as stored in the `users` table.
// Accounts exist so that every mutating action can be attributed in
// the audit trail; the engine itself never checks permissions, it
// trusts the actor handed to it by the HTTP layer.
//
// Fields:
//  ID           – primary key identifier of the user.
//  StoreID      – home store of the account.
//  Username     – unique login name.
//  Name         – display name shown on bills and in the audit log.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (STAFF, MANAGER or ADMIN).
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    // users.id
	StoreID      string    // users.store_id
	Username     string    // users.username
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
