package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// UserRepo persists staff accounts: the lookups login and audit
// attribution need, plus admin provisioning of new accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, store_id, username, name, password_hash, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.StoreID, &u.Username, &u.Name, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = ? LIMIT 1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Create inserts a new staff account.  The username is normalized to
// lowercase so logins are case-insensitive; duplicates surface
// ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	const q = `INSERT INTO users (id, store_id, username, name, password_hash, role, is_active)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.StoreID,
		strings.ToLower(strings.TrimSpace(u.Username)), u.Name, u.PasswordHash,
		u.Role, u.IsActive)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrConflict
	}
	return err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
