package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// StoreRepo resolves tenant records.  The service only ever reads
// stores; provisioning venues happens in the back office.
type StoreRepo struct {
	db *sql.DB
}

// NewStoreRepo returns a new StoreRepo bound to the given database.
func NewStoreRepo(db *sql.DB) *StoreRepo { return &StoreRepo{db: db} }

// Get fetches a store by id.
func (r *StoreRepo) Get(ctx context.Context, storeID string) (model.Store, error) {
	const q = `SELECT id, name, address, phone, status, created_at, updated_at
			   FROM stores WHERE id = ? LIMIT 1`
	var s model.Store
	err := r.db.QueryRowContext(ctx, q, storeID).Scan(
		&s.ID, &s.Name, &s.Address, &s.Phone, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Store{}, ErrNotFound
	}
	return s, err
}
