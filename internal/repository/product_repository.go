package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// ProductRepo provides access to the product catalog.  The engine only
// reads products (for price snapshots when adding items) and the
// checkout transaction in OrderRepo writes stock; this repository adds
// the read side plus low-stock reporting.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a new ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `id, store_id, name, category, cost_price, sell_price, stock, unit, is_metered, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Category, &p.CostPrice, &p.SellPrice,
		&p.Stock, &p.Unit, &p.Metered, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Get fetches one product of a store.
func (r *ProductRepo) Get(ctx context.Context, storeID, productID string) (model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ? AND store_id = ?`
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, productID, storeID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// ListByStore returns a store's catalog ordered by category then name.
func (r *ProductRepo) ListByStore(ctx context.Context, storeID string) ([]model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE store_id = ? ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, q, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListLowStock returns discrete products whose stock has fallen to or
// below the given threshold, for the restock warning on the board.
func (r *ProductRepo) ListLowStock(ctx context.Context, storeID string, threshold int) ([]model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products
			   WHERE store_id = ? AND is_metered = FALSE AND stock <= ? ORDER BY stock`
	rows, err := r.db.QueryContext(ctx, q, storeID, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
