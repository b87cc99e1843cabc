package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kvnguyen/karaoke-pos/internal/engine"
	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// OrderRepo is the historical order archive.  Only PAID and CANCELLED
// orders ever reach this table; open orders live in the engine's
// in-memory index.  Line items are owned by the order and stored as a
// JSON column rather than a child table, so a bill is always read and
// replaced as one value.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, store_id, room_id, status, items, start_time, end_time,
	vat_rate, sub_total, total_amount, total_profit, print_count, edit_count`

// scanOrder reads one order row including the JSON items column.
func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
	var (
		o       model.Order
		itemsJS []byte
		end     sql.NullTime
	)
	err := row.Scan(&o.ID, &o.StoreID, &o.RoomID, &o.Status, &itemsJS, &o.StartTime, &end,
		&o.VATRate, &o.SubTotal, &o.TotalAmount, &o.TotalProfit, &o.PrintCount, &o.EditCount)
	if err != nil {
		return model.Order{}, err
	}
	if end.Valid {
		t := end.Time
		o.EndTime = &t
	}
	if len(itemsJS) > 0 {
		if err := json.Unmarshal(itemsJS, &o.Items); err != nil {
			return model.Order{}, fmt.Errorf("decode order items: %w", err)
		}
	}
	if o.Items == nil {
		o.Items = []model.LineItem{}
	}
	return o, nil
}

// Get fetches one archived order of a store.
func (r *OrderRepo) Get(ctx context.Context, storeID, orderID string) (model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = ? AND store_id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, orderID, storeID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

// insertTx writes a complete order row inside the given transaction.
func insertTx(ctx context.Context, tx *sql.Tx, o model.Order) error {
	itemsJS, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	const q = `INSERT INTO orders (` + "id, store_id, room_id, status, items, start_time, end_time, vat_rate, sub_total, total_amount, total_profit, print_count, edit_count" + `)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var end any
	if o.EndTime != nil {
		end = o.EndTime.UTC()
	}
	_, err = tx.ExecContext(ctx, q, o.ID, o.StoreID, o.RoomID, string(o.Status), itemsJS,
		o.StartTime.UTC(), end, o.VATRate, o.SubTotal, o.TotalAmount, o.TotalProfit,
		o.PrintCount, o.EditCount)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrConflict
	}
	return err
}

// ArchiveCheckout inserts the paid order and applies the stock
// decrements in a single transaction.  A checkout must never deduct
// stock without producing a matching archived order, or vice versa, so
// any failure rolls the whole thing back.
func (r *OrderRepo) ArchiveCheckout(ctx context.Context, order model.Order, decrements []engine.StockDecrement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := insertTx(ctx, tx, order); err != nil {
		return err
	}
	const dec = `UPDATE products SET stock = stock - ?, updated_at = UTC_TIMESTAMP()
				 WHERE id = ? AND store_id = ?`
	for _, d := range decrements {
		if d.Quantity == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, dec, d.Quantity, d.ProductID, order.StoreID); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ArchiveCancelled inserts a cancelled order.  Cancelled sessions are
// billing-inert: no stock is touched.
func (r *OrderRepo) ArchiveCancelled(ctx context.Context, order model.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := insertTx(ctx, tx, order); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Replace swaps the stored order for the given complete value.  Used
// by amendments and the print counter; the row is always rewritten as
// a whole so there is no partially-updated state.
func (r *OrderRepo) Replace(ctx context.Context, o model.Order) error {
	itemsJS, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	const q = `UPDATE orders SET room_id = ?, status = ?, items = ?, start_time = ?, end_time = ?,
			   vat_rate = ?, sub_total = ?, total_amount = ?, total_profit = ?, print_count = ?, edit_count = ?
			   WHERE id = ? AND store_id = ?`
	var end any
	if o.EndTime != nil {
		end = o.EndTime.UTC()
	}
	res, err := r.db.ExecContext(ctx, q, o.RoomID, string(o.Status), itemsJS, o.StartTime.UTC(), end,
		o.VATRate, o.SubTotal, o.TotalAmount, o.TotalProfit, o.PrintCount, o.EditCount,
		o.ID, o.StoreID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.Get(ctx, o.StoreID, o.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// ListByStore returns a store's archived orders, newest first.  An
// optional status filter ("PAID" or "CANCELLED") narrows the result;
// since may be zero to disable the time bound.
func (r *OrderRepo) ListByStore(ctx context.Context, storeID string, status model.OrderStatus, since time.Time, limit int) ([]model.Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT ` + orderColumns + ` FROM orders WHERE store_id = ?`
	args := []any{storeID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, string(status))
	}
	if !since.IsZero() {
		q += ` AND start_time >= ?`
		args = append(args, since.UTC())
	}
	q += ` ORDER BY start_time DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
