package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// BillRequestRepo persists bill edit requests.  Requests reference an
// archived order and carry the approval decision; the engine drives
// their lifecycle.
type BillRequestRepo struct {
	db *sql.DB
}

// NewBillRequestRepo returns a new BillRequestRepo bound to the given database.
func NewBillRequestRepo(db *sql.DB) *BillRequestRepo { return &BillRequestRepo{db: db} }

const requestColumns = `id, store_id, order_id, requested_by, requested_name, reason, status, created_at, resolved_by, resolved_at`

func scanRequest(row interface{ Scan(...any) error }) (model.BillEditRequest, error) {
	var (
		req        model.BillEditRequest
		resolvedBy sql.NullString
		resolvedAt sql.NullTime
	)
	err := row.Scan(&req.ID, &req.StoreID, &req.OrderID, &req.RequestedBy, &req.RequestedName,
		&req.Reason, &req.Status, &req.CreatedAt, &resolvedBy, &resolvedAt)
	if err != nil {
		return model.BillEditRequest{}, err
	}
	if resolvedBy.Valid {
		s := resolvedBy.String
		req.ResolvedBy = &s
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		req.ResolvedAt = &t
	}
	return req, nil
}

// Create inserts a new request row.
func (r *BillRequestRepo) Create(ctx context.Context, req model.BillEditRequest) error {
	const q = `INSERT INTO bill_edit_requests
			   (id, store_id, order_id, requested_by, requested_name, reason, status, created_at)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, req.ID, req.StoreID, req.OrderID, req.RequestedBy,
		req.RequestedName, req.Reason, string(req.Status), req.CreatedAt.UTC())
	return err
}

// Get fetches one request of a store.
func (r *BillRequestRepo) Get(ctx context.Context, storeID, requestID string) (model.BillEditRequest, error) {
	const q = `SELECT ` + requestColumns + ` FROM bill_edit_requests WHERE id = ? AND store_id = ?`
	req, err := scanRequest(r.db.QueryRowContext(ctx, q, requestID, storeID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.BillEditRequest{}, ErrNotFound
	}
	return req, err
}

// Update rewrites the mutable fields of a request (status and
// resolution metadata).
func (r *BillRequestRepo) Update(ctx context.Context, req model.BillEditRequest) error {
	const q = `UPDATE bill_edit_requests SET status = ?, resolved_by = ?, resolved_at = ?
			   WHERE id = ? AND store_id = ?`
	var (
		by any
		at any
	)
	if req.ResolvedBy != nil {
		by = *req.ResolvedBy
	}
	if req.ResolvedAt != nil {
		at = req.ResolvedAt.UTC()
	}
	res, err := r.db.ExecContext(ctx, q, string(req.Status), by, at, req.ID, req.StoreID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.Get(ctx, req.StoreID, req.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// ListByStore returns a store's requests, newest first, optionally
// filtered by status.
func (r *BillRequestRepo) ListByStore(ctx context.Context, storeID string, status model.RequestStatus, limit int) ([]model.BillEditRequest, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT ` + requestColumns + ` FROM bill_edit_requests WHERE store_id = ?`
	args := []any{storeID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BillEditRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
