package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// RoomRepo provides access to the rooms table.  All lookups are scoped
// by store id; a room belonging to another store is reported as
// ErrNotFound.  Timestamps are stored in UTC.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Get fetches one room of a store.
func (r *RoomRepo) Get(ctx context.Context, storeID, roomID string) (model.Room, error) {
	const q = `SELECT id, store_id, name, status, type, hourly_rate, created_at, updated_at
			   FROM rooms WHERE id = ? AND store_id = ?`
	var rm model.Room
	err := r.db.QueryRowContext(ctx, q, roomID, storeID).Scan(
		&rm.ID, &rm.StoreID, &rm.Name, &rm.Status, &rm.Type, &rm.HourlyRate,
		&rm.CreatedAt, &rm.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrNotFound
	}
	return rm, err
}

// SetStatus updates a room's status.  Unknown ids are reported as
// ErrNotFound so lifecycle bugs surface instead of silently writing
// nothing.
func (r *RoomRepo) SetStatus(ctx context.Context, storeID, roomID string, status model.RoomStatus) error {
	const q = `UPDATE rooms SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ? AND store_id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), roomID, storeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "no such room" from "status already equal".
		if _, getErr := r.Get(ctx, storeID, roomID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// ListByStore returns all rooms of a store ordered by name.  An empty
// slice is returned when the store has no rooms.
func (r *RoomRepo) ListByStore(ctx context.Context, storeID string) ([]model.Room, error) {
	const q = `SELECT id, store_id, name, status, type, hourly_rate, created_at, updated_at
			   FROM rooms WHERE store_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.StoreID, &rm.Name, &rm.Status, &rm.Type,
			&rm.HourlyRate, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
