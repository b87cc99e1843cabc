package repository

import (
	"context"
	"database/sql"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// ActionLogRepo is the append-only audit trail.  The engine only ever
// inserts; rows are read back for display and export and are never
// updated or deleted by the application.
type ActionLogRepo struct {
	db *sql.DB
}

// NewActionLogRepo returns a new ActionLogRepo bound to the given database.
func NewActionLogRepo(db *sql.DB) *ActionLogRepo { return &ActionLogRepo{db: db} }

// Append inserts one audit entry.
func (r *ActionLogRepo) Append(ctx context.Context, e model.ActionLogEntry) error {
	const q = `INSERT INTO action_logs (id, store_id, actor_id, actor_name, kind, target, description, created_at)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, e.ID, e.StoreID, e.ActorID, e.ActorName,
		string(e.Kind), e.Target, e.Description, e.CreatedAt.UTC())
	return err
}

// ListByStore returns a store's audit entries, newest first.
func (r *ActionLogRepo) ListByStore(ctx context.Context, storeID string, limit int) ([]model.ActionLogEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	const q = `SELECT id, store_id, actor_id, actor_name, kind, target, description, created_at
			   FROM action_logs WHERE store_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, storeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ActionLogEntry, 0)
	for rows.Next() {
		var e model.ActionLogEntry
		if err := rows.Scan(&e.ID, &e.StoreID, &e.ActorID, &e.ActorName, &e.Kind,
			&e.Target, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
