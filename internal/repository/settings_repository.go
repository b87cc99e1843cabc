package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kvnguyen/karaoke-pos/internal/model"
)

// SettingsRepo reads the per-store billing policy.  The engine treats
// settings as read-only input; writes happen through the back-office
// surface, not here.  A store without a settings row gets the
// defaults.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo returns a new SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// For returns the billing policy of a store, falling back to
// DefaultSettings when no row exists.
func (r *SettingsRepo) For(ctx context.Context, storeID string) (model.Settings, error) {
	const q = `SELECT store_id, time_rounding_minutes, staff_service_minutes, service_block_minutes,
			   vat_rate, low_stock_threshold, staff_edit_window_minutes, admin_auto_approve_minutes,
			   hard_bill_lock_minutes
			   FROM settings WHERE store_id = ?`
	var s model.Settings
	err := r.db.QueryRowContext(ctx, q, storeID).Scan(
		&s.StoreID, &s.TimeRoundingMinutes, &s.StaffServiceMinutes, &s.ServiceBlockMinutes,
		&s.VATRate, &s.LowStockThreshold, &s.StaffEditWindowMinutes, &s.AdminAutoApproveMin,
		&s.HardBillLockMinutes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(storeID), nil
	}
	return s, err
}
