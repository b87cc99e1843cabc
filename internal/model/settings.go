package model

// Settings carries the per-store billing policy.  The engine only ever
// reads these values; they are edited through the settings surface of
// the presentation layer.
//
// TimeRoundingMinutes rounds room time up to the next multiple (values
// of 1 or less disable rounding).  StaffServiceMinutes is a fixed
// surcharge window added to every room bill.  ServiceBlockMinutes is
// the block size metered items are rounded up to.  The *Minutes window
// fields are policy inputs for callers of the bill correction
// workflow; the workflow itself does not enforce them.
type Settings struct {
	StoreID                string  // settings.store_id
	TimeRoundingMinutes    int     // settings.time_rounding_minutes
	StaffServiceMinutes    int     // settings.staff_service_minutes
	ServiceBlockMinutes    int     // settings.service_block_minutes
	VATRate                float64 // settings.vat_rate (percent)
	LowStockThreshold      int     // settings.low_stock_threshold
	StaffEditWindowMinutes int     // settings.staff_edit_window_minutes
	AdminAutoApproveMin    int     // settings.admin_auto_approve_minutes
	HardBillLockMinutes    int     // settings.hard_bill_lock_minutes
}

// DefaultSettings returns the policy used when a store has no settings
// row yet.
func DefaultSettings(storeID string) Settings {
	return Settings{
		StoreID:                storeID,
		TimeRoundingMinutes:    5,
		StaffServiceMinutes:    10,
		ServiceBlockMinutes:    10,
		VATRate:                10,
		LowStockThreshold:      10,
		StaffEditWindowMinutes: 5,
		AdminAutoApproveMin:    0,
		HardBillLockMinutes:    1440,
	}
}
