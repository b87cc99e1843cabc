// Package queue defines message payloads exchanged over the message broker.
package queue

// SessionClosedEvent is published when a room session is archived,
// either through checkout (PAID) or a forced end (CANCELLED).  It
// carries enough information for downstream consumers (receipt
// printer, daily revenue report) to act without querying the primary
// database.
type SessionClosedEvent struct {
	OrderID     string  `json:"order_id"`
	StoreID     string  `json:"store_id"`
	RoomID      string  `json:"room_id"`
	RoomName    string  `json:"room_name"`
	Status      string  `json:"status"` // PAID or CANCELLED
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	ItemCount   int     `json:"item_count"`
	SubTotal    float64 `json:"sub_total"`
	TotalAmount float64 `json:"total_amount"`
	ClosedBy    string  `json:"closed_by"`
	ClosedAt    string  `json:"closed_at"`
}
