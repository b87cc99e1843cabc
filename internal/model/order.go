package model

import "time"

// OrderStatus enumerates the lifecycle states of an order.  An order is
// OPEN while the session is running and becomes PAID or CANCELLED when
// it is archived; archived orders never reopen.
type OrderStatus string

const (
	OrderOpen      OrderStatus = "OPEN"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ItemKind distinguishes the two pricing interpretations of a line
// item.  A discrete item is billed by quantity; a metered item is
// billed by elapsed time between its start and end timestamps.  An
// item is exactly one of the two, never both.
type ItemKind string

const (
	ItemDiscrete ItemKind = "DISCRETE"
	ItemMetered  ItemKind = "METERED"
)

// LineItem is one charge line inside an order.  Name and prices are
// snapshotted from the catalog at the moment the item is added so that
// historical bills stay stable when catalog prices change later.
//
// For ItemDiscrete, Quantity carries the billed count and the time
// fields are nil.  For ItemMetered, StartTime is always set and a nil
// EndTime means the item is still accruing charge.
type LineItem struct {
	ID        string     `json:"id"`
	ProductID string     `json:"product_id"`
	Name      string     `json:"name"`
	Kind      ItemKind   `json:"kind"`
	Quantity  int        `json:"quantity,omitempty"`
	SellPrice float64    `json:"sell_price"`
	CostPrice float64    `json:"cost_price"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// Metered reports whether the item is billed by elapsed time.
func (li LineItem) Metered() bool { return li.Kind == ItemMetered }

// Running reports whether a metered item is still accruing charge.
func (li LineItem) Running() bool { return li.Kind == ItemMetered && li.EndTime == nil }

// Order aggregates one room session: the rented time window plus every
// line item consumed during it.  Totals are zero while the order is
// OPEN and are frozen at checkout; after that only an approved
// amendment may replace them, incrementing EditCount.
//
// Fields:
//  ID          – primary key identifier.
//  StoreID     – store (tenant) the order belongs to.
//  RoomID      – room the session runs (or ran) in.
//  Status      – OPEN, PAID or CANCELLED.
//  Items       – embedded line items, owned by value.
//  StartTime   – when the session opened.
//  EndTime     – when the session closed (nil while OPEN).
//  VATRate     – VAT percentage snapshotted from settings at open time.
//  SubTotal    – room time plus item revenue, before VAT.
//  TotalAmount – SubTotal plus VAT.
//  TotalProfit – SubTotal minus item cost (room time is pure margin).
//  PrintCount  – how many times the bill has been printed.
//  EditCount   – how many post-payment amendments have been applied.
type Order struct {
	ID          string      // orders.id
	StoreID     string      // orders.store_id
	RoomID      string      // orders.room_id
	Status      OrderStatus // orders.status
	Items       []LineItem  // orders.items (JSON column)
	StartTime   time.Time   // orders.start_time
	EndTime     *time.Time  // orders.end_time (nullable)
	VATRate     float64     // orders.vat_rate
	SubTotal    float64     // orders.sub_total
	TotalAmount float64     // orders.total_amount
	TotalProfit float64     // orders.total_profit
	PrintCount  int         // orders.print_count
	EditCount   int         // orders.edit_count
}

// Item returns a pointer to the line item with the given id, or nil
// when no such item exists.
func (o *Order) Item(itemID string) *LineItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// CloneItems returns a deep copy of the order's line items so callers
// can diff or mutate without aliasing the stored slice.
func (o *Order) CloneItems() []LineItem {
	out := make([]LineItem, len(o.Items))
	for i, it := range o.Items {
		if it.StartTime != nil {
			t := *it.StartTime
			it.StartTime = &t
		}
		if it.EndTime != nil {
			t := *it.EndTime
			it.EndTime = &t
		}
		out[i] = it
	}
	return out
}
