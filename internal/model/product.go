package model

import "time"

// Product is one catalog entry of a store: a drink, a snack or an
// hourly service such as a staff musician.  Metered products are billed
// by elapsed time instead of quantity when added to an order.
//
// Fields:
//  ID        – primary key identifier.
//  StoreID   – store (tenant) the product belongs to.
//  Name      – display name.
//  Category  – free-form category label.
//  CostPrice – purchase cost per unit (or per hour when metered).
//  SellPrice – sale price per unit (or per hour when metered).
//  Stock     – units on hand; untouched for metered products.
//  Unit      – unit label ("can", "bottle", "hour"...).
//  Metered   – whether the product is billed by elapsed time.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Product struct {
	ID        string    // products.id
	StoreID   string    // products.store_id
	Name      string    // products.name
	Category  string    // products.category
	CostPrice float64   // products.cost_price
	SellPrice float64   // products.sell_price
	Stock     int       // products.stock
	Unit      string    // products.unit
	Metered   bool      // products.is_metered
	CreatedAt time.Time // products.created_at
	UpdatedAt time.Time // products.updated_at
}
