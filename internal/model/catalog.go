package model

import "time"

// CachedProduct is a read-mostly mirror of backend reference data, keyed by
// (warehouse_id, product_ref). A refresh replaces the whole warehouse slice.
type CachedProduct struct {
	WarehouseID string    `db:"warehouse_id"`
	ProductRef  string    `db:"product_ref"`
	Name        string    `db:"name"`
	Code        string    `db:"code"`
	UnitPrice   float64   `db:"unit_price"`
	RefreshedAt time.Time `db:"refreshed_at"`
}

// CachedClient mirrors a backend customer, keyed by (warehouse_id, client_ref).
// ClientRef is the remote-known reference used on order headers; Name is
// display-only.
type CachedClient struct {
	WarehouseID string    `db:"warehouse_id"`
	ClientRef   string    `db:"client_ref"`
	Name        string    `db:"name"`
	Address     string    `db:"address"`
	RefreshedAt time.Time `db:"refreshed_at"`
}
