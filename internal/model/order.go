package model

import (
	"math"
	"time"
)

// Order status values. An order is created pending and moves to processed
// exactly once, when the sync engine has pushed it to the backend.
const (
	OrderStatusPending   = "pending"
	OrderStatusProcessed = "processed"
)

// Sync status values, tracked separately from the order status so the UI
// can distinguish "never attempted" from "attempted and failed".
const (
	SyncStatusLocal   = "local"
	SyncStatusSyncing = "syncing"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
)

type Order struct {
	LocalID     int64      `db:"local_id"`
	RemoteID    *string    `db:"remote_id"` // Assigned by the backend only
	SyncKey     string     `db:"sync_key"`  // Idempotency key sent with every header push
	CustomerRef string     `db:"customer_ref"`
	WarehouseID string     `db:"warehouse_id"`
	TotalAmount float64    `db:"total_amount"`
	Notes       string     `db:"notes"`
	Status      string     `db:"status"`
	SyncStatus  string     `db:"sync_status"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	Items       []OrderItem `db:"-"` // Loaded separately, not a column
}

type OrderItem struct {
	ID           int64   `db:"id"`
	OrderLocalID int64   `db:"order_local_id"`
	ProductRef   string  `db:"product_ref"`
	ProductName  string  `db:"product_name"` // Cached display name, never sent to the backend
	Quantity     int64   `db:"quantity"`
	UnitPrice    float64 `db:"unit_price"`
	TotalPrice   float64 `db:"total_price"`
}

// IsPending reports whether the order may still be edited locally.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// RoundAmount rounds a money amount to cents.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}

// SumItems recomputes the order total from its items.
func SumItems(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return RoundAmount(total)
}
