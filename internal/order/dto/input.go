package dto

type CreateOrderInput struct {
	CustomerRef string
	WarehouseID string
	Notes       string
	Items       []CreateOrderItemInput
}

type CreateOrderItemInput struct {
	ProductRef  string
	ProductName string
	Quantity    int64
	UnitPrice   float64
}

type UpdateOrderHeaderInput struct {
	LocalID     int64
	CustomerRef *string
	WarehouseID *string
	Notes       *string
}

type UpdateOrderItemInput struct {
	LocalID   int64 // Parent order, for reloading after the patch
	ItemID    int64
	Quantity  *int64
	UnitPrice *float64
}

// HeaderPatch is the repository-level patch shape. Nil fields are untouched.
type HeaderPatch struct {
	CustomerRef *string
	WarehouseID *string
	Notes       *string
}

// ItemPatch patches quantity/unit price; totals are recomputed by the store.
type ItemPatch struct {
	Quantity  *int64
	UnitPrice *float64
}
