package remote

// OrderHeaderPayload is the wire shape for creating an order header. Local
// bookkeeping fields (local id, statuses) never appear here.
type OrderHeaderPayload struct {
	CustomerRef string  `json:"customer_ref"`
	WarehouseID string  `json:"warehouse_id"`
	TotalAmount float64 `json:"total_amount"`
	Notes       string  `json:"notes,omitempty"`
	ActorID     string  `json:"actor_id"`
	CreatedAt   string  `json:"created_at"` // RFC3339, UTC
	Status      string  `json:"status"`     // Always "pending" on the remote side
}

// OrderItemPayload is the wire shape for one order line. Cached display
// fields (product name/code) are stripped.
type OrderItemPayload struct {
	OrderID    string  `json:"order_id"`
	ProductRef string  `json:"product_ref"`
	Quantity   int64   `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type meResponse struct {
	UserID string `json:"user_id"`
}

type productPayload struct {
	Ref       string  `json:"ref"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	UnitPrice float64 `json:"unit_price"`
}

type clientPayload struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
