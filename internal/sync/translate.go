package sync

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/internal/remote"
)

// ClientResolver answers whether a customer ref is known to the backend for
// the warehouse. Backed by the cached client collection.
type ClientResolver func(ctx context.Context, warehouseID, clientRef string) (bool, error)

// ValidationIssues returns everything that makes the order unfit for
// transmission. Runs before every push attempt, not only at creation: the
// client cache may have been incomplete when the order was written.
func ValidationIssues(ctx context.Context, o *model.Order, resolve ClientResolver) ([]string, error) {
	var issues []string

	if o.CustomerRef == "" {
		issues = append(issues, "customer reference is empty")
	} else if resolve != nil {
		known, err := resolve(ctx, o.WarehouseID, o.CustomerRef)
		if err != nil {
			return nil, err
		}
		if !known {
			issues = append(issues, "customer reference is not a known remote customer")
		}
	}

	if o.WarehouseID == "" {
		issues = append(issues, "warehouse is missing")
	}
	if o.TotalAmount <= 0 {
		issues = append(issues, "total amount must be positive")
	}
	if len(o.Items) == 0 {
		issues = append(issues, "order has no items")
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			issues = append(issues, "item "+it.ProductRef+": quantity must be positive")
		}
		if it.UnitPrice < 0 {
			issues = append(issues, "item "+it.ProductRef+": unit price is negative")
		}
	}

	return issues, nil
}

// Validate wraps ValidationIssues into a fatal validation error, or nil.
func Validate(ctx context.Context, o *model.Order, resolve ClientResolver) error {
	issues, err := ValidationIssues(ctx, o, resolve)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return apperr.New(apperr.KindValidation, strings.Join(issues, "; "))
	}
	return nil
}

// ToRemoteHeader maps a local order to the header wire shape. Local-only
// fields (local id, statuses, sync key) are stripped; the remote side always
// receives status "pending".
func ToRemoteHeader(o *model.Order, actorID string) *remote.OrderHeaderPayload {
	return &remote.OrderHeaderPayload{
		CustomerRef: o.CustomerRef,
		WarehouseID: o.WarehouseID,
		TotalAmount: o.TotalAmount,
		Notes:       o.Notes,
		ActorID:     actorID,
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
		Status:      model.OrderStatusPending,
	}
}

// ToRemoteItems maps order lines to the item wire shape, attaching the
// backend order id and dropping cached display fields.
func ToRemoteItems(items []model.OrderItem, remoteOrderID string) []remote.OrderItemPayload {
	out := make([]remote.OrderItemPayload, 0, len(items))
	for _, it := range items {
		out = append(out, remote.OrderItemPayload{
			OrderID:    remoteOrderID,
			ProductRef: it.ProductRef,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return out
}
