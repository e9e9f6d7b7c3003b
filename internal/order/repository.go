package order

import (
	"context"

	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/internal/order/dto"
)

// Repository is the durable order queue. All writes are committed before the
// call returns; a failed call means no partial write is visible.
type Repository interface {
	// CreateOrder persists the header and all items atomically and returns
	// the assigned local id.
	CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) (int64, error)

	// FindByStatus returns headers only, ordered by created_at ascending.
	FindByStatus(ctx context.Context, status string) ([]model.Order, error)

	// FindWithItems returns the header plus its items, or a not-found error.
	FindWithItems(ctx context.Context, localID int64) (*model.Order, error)

	// UpdateHeader patches header fields of a pending order and bumps
	// updated_at. Rejects processed orders with a conflict error.
	UpdateHeader(ctx context.Context, localID int64, patch *dto.HeaderPatch) error

	// UpdateItem patches an item of a pending order and recomputes the item
	// total and the parent order total in the same transaction.
	UpdateItem(ctx context.Context, itemID int64, patch *dto.ItemPatch) error

	// MarkProcessed transitions a pending order to processed/synced with the
	// backend-assigned remote id. This is the only writer of remote_id.
	MarkProcessed(ctx context.Context, localID int64, remoteID string) error

	// SetSyncStatus updates sync_status on a pending order (syncing, error,
	// back to local). Processed orders are left alone.
	SetSyncStatus(ctx context.Context, localID int64, syncStatus string) error

	// CountByStatus counts orders in the given status.
	CountByStatus(ctx context.Context, status string) (int, error)
}
