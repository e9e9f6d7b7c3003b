package catalog

import (
	"context"

	"github.com/fekuna/omnipos-field-sync/internal/model"
)

// Repository stores the read-mostly catalog mirrors. A replace swaps out the
// whole warehouse slice; partial merges are never done.
type Repository interface {
	ReplaceProducts(ctx context.Context, warehouseID string, products []model.CachedProduct) error
	ReplaceClients(ctx context.Context, warehouseID string, clients []model.CachedClient) error
	FindProducts(ctx context.Context, warehouseID string) ([]model.CachedProduct, error)
	FindClients(ctx context.Context, warehouseID string) ([]model.CachedClient, error)

	// HasClientRef reports whether the ref is a remote-known customer for
	// the warehouse. Used to validate orders before transmission.
	HasClientRef(ctx context.Context, warehouseID, clientRef string) (bool, error)
}
