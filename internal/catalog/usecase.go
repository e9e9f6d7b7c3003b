package catalog

import (
	"context"

	"github.com/fekuna/omnipos-field-sync/internal/model"
)

type UseCase interface {
	// RefreshProducts / RefreshClients pull the warehouse slice from the
	// backend and replace the cache wholesale.
	RefreshProducts(ctx context.Context, warehouseID string) (int, error)
	RefreshClients(ctx context.Context, warehouseID string) (int, error)

	ListProducts(ctx context.Context, warehouseID string) ([]model.CachedProduct, error)
	ListClients(ctx context.Context, warehouseID string) ([]model.CachedClient, error)
	ResolveClient(ctx context.Context, warehouseID, clientRef string) (bool, error)
}

// Fetcher is the remote side of a catalog refresh.
type Fetcher interface {
	FetchProducts(ctx context.Context, warehouseID string) ([]model.CachedProduct, error)
	FetchClients(ctx context.Context, warehouseID string) ([]model.CachedClient, error)
}
