package usecase

import (
	"context"

	"github.com/fekuna/omnipos-field-sync/internal/catalog"
	"github.com/fekuna/omnipos-field-sync/internal/model"
	"go.uber.org/zap"
)

type catalogUseCase struct {
	repo    catalog.Repository
	fetcher catalog.Fetcher
	logger  *zap.Logger
}

func NewCatalogUseCase(repo catalog.Repository, fetcher catalog.Fetcher, log *zap.Logger) catalog.UseCase {
	return &catalogUseCase{
		repo:    repo,
		fetcher: fetcher,
		logger:  log,
	}
}

func (uc *catalogUseCase) RefreshProducts(ctx context.Context, warehouseID string) (int, error) {
	products, err := uc.fetcher.FetchProducts(ctx, warehouseID)
	if err != nil {
		return 0, err
	}
	if err := uc.repo.ReplaceProducts(ctx, warehouseID, products); err != nil {
		return 0, err
	}

	uc.logger.Info("product cache refreshed",
		zap.String("warehouse_id", warehouseID),
		zap.Int("count", len(products)))
	return len(products), nil
}

func (uc *catalogUseCase) RefreshClients(ctx context.Context, warehouseID string) (int, error) {
	clients, err := uc.fetcher.FetchClients(ctx, warehouseID)
	if err != nil {
		return 0, err
	}
	if err := uc.repo.ReplaceClients(ctx, warehouseID, clients); err != nil {
		return 0, err
	}

	uc.logger.Info("client cache refreshed",
		zap.String("warehouse_id", warehouseID),
		zap.Int("count", len(clients)))
	return len(clients), nil
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, warehouseID string) ([]model.CachedProduct, error) {
	return uc.repo.FindProducts(ctx, warehouseID)
}

func (uc *catalogUseCase) ListClients(ctx context.Context, warehouseID string) ([]model.CachedClient, error) {
	return uc.repo.FindClients(ctx, warehouseID)
}

func (uc *catalogUseCase) ResolveClient(ctx context.Context, warehouseID, clientRef string) (bool, error) {
	return uc.repo.HasClientRef(ctx, warehouseID, clientRef)
}
