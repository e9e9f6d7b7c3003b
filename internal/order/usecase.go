package order

import (
	"context"

	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, localID int64) (*model.Order, error)
	ListByStatus(ctx context.Context, status string) ([]model.Order, error)
	UpdateHeader(ctx context.Context, input *dto.UpdateOrderHeaderInput) (*model.Order, error)
	UpdateItem(ctx context.Context, input *dto.UpdateOrderItemInput) (*model.Order, error)
	PendingCount(ctx context.Context) (int, error)
}

// SyncRequester lets the ordering flow nudge the sync engine right after a
// create, without importing it.
type SyncRequester interface {
	RequestSync()
}
