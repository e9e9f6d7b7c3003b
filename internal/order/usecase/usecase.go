package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/internal/order"
	"github.com/fekuna/omnipos-field-sync/internal/order/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo      order.Repository
	requester order.SyncRequester
	logger    *zap.Logger
}

// NewOrderUseCase builds the ordering flow. requester may be nil when no
// sync engine is attached (tests, import tools).
func NewOrderUseCase(repo order.Repository, requester order.SyncRequester, log *zap.Logger) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		requester: requester,
		logger:    log,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "order needs at least one item")
	}
	for _, it := range input.Items {
		if it.Quantity < 1 {
			return nil, apperr.Newf(apperr.KindValidation, "item %s: quantity must be >= 1", it.ProductRef)
		}
		if it.UnitPrice < 0 {
			return nil, apperr.Newf(apperr.KindValidation, "item %s: unit price must be >= 0", it.ProductRef)
		}
	}

	now := time.Now().UTC()
	items := make([]model.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, model.OrderItem{
			ProductRef:  it.ProductRef,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  model.RoundAmount(float64(it.Quantity) * it.UnitPrice),
		})
	}

	o := &model.Order{
		SyncKey:     uuid.New().String(),
		CustomerRef: input.CustomerRef,
		WarehouseID: input.WarehouseID,
		TotalAmount: model.SumItems(items),
		Notes:       input.Notes,
		Status:      model.OrderStatusPending,
		SyncStatus:  model.SyncStatusLocal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	localID, err := uc.repo.CreateOrder(ctx, o, items)
	if err != nil {
		return nil, err
	}
	o.LocalID = localID
	o.Items = items

	uc.logger.Info("order created",
		zap.Int64("local_id", localID),
		zap.String("customer_ref", o.CustomerRef),
		zap.Float64("total", o.TotalAmount))

	// Push the common single-order case as soon as it exists.
	if uc.requester != nil {
		uc.requester.RequestSync()
	}

	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, localID int64) (*model.Order, error) {
	return uc.repo.FindWithItems(ctx, localID)
}

func (uc *orderUseCase) ListByStatus(ctx context.Context, status string) ([]model.Order, error) {
	return uc.repo.FindByStatus(ctx, status)
}

func (uc *orderUseCase) UpdateHeader(ctx context.Context, input *dto.UpdateOrderHeaderInput) (*model.Order, error) {
	patch := &dto.HeaderPatch{
		CustomerRef: input.CustomerRef,
		WarehouseID: input.WarehouseID,
		Notes:       input.Notes,
	}
	if err := uc.repo.UpdateHeader(ctx, input.LocalID, patch); err != nil {
		return nil, err
	}
	return uc.repo.FindWithItems(ctx, input.LocalID)
}

func (uc *orderUseCase) UpdateItem(ctx context.Context, input *dto.UpdateOrderItemInput) (*model.Order, error) {
	if input.Quantity != nil && *input.Quantity < 1 {
		return nil, apperr.New(apperr.KindValidation, "quantity must be >= 1")
	}
	if input.UnitPrice != nil && *input.UnitPrice < 0 {
		return nil, apperr.New(apperr.KindValidation, "unit price must be >= 0")
	}

	patch := &dto.ItemPatch{
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
	}
	if err := uc.repo.UpdateItem(ctx, input.ItemID, patch); err != nil {
		return nil, err
	}
	return uc.repo.FindWithItems(ctx, input.LocalID)
}

func (uc *orderUseCase) PendingCount(ctx context.Context) (int, error) {
	return uc.repo.CountByStatus(ctx, model.OrderStatusPending)
}
