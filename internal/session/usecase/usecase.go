package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/internal/session"
	"go.uber.org/zap"
)

type sessionUseCase struct {
	repo   session.Repository
	auth   session.AuthSetter
	logger *zap.Logger
}

// NewSessionUseCase builds the session flow. auth may be nil in tests.
func NewSessionUseCase(repo session.Repository, auth session.AuthSetter, log *zap.Logger) session.UseCase {
	return &sessionUseCase{
		repo:   repo,
		auth:   auth,
		logger: log,
	}
}

func (uc *sessionUseCase) SignIn(ctx context.Context, userID, warehouseID string, expiresAt time.Time) error {
	s := &model.Session{
		UserID:      userID,
		WarehouseID: warehouseID,
		ExpiresAt:   expiresAt,
	}
	if err := uc.repo.Save(ctx, s); err != nil {
		return err
	}

	uc.logger.Info("signed in",
		zap.String("user_id", userID),
		zap.String("warehouse_id", warehouseID))

	if uc.auth != nil {
		uc.auth.SetAuthenticated(true)
	}
	return nil
}

func (uc *sessionUseCase) SignOut(ctx context.Context) error {
	if err := uc.repo.Clear(ctx); err != nil {
		return err
	}

	uc.logger.Info("signed out")

	// Local order rows are untouched; they stay queued for the next
	// authenticated session on this device.
	if uc.auth != nil {
		uc.auth.SetAuthenticated(false)
	}
	return nil
}

func (uc *sessionUseCase) Current(ctx context.Context) (*model.Session, error) {
	return uc.repo.Current(ctx)
}
