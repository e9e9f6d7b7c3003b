package session

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/model"
)

type UseCase interface {
	SignIn(ctx context.Context, userID, warehouseID string, expiresAt time.Time) error
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (*model.Session, error)
}

// AuthSetter is implemented by the connectivity/auth monitor.
type AuthSetter interface {
	SetAuthenticated(ok bool)
}
