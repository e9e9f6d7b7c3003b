package session

import (
	"context"

	"github.com/fekuna/omnipos-field-sync/internal/model"
)

// Repository holds the singleton session row.
type Repository interface {
	// Save overwrites the session row.
	Save(ctx context.Context, s *model.Session) error
	// Clear removes the session row. Idempotent.
	Clear(ctx context.Context) error
	// Current returns the session, or nil when signed out.
	Current(ctx context.Context) (*model.Session, error)
}
