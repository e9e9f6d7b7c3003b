package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, s *model.Session) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO session (id, user_id, warehouse_id, expires_at)
        VALUES (1, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            user_id = excluded.user_id,
            warehouse_id = excluded.warehouse_id,
            expires_at = excluded.expires_at`,
		s.UserID, s.WarehouseID, s.ExpiresAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "save session", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return apperr.Wrap(apperr.KindStorage, "clear session", err)
	}
	return nil
}

func (r *SQLiteRepository) Current(ctx context.Context) (*model.Session, error) {
	var row struct {
		UserID      string `db:"user_id"`
		WarehouseID string `db:"warehouse_id"`
		ExpiresAt   string `db:"expires_at"`
	}
	err := r.DB.GetContext(ctx, &row, `SELECT user_id, warehouse_id, expires_at FROM session WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "query session", err)
	}

	s := &model.Session{UserID: row.UserID, WarehouseID: row.WarehouseID}
	if t, err := time.Parse(time.RFC3339Nano, row.ExpiresAt); err == nil {
		s.ExpiresAt = t
	}
	return s, nil
}
