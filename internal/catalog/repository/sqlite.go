package repository

import (
	"context"
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

func (r *SQLiteRepository) ReplaceProducts(ctx context.Context, warehouseID string, products []model.CachedProduct) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "begin replace products", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_products WHERE warehouse_id = ?`, warehouseID); err != nil {
		return apperr.Wrap(apperr.KindStorage, "clear cached products", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, p := range products {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO cached_products (warehouse_id, product_ref, name, code, unit_price, refreshed_at)
            VALUES (?, ?, ?, ?, ?, ?)`,
			warehouseID, p.ProductRef, p.Name, p.Code, p.UnitPrice, now,
		); err != nil {
			return apperr.Wrap(apperr.KindStorage, "insert cached product", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindStorage, "commit replace products", err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceClients(ctx context.Context, warehouseID string, clients []model.CachedClient) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "begin replace clients", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cached_clients WHERE warehouse_id = ?`, warehouseID); err != nil {
		return apperr.Wrap(apperr.KindStorage, "clear cached clients", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, c := range clients {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO cached_clients (warehouse_id, client_ref, name, address, refreshed_at)
            VALUES (?, ?, ?, ?, ?)`,
			warehouseID, c.ClientRef, c.Name, c.Address, now,
		); err != nil {
			return apperr.Wrap(apperr.KindStorage, "insert cached client", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindStorage, "commit replace clients", err)
	}
	return nil
}

type productRow struct {
	WarehouseID string  `db:"warehouse_id"`
	ProductRef  string  `db:"product_ref"`
	Name        string  `db:"name"`
	Code        string  `db:"code"`
	UnitPrice   float64 `db:"unit_price"`
	RefreshedAt string  `db:"refreshed_at"`
}

type clientRow struct {
	WarehouseID string `db:"warehouse_id"`
	ClientRef   string `db:"client_ref"`
	Name        string `db:"name"`
	Address     string `db:"address"`
	RefreshedAt string `db:"refreshed_at"`
}

func (r *SQLiteRepository) FindProducts(ctx context.Context, warehouseID string) ([]model.CachedProduct, error) {
	var rows []productRow
	err := r.DB.SelectContext(ctx, &rows, `
        SELECT * FROM cached_products WHERE warehouse_id = ? ORDER BY name ASC`, warehouseID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "query cached products", err)
	}

	products := make([]model.CachedProduct, 0, len(rows))
	for _, row := range rows {
		p := model.CachedProduct{
			WarehouseID: row.WarehouseID,
			ProductRef:  row.ProductRef,
			Name:        row.Name,
			Code:        row.Code,
			UnitPrice:   row.UnitPrice,
		}
		if t, err := time.Parse(time.RFC3339Nano, row.RefreshedAt); err == nil {
			p.RefreshedAt = t
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *SQLiteRepository) FindClients(ctx context.Context, warehouseID string) ([]model.CachedClient, error) {
	var rows []clientRow
	err := r.DB.SelectContext(ctx, &rows, `
        SELECT * FROM cached_clients WHERE warehouse_id = ? ORDER BY name ASC`, warehouseID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "query cached clients", err)
	}

	clients := make([]model.CachedClient, 0, len(rows))
	for _, row := range rows {
		c := model.CachedClient{
			WarehouseID: row.WarehouseID,
			ClientRef:   row.ClientRef,
			Name:        row.Name,
			Address:     row.Address,
		}
		if t, err := time.Parse(time.RFC3339Nano, row.RefreshedAt); err == nil {
			c.RefreshedAt = t
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func (r *SQLiteRepository) HasClientRef(ctx context.Context, warehouseID, clientRef string) (bool, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `
        SELECT COUNT(*) FROM cached_clients WHERE warehouse_id = ? AND client_ref = ?`,
		warehouseID, clientRef)
	if err != nil {
		return false, apperr.Wrap(apperr.KindStorage, "check client ref", err)
	}
	return count > 0, nil
}
