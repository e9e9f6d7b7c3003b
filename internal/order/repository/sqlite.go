package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

// orderRow mirrors the orders table. Timestamps are stored as RFC3339 text,
// so they are scanned as strings and parsed explicitly.
type orderRow struct {
	LocalID     int64          `db:"local_id"`
	RemoteID    sql.NullString `db:"remote_id"`
	SyncKey     string         `db:"sync_key"`
	CustomerRef string         `db:"customer_ref"`
	WarehouseID string         `db:"warehouse_id"`
	TotalAmount float64        `db:"total_amount"`
	Notes       string         `db:"notes"`
	Status      string         `db:"status"`
	SyncStatus  string         `db:"sync_status"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (r orderRow) toModel() model.Order {
	o := model.Order{
		LocalID:     r.LocalID,
		SyncKey:     r.SyncKey,
		CustomerRef: r.CustomerRef,
		WarehouseID: r.WarehouseID,
		TotalAmount: r.TotalAmount,
		Notes:       r.Notes,
		Status:      r.Status,
		SyncStatus:  r.SyncStatus,
	}
	if r.RemoteID.Valid {
		id := r.RemoteID.String
		o.RemoteID = &id
	}
	if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		o.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, r.UpdatedAt); err == nil {
		o.UpdatedAt = t
	}
	return o
}

func (r *SQLiteRepository) CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) (int64, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStorage, "begin create order", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (
            remote_id, sync_key, customer_ref, warehouse_id, total_amount,
            notes, status, sync_status, created_at, updated_at
        ) VALUES (NULL, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.SyncKey,
		o.CustomerRef,
		o.WarehouseID,
		o.TotalAmount,
		o.Notes,
		model.OrderStatusPending,
		model.SyncStatusLocal,
		o.CreatedAt.Format(time.RFC3339Nano),
		o.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStorage, "insert order header", err)
	}

	localID, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStorage, "read local id", err)
	}

	for i := range items {
		it := &items[i]
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO order_items (order_local_id, product_ref, product_name, quantity, unit_price, total_price)
            VALUES (?, ?, ?, ?, ?, ?)`,
			localID, it.ProductRef, it.ProductName, it.Quantity, it.UnitPrice, it.TotalPrice,
		); err != nil {
			return 0, apperr.Wrap(apperr.KindStorage, "insert order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.Wrap(apperr.KindStorage, "commit create order", err)
	}
	return localID, nil
}

func (r *SQLiteRepository) FindByStatus(ctx context.Context, status string) ([]model.Order, error) {
	var rows []orderRow
	err := r.DB.SelectContext(ctx, &rows, `
        SELECT * FROM orders WHERE status = ? ORDER BY created_at ASC, local_id ASC`, status)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "query orders by status", err)
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, nil
}

func (r *SQLiteRepository) FindWithItems(ctx context.Context, localID int64) (*model.Order, error) {
	var row orderRow
	err := r.DB.GetContext(ctx, &row, `SELECT * FROM orders WHERE local_id = ? LIMIT 1`, localID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", localID)
		}
		return nil, apperr.Wrap(apperr.KindStorage, "query order", err)
	}

	o := row.toModel()
	if err := r.DB.SelectContext(ctx, &o.Items, `
        SELECT id, order_local_id, product_ref, product_name, quantity, unit_price, total_price
        FROM order_items WHERE order_local_id = ? ORDER BY id ASC`, localID); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "query order items", err)
	}
	return &o, nil
}

func (r *SQLiteRepository) UpdateHeader(ctx context.Context, localID int64, patch *dto.HeaderPatch) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "begin update header", err)
	}
	defer tx.Rollback()

	status, err := lockOrderStatus(ctx, tx, localID)
	if err != nil {
		return err
	}
	if status != model.OrderStatusPending {
		return apperr.Newf(apperr.KindConflict, "order %d is processed and cannot be edited", localID)
	}

	if _, err := tx.ExecContext(ctx, `
        UPDATE orders SET
            customer_ref = COALESCE(?, customer_ref),
            warehouse_id = COALESCE(?, warehouse_id),
            notes        = COALESCE(?, notes),
            updated_at   = ?
        WHERE local_id = ?`,
		patch.CustomerRef, patch.WarehouseID, patch.Notes,
		time.Now().UTC().Format(time.RFC3339Nano), localID,
	); err != nil {
		return apperr.Wrap(apperr.KindStorage, "update order header", err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindStorage, "commit update header", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateItem(ctx context.Context, itemID int64, patch *dto.ItemPatch) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "begin update item", err)
	}
	defer tx.Rollback()

	var it model.OrderItem
	err = tx.GetContext(ctx, &it, `
        SELECT id, order_local_id, product_ref, product_name, quantity, unit_price, total_price
        FROM order_items WHERE id = ? LIMIT 1`, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Newf(apperr.KindNotFound, "order item %d not found", itemID)
		}
		return apperr.Wrap(apperr.KindStorage, "query order item", err)
	}

	status, err := lockOrderStatus(ctx, tx, it.OrderLocalID)
	if err != nil {
		return err
	}
	if status != model.OrderStatusPending {
		return apperr.Newf(apperr.KindConflict, "order %d is processed and cannot be edited", it.OrderLocalID)
	}

	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		it.UnitPrice = *patch.UnitPrice
	}
	it.TotalPrice = model.RoundAmount(float64(it.Quantity) * it.UnitPrice)

	if _, err := tx.ExecContext(ctx, `
        UPDATE order_items SET quantity = ?, unit_price = ?, total_price = ? WHERE id = ?`,
		it.Quantity, it.UnitPrice, it.TotalPrice, it.ID,
	); err != nil {
		return apperr.Wrap(apperr.KindStorage, "update order item", err)
	}

	// Keep the header total consistent with the items in the same transaction.
	if _, err := tx.ExecContext(ctx, `
        UPDATE orders SET
            total_amount = ROUND((SELECT COALESCE(SUM(total_price), 0) FROM order_items WHERE order_local_id = ?), 2),
            updated_at = ?
        WHERE local_id = ?`,
		it.OrderLocalID, time.Now().UTC().Format(time.RFC3339Nano), it.OrderLocalID,
	); err != nil {
		return apperr.Wrap(apperr.KindStorage, "recompute order total", err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindStorage, "commit update item", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkProcessed(ctx context.Context, localID int64, remoteID string) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE orders SET
            status = ?, sync_status = ?, remote_id = ?, updated_at = ?
        WHERE local_id = ? AND status = ?`,
		model.OrderStatusProcessed,
		model.SyncStatusSynced,
		remoteID,
		time.Now().UTC().Format(time.RFC3339Nano),
		localID,
		model.OrderStatusPending,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "mark order processed", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "mark order processed", err)
	}
	if n == 0 {
		// Either the order doesn't exist or it was already processed.
		var status string
		err := r.DB.GetContext(ctx, &status, `SELECT status FROM orders WHERE local_id = ?`, localID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Newf(apperr.KindNotFound, "order %d not found", localID)
		}
		if err != nil {
			return apperr.Wrap(apperr.KindStorage, "check order status", err)
		}
		return apperr.Newf(apperr.KindConflict, "order %d already processed", localID)
	}
	return nil
}

func (r *SQLiteRepository) SetSyncStatus(ctx context.Context, localID int64, syncStatus string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE orders SET sync_status = ? WHERE local_id = ? AND status = ?`,
		syncStatus, localID, model.OrderStatusPending)
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, "set sync status", err)
	}
	return nil
}

func (r *SQLiteRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE status = ?`, status)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindStorage, "count orders", err)
	}
	return count, nil
}

// lockOrderStatus reads the order status inside the transaction, mapping a
// missing row to not-found.
func lockOrderStatus(ctx context.Context, tx *sqlx.Tx, localID int64) (string, error) {
	var status string
	err := tx.GetContext(ctx, &status, `SELECT status FROM orders WHERE local_id = ?`, localID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.Newf(apperr.KindNotFound, "order %d not found", localID)
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindStorage, "query order status", err)
	}
	return status, nil
}
