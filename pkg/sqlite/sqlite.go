// Package sqlite opens the device-local database used for the order queue,
// the cached catalog and the session row.
//
// The database runs embedded (ncruces/go-sqlite3, no cgo) with WAL enabled
// so UI reads stay cheap while the sync engine writes.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open creates (if needed) and opens the database at cfg.Path.
// The caller must Close() the returned handle.
func Open(cfg *Config) (*sqlx.DB, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", fmt.Sprintf("file:%s", cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return db, nil
}

// InitSchema creates the five local collections. Idempotent.
func InitSchema(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		local_id INTEGER PRIMARY KEY AUTOINCREMENT,
		remote_id TEXT,
		sync_key TEXT NOT NULL UNIQUE,
		customer_ref TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		total_amount REAL NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		sync_status TEXT NOT NULL DEFAULT 'local',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_local_id INTEGER NOT NULL,
		product_ref TEXT NOT NULL,
		product_name TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL,
		unit_price REAL NOT NULL,
		total_price REAL NOT NULL,
		FOREIGN KEY (order_local_id) REFERENCES orders(local_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS cached_products (
		warehouse_id TEXT NOT NULL,
		product_ref TEXT NOT NULL,
		name TEXT NOT NULL,
		code TEXT NOT NULL DEFAULT '',
		unit_price REAL NOT NULL DEFAULT 0,
		refreshed_at TEXT NOT NULL,
		PRIMARY KEY (warehouse_id, product_ref)
	);

	CREATE TABLE IF NOT EXISTS cached_clients (
		warehouse_id TEXT NOT NULL,
		client_ref TEXT NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		refreshed_at TEXT NOT NULL,
		PRIMARY KEY (warehouse_id, client_ref)
	);

	-- Singleton: id is always 1.
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		user_id TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);
	CREATE INDEX IF NOT EXISTS idx_items_order ON order_items(order_local_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
