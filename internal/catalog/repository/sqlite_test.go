package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/pkg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sqlite.Open(&sqlite.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.InitSchema(db))
	return NewSQLiteRepository(db)
}

func TestReplaceProductsIsWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceProducts(ctx, "WH-1", []model.CachedProduct{
		{ProductRef: "P-1", Name: "Beans", Code: "B-01", UnitPrice: 10},
		{ProductRef: "P-2", Name: "Milk", Code: "M-01", UnitPrice: 5},
	}))

	// A second refresh fully supersedes the first.
	require.NoError(t, repo.ReplaceProducts(ctx, "WH-1", []model.CachedProduct{
		{ProductRef: "P-3", Name: "Rice", Code: "R-01", UnitPrice: 7.5},
	}))

	products, err := repo.FindProducts(ctx, "WH-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "P-3", products[0].ProductRef)
	assert.InDelta(t, 7.5, products[0].UnitPrice, 0.001)
	assert.False(t, products[0].RefreshedAt.IsZero())
}

func TestReplaceProductsScopedToWarehouse(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceProducts(ctx, "WH-1", []model.CachedProduct{
		{ProductRef: "P-1", Name: "Beans"},
	}))
	require.NoError(t, repo.ReplaceProducts(ctx, "WH-2", []model.CachedProduct{
		{ProductRef: "P-9", Name: "Flour"},
	}))

	// Refreshing one warehouse leaves the other untouched.
	require.NoError(t, repo.ReplaceProducts(ctx, "WH-1", nil))

	products, err := repo.FindProducts(ctx, "WH-1")
	require.NoError(t, err)
	assert.Empty(t, products)

	products, err = repo.FindProducts(ctx, "WH-2")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "P-9", products[0].ProductRef)
}

func TestReplaceClientsAndLookup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceClients(ctx, "WH-1", []model.CachedClient{
		{ClientRef: "CUST-1", Name: "Corner Shop", Address: "12 Main St"},
		{ClientRef: "CUST-2", Name: "Bakery"},
	}))

	clients, err := repo.FindClients(ctx, "WH-1")
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Bakery", clients[0].Name, "listed in name order")

	ok, err := repo.HasClientRef(ctx, "WH-1", "CUST-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasClientRef(ctx, "WH-1", "CUST-99")
	require.NoError(t, err)
	assert.False(t, ok)

	// Known ref, wrong warehouse.
	ok, err = repo.HasClientRef(ctx, "WH-2", "CUST-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
