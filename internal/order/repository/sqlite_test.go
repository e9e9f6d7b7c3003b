package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/fekuna/omnipos-field-sync/internal/order/dto"
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

func newOrder(syncKey string, createdAt time.Time) *model.Order {
	return &model.Order{
		SyncKey:     syncKey,
		CustomerRef: "CUST-1",
		WarehouseID: "WH-1",
		TotalAmount: 25,
		Notes:       "call ahead",
		Status:      model.OrderStatusPending,
		SyncStatus:  model.SyncStatusLocal,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func twoItems() []model.OrderItem {
	return []model.OrderItem{
		{ProductRef: "P-1", ProductName: "Beans", Quantity: 2, UnitPrice: 10, TotalPrice: 20},
		{ProductRef: "P-2", ProductName: "Milk", Quantity: 1, UnitPrice: 5, TotalPrice: 5},
	}
}

// requireInvariants asserts status=processed <=> remoteId present.
func requireInvariants(t *testing.T, o *model.Order) {
	t.Helper()
	if o.Status == model.OrderStatusProcessed {
		require.NotNil(t, o.RemoteID, "processed order %d must carry a remote id", o.LocalID)
	} else {
		require.Nil(t, o.RemoteID, "pending order %d must not carry a remote id", o.LocalID)
	}
}

func TestCreateOrderRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	localID, err := repo.CreateOrder(ctx, newOrder("key-1", now), twoItems())
	require.NoError(t, err)
	assert.Positive(t, localID)

	o, err := repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	requireInvariants(t, o)

	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, model.SyncStatusLocal, o.SyncStatus)
	assert.Equal(t, "key-1", o.SyncKey)
	require.Len(t, o.Items, 2)
	assert.InDelta(t, 25.0, o.TotalAmount, 0.01)
	assert.InDelta(t, model.SumItems(o.Items), o.TotalAmount, 0.01)
	assert.WithinDuration(t, now, o.CreatedAt, time.Second)
}

func TestFindWithItemsNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindWithItems(context.Background(), 12345)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestFindByStatusOrdersByCreation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	// Inserted out of creation order on purpose.
	_, err := repo.CreateOrder(ctx, newOrder("key-b", base.Add(2*time.Minute)), twoItems())
	require.NoError(t, err)
	_, err = repo.CreateOrder(ctx, newOrder("key-a", base), twoItems())
	require.NoError(t, err)

	orders, err := repo.FindByStatus(ctx, model.OrderStatusPending)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "key-a", orders[0].SyncKey)
	assert.Equal(t, "key-b", orders[1].SyncKey)
}

func TestLocalIDsAreMonotonic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	first, err := repo.CreateOrder(ctx, newOrder("key-1", now), twoItems())
	require.NoError(t, err)
	second, err := repo.CreateOrder(ctx, newOrder("key-2", now), twoItems())
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestMarkProcessedSetsRemoteID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	localID, err := repo.CreateOrder(ctx, newOrder("key-1", time.Now().UTC()), twoItems())
	require.NoError(t, err)

	require.NoError(t, repo.MarkProcessed(ctx, localID, "R-1"))

	o, err := repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	requireInvariants(t, o)
	assert.Equal(t, model.OrderStatusProcessed, o.Status)
	assert.Equal(t, model.SyncStatusSynced, o.SyncStatus)
	require.NotNil(t, o.RemoteID)
	assert.Equal(t, "R-1", *o.RemoteID)

	// A second transition is rejected: processed is terminal.
	err = repo.MarkProcessed(ctx, localID, "R-2")
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	err = repo.MarkProcessed(ctx, 9999, "R-3")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateHeaderOnPendingOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	localID, err := repo.CreateOrder(ctx, newOrder("key-1", time.Now().UTC()), twoItems())
	require.NoError(t, err)

	notes := "new notes"
	customer := "CUST-2"
	require.NoError(t, repo.UpdateHeader(ctx, localID, &dto.HeaderPatch{Notes: &notes, CustomerRef: &customer}))

	o, err := repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	assert.Equal(t, "new notes", o.Notes)
	assert.Equal(t, "CUST-2", o.CustomerRef)
	assert.Equal(t, "WH-1", o.WarehouseID, "unpatched fields stay put")
}

func TestUpdateHeaderRejectedOnProcessedOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	localID, err := repo.CreateOrder(ctx, newOrder("key-1", time.Now().UTC()), twoItems())
	require.NoError(t, err)
	require.NoError(t, repo.MarkProcessed(ctx, localID, "R-1"))

	notes := "tamper"
	err = repo.UpdateHeader(ctx, localID, &dto.HeaderPatch{Notes: &notes})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	o, err := repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	assert.Equal(t, "call ahead", o.Notes, "rejected edit must not change state")
}

func TestUpdateItemRecomputesTotals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	localID, err := repo.CreateOrder(ctx, newOrder("key-1", time.Now().UTC()), twoItems())
	require.NoError(t, err)

	o, err := repo.FindWithItems(ctx, localID)
	require.NoError(t, err)

	qty := int64(3)
	require.NoError(t, repo.UpdateItem(ctx, o.Items[0].ID, &dto.ItemPatch{Quantity: &qty}))

	o, err = repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, o.Items[0].TotalPrice, 0.01)
	assert.InDelta(t, 35.0, o.TotalAmount, 0.01)
	assert.InDelta(t, model.SumItems(o.Items), o.TotalAmount, 0.01)
}

func TestUpdateItemRejectedOnProcessedOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	localID, err := repo.CreateOrder(ctx, newOrder("key-1", time.Now().UTC()), twoItems())
	require.NoError(t, err)

	o, err := repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	require.NoError(t, repo.MarkProcessed(ctx, localID, "R-1"))

	qty := int64(9)
	err = repo.UpdateItem(ctx, o.Items[0].ID, &dto.ItemPatch{Quantity: &qty})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	after, err := repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), after.Items[0].Quantity)
	assert.InDelta(t, 25.0, after.TotalAmount, 0.01)
}

func TestSetSyncStatusLeavesProcessedOrdersAlone(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	localID, err := repo.CreateOrder(ctx, newOrder("key-1", time.Now().UTC()), twoItems())
	require.NoError(t, err)

	require.NoError(t, repo.SetSyncStatus(ctx, localID, model.SyncStatusSyncing))
	o, err := repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusSyncing, o.SyncStatus)

	require.NoError(t, repo.MarkProcessed(ctx, localID, "R-1"))
	require.NoError(t, repo.SetSyncStatus(ctx, localID, model.SyncStatusError))

	o, err = repo.FindWithItems(ctx, localID)
	require.NoError(t, err)
	assert.Equal(t, model.SyncStatusSynced, o.SyncStatus)
}

func TestCountByStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	a, err := repo.CreateOrder(ctx, newOrder("key-1", now), twoItems())
	require.NoError(t, err)
	_, err = repo.CreateOrder(ctx, newOrder("key-2", now), twoItems())
	require.NoError(t, err)

	count, err := repo.CountByStatus(ctx, model.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.MarkProcessed(ctx, a, "R-1"))

	count, err = repo.CountByStatus(ctx, model.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
