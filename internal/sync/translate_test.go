package sync

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-field-sync/internal/apperr"
	"github.com/fekuna/omnipos-field-sync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownClients(refs ...string) ClientResolver {
	set := map[string]bool{}
	for _, r := range refs {
		set[r] = true
	}
	return func(_ context.Context, _ string, ref string) (bool, error) {
		return set[ref], nil
	}
}

func validOrder() *model.Order {
	return &model.Order{
		LocalID:     7,
		SyncKey:     "key-7",
		CustomerRef: "CUST-1",
		WarehouseID: "WH-1",
		TotalAmount: 25,
		Notes:       "leave at gate",
		CreatedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Items: []model.OrderItem{
			{ProductRef: "P-1", ProductName: "Beans", Quantity: 2, UnitPrice: 10, TotalPrice: 20},
			{ProductRef: "P-2", ProductName: "Milk", Quantity: 1, UnitPrice: 5, TotalPrice: 5},
		},
	}
}

func TestValidateAcceptsCompleteOrder(t *testing.T) {
	err := Validate(context.Background(), validOrder(), knownClients("CUST-1"))
	require.NoError(t, err)
}

func TestValidateCollectsAllIssues(t *testing.T) {
	o := &model.Order{
		CustomerRef: "",
		WarehouseID: "",
		TotalAmount: 0,
	}
	issues, err := ValidationIssues(context.Background(), o, nil)
	require.NoError(t, err)
	assert.Len(t, issues, 4) // customer, warehouse, total, no items
}

func TestValidateRejectsUnknownCustomer(t *testing.T) {
	o := validOrder()
	o.CustomerRef = "CUST-UNKNOWN"

	err := Validate(context.Background(), o, knownClients("CUST-1"))
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "not a known remote customer")
}

func TestValidateRejectsBadItems(t *testing.T) {
	o := validOrder()
	o.Items[0].Quantity = 0
	o.Items[1].UnitPrice = -1

	issues, err := ValidationIssues(context.Background(), o, knownClients("CUST-1"))
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestToRemoteHeaderStripsLocalFields(t *testing.T) {
	o := validOrder()
	p := ToRemoteHeader(o, "user-42")

	assert.Equal(t, "CUST-1", p.CustomerRef)
	assert.Equal(t, "WH-1", p.WarehouseID)
	assert.Equal(t, 25.0, p.TotalAmount)
	assert.Equal(t, "user-42", p.ActorID)
	assert.Equal(t, "2026-03-01T09:30:00Z", p.CreatedAt)
	// The remote side always starts from pending regardless of local state.
	assert.Equal(t, model.OrderStatusPending, p.Status)
}

func TestToRemoteItemsAttachesRemoteOrderID(t *testing.T) {
	o := validOrder()
	items := ToRemoteItems(o.Items, "R-99")

	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "R-99", it.OrderID)
	}
	assert.Equal(t, "P-1", items[0].ProductRef)
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.Equal(t, 20.0, items[0].TotalPrice)
}
