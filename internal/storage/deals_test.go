package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealstack/dealstack/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// Helper function to create test deals.
func createTestDeals(count int) []model.Deal {
	deals := make([]model.Deal, count)
	for i := 0; i < count; i++ {
		price := float64(i+1) * 2.50
		deals[i] = model.Deal{
			Retailer:      "Shoppers Drug Mart",
			Province:      "BC",
			Brand:         fmt.Sprintf("Brand%d", i%3),
			Name:          fmt.Sprintf("Product %d", i+1),
			Price:         &price,
			LoyaltyPoints: (i + 1) * 1000,
			SaveText:      "Save 20%",
			SaveNumeric:   20,
			ValidFrom:     "2026-01-01",
			ValidTo:       "2026-01-31",
			ExpiryLabel:   "In 6 days",
			Extra:         map[string]any{"Save %": "Save 20%", "has_Expired": "FALSE"},
		}
	}
	return deals
}

func TestReplaceDeals_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	deals := createTestDeals(5)

	require.NoError(t, store.ReplaceDeals(ctx, "data/data.json", deals))

	got, err := store.GetDeals(ctx)
	require.NoError(t, err)
	require.Len(t, got, 5)

	// Input order survives the cache.
	assert.Equal(t, "Product 1", got[0].Name)
	assert.Equal(t, "Product 5", got[4].Name)

	// Every canonical field round-trips, pass-through included.
	assert.Equal(t, deals[0].LoyaltyPoints, got[0].LoyaltyPoints)
	require.NotNil(t, got[0].Price)
	assert.InDelta(t, 2.50, *got[0].Price, 0.001)
	assert.Equal(t, "FALSE", got[0].Extra["has_Expired"])
}

func TestReplaceDeals_SwapsPreviousLoad(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceDeals(ctx, "old.json", createTestDeals(10)))
	require.NoError(t, store.ReplaceDeals(ctx, "new.json", createTestDeals(3)))

	count, err := store.DealCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	last, err := store.GetLastLoad(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "new.json", last.Source)
	assert.Equal(t, 3, last.RecordCount)
}

func TestReplaceDeals_RejectsEmptyLoad(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceDeals(ctx, "data.json", createTestDeals(2)))

	err := store.ReplaceDeals(ctx, "data.json", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptySlice))

	// The previous load must survive the rejected replace.
	count, err := store.DealCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetDeals_NilPrice(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	deals := createTestDeals(1)
	deals[0].Price = nil
	require.NoError(t, store.ReplaceDeals(ctx, "data.json", deals))

	got, err := store.GetDeals(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Price, "an unparseable price stays nil through the cache")
}

func TestGetLastLoad_EmptyCache(t *testing.T) {
	store := createTestStorage(t)

	last, err := store.GetLastLoad(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}
