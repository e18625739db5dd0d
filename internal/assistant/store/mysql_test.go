package store

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mercora/volt/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedProducts(t *testing.T, db *gorm.DB, products ...model.Product) {
	t.Helper()
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func TestGetProductsByIDs(t *testing.T) {
	db := setupTestDB(t)
	ds := NewDatastore(db)

	seedProducts(t, db,
		model.Product{ID: 1, Name: "Trail Runner", Slug: "trail-runner", Price: 12900, Active: true},
		model.Product{ID: 2, Name: "Camp Stove", Slug: "camp-stove", Price: 4900, Active: true},
		model.Product{ID: 3, Name: "Retired Lantern", Slug: "retired-lantern", Price: 1900, Active: false},
	)

	products, err := ds.GetProductsByIDs(context.Background(), []int64{1, 3, 99, 2})
	assert.NoError(t, err)
	assert.Len(t, products, 2)

	ids := []int64{products[0].ID, products[1].ID}
	assert.Contains(t, ids, int64(1))
	assert.Contains(t, ids, int64(2))
}

func TestGetProductsByIDsEmpty(t *testing.T) {
	db := setupTestDB(t)
	ds := NewDatastore(db)

	products, err := ds.GetProductsByIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProductByID(t *testing.T) {
	db := setupTestDB(t)
	ds := NewDatastore(db)

	seedProducts(t, db,
		model.Product{ID: 5, Name: "Dry Bag", Slug: "dry-bag", Price: 2500, Active: true,
			Tags: model.StringList{"waterproof", "storage"}},
		model.Product{ID: 6, Name: "Old Tent", Slug: "old-tent", Price: 9900, Active: false},
	)

	got, err := ds.GetProductByID(context.Background(), 5)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dry Bag", got.Name)
	assert.Equal(t, model.StringList{"waterproof", "storage"}, got.Tags)

	// inactive products are not resolvable
	got, err = ds.GetProductByID(context.Background(), 6)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ds.GetProductByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestListActiveByCategory(t *testing.T) {
	db := setupTestDB(t)
	ds := NewDatastore(db)

	seedProducts(t, db,
		model.Product{ID: 1, Name: "Headlamp", Slug: "headlamp", Price: 3500, Active: true,
			Categories: model.StringList{"lighting", "camping"}},
		model.Product{ID: 2, Name: "Sleeping Pad", Slug: "sleeping-pad", Price: 7900, Active: true,
			Categories: model.StringList{"camping"}},
		model.Product{ID: 3, Name: "Bike Pump", Slug: "bike-pump", Price: 2900, Active: true,
			Categories: model.StringList{"cycling"}},
	)

	products, err := ds.ListActive(context.Background(), "camping", 0)
	assert.NoError(t, err)
	assert.Len(t, products, 2)

	all, err := ds.ListActive(context.Background(), "", 0)
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := ds.ListActive(context.Background(), "", 2)
	assert.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetOrdersByUserID(t *testing.T) {
	db := setupTestDB(t)
	ds := NewDatastore(db)

	older := model.Order{
		ID: 10, UserID: "u-1", TotalAmount: 15800, Status: "completed",
		CreatedAt: time.Now().Add(-48 * time.Hour),
		Items: []model.OrderItem{
			{ProductID: 1, Quantity: 1, UnitPrice: 12900},
			{ProductID: 2, Quantity: 1, UnitPrice: 2900},
		},
	}
	newer := model.Order{
		ID: 11, UserID: "u-1", TotalAmount: 3500, Status: "completed",
		CreatedAt: time.Now().Add(-1 * time.Hour),
		Items: []model.OrderItem{
			{ProductID: 3, Quantity: 1, UnitPrice: 3500},
		},
	}
	other := model.Order{
		ID: 12, UserID: "u-2", TotalAmount: 9900, Status: "completed",
		CreatedAt: time.Now(),
		Items: []model.OrderItem{
			{ProductID: 4, Quantity: 1, UnitPrice: 9900},
		},
	}
	for _, o := range []model.Order{older, newer, other} {
		require.NoError(t, db.Create(&o).Error)
	}

	summaries, err := ds.GetOrdersByUserID(context.Background(), "u-1")
	assert.NoError(t, err)
	require.Len(t, summaries, 2)

	// newest first
	assert.Equal(t, int64(11), summaries[0].OrderID)
	assert.Equal(t, []int64{3}, summaries[0].ProductIDs)
	assert.Equal(t, int64(10), summaries[1].OrderID)
	assert.ElementsMatch(t, []int64{1, 2}, summaries[1].ProductIDs)
}

func TestGetOrdersByUserIDEmptyUser(t *testing.T) {
	db := setupTestDB(t)
	ds := NewDatastore(db)

	summaries, err := ds.GetOrdersByUserID(context.Background(), "")
	assert.NoError(t, err)
	assert.Empty(t, summaries)
}
