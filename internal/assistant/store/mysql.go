package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mercora/volt/internal/model"
)

// datastore wraps the shared gorm handle for catalog and order reads.
type datastore struct {
	db *gorm.DB
}

var _ CatalogStore = (*datastore)(nil)
var _ OrderStore = (*datastore)(nil)

// NewDatastore creates the catalog/order store on an existing gorm handle.
func NewDatastore(db *gorm.DB) *datastore {
	return &datastore{db: db}
}

// AutoMigrate creates or updates the catalog and order tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	)
}

// GetProductsByIDs batch-resolves ids to active products. The result
// order follows the database, not the input; callers that care about
// input order re-sort on their side.
func (ds *datastore) GetProductsByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []model.Product
	err := ds.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

// GetProductByID returns a single active product, or nil when absent.
func (ds *datastore) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := ds.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query product %d: %w", id, err)
	}
	return &product, nil
}

// ListActive returns active products, optionally restricted to a category.
func (ds *datastore) ListActive(ctx context.Context, category string, limit int) ([]model.Product, error) {
	query := ds.db.WithContext(ctx).Where("active = ?", true)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var products []model.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if category == "" {
		return products, nil
	}

	// Categories live in a JSON column; filter after the scan so the
	// query stays portable across mysql and sqlite.
	filtered := products[:0]
	for _, p := range products {
		for _, c := range p.Categories {
			if c == category {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// GetOrdersByUserID returns order summaries for a user, newest first.
func (ds *datastore) GetOrdersByUserID(ctx context.Context, userID string) ([]model.OrderSummary, error) {
	if userID == "" {
		return nil, nil
	}

	var orders []model.Order
	err := ds.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for user %s: %w", userID, err)
	}

	summaries := make([]model.OrderSummary, 0, len(orders))
	for _, o := range orders {
		summary := model.OrderSummary{
			OrderID:     o.ID,
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt,
		}
		for _, item := range o.Items {
			summary.ProductIDs = append(summary.ProductIDs, item.ProductID)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
