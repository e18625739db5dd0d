package store

import (
	"context"

	"github.com/mercora/volt/internal/model"
)

// ProductEntry is one indexed catalog document: the rendered text for a
// single product plus its embedding.
type ProductEntry struct {
	ProductID int64
	Name      string
	Content   string
	Embedding []float32
}

// CollectionConfig describes the vector collection backing the index.
type CollectionConfig struct {
	Name        string
	Description string
	Dimension   int
}

// VectorStore is the product vector index.
type VectorStore interface {
	// CreateCollection creates the collection if it does not exist.
	CreateCollection(ctx context.Context, config *CollectionConfig) error

	// Insert writes product entries and returns the generated entry ids.
	Insert(ctx context.Context, collection string, entries []*ProductEntry) ([]int64, error)

	// Search runs a similarity query. An empty result is not an error.
	Search(ctx context.Context, collection string, embedding []float32, topK int) ([]model.CandidateMatch, error)

	// GetStats returns the number of indexed entries.
	GetStats(ctx context.Context, collection string) (int64, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// CatalogStore is the read side of the product catalog.
type CatalogStore interface {
	// GetProductsByIDs batch-resolves ids to active products. Missing or
	// inactive ids are silently excluded.
	GetProductsByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// GetProductByID returns a single active product.
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)

	// ListActive returns active products, optionally filtered by category.
	ListActive(ctx context.Context, category string, limit int) ([]model.Product, error)
}

// OrderStore is the read side of order history.
type OrderStore interface {
	// GetOrdersByUserID returns order summaries for a user, newest first.
	GetOrdersByUserID(ctx context.Context, userID string) ([]model.OrderSummary, error)
}
