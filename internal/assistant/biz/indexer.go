package biz

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kart-io/logger"

	"github.com/mercora/volt/internal/assistant/store"
	"github.com/mercora/volt/internal/model"
	"github.com/mercora/volt/pkg/errors"
	"github.com/mercora/volt/pkg/llm"
)

// IndexerConfig configures catalog indexing.
type IndexerConfig struct {
	// Collection is the target vector collection.
	Collection string
	// Dimension must match the embedding model's output size.
	Dimension int
	// BatchSize bounds how many products are embedded per call.
	BatchSize int
}

// Indexer renders catalog products into retrievable text and writes
// their embeddings to the vector store.
type Indexer struct {
	store         store.VectorStore
	catalog       store.CatalogStore
	embedProvider llm.EmbeddingProvider
	config        *IndexerConfig
}

// NewIndexer creates the catalog indexer.
func NewIndexer(vectorStore store.VectorStore, catalog store.CatalogStore, embedProvider llm.EmbeddingProvider, config *IndexerConfig) *Indexer {
	if config.BatchSize <= 0 {
		config.BatchSize = 32
	}
	return &Indexer{
		store:         vectorStore,
		catalog:       catalog,
		embedProvider: embedProvider,
		config:        config,
	}
}

// EnsureCollection creates the vector collection if needed.
func (ix *Indexer) EnsureCollection(ctx context.Context) error {
	return ix.store.CreateCollection(ctx, &store.CollectionConfig{
		Name:        ix.config.Collection,
		Description: "Mercora product catalog index",
		Dimension:   ix.config.Dimension,
	})
}

// IndexCatalog embeds every active product and writes it to the vector
// store. Returns the number of products indexed.
func (ix *Indexer) IndexCatalog(ctx context.Context) (int, error) {
	products, err := ix.catalog.ListActive(ctx, "", 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(products) == 0 {
		return 0, nil
	}

	indexed := 0
	for start := 0; start < len(products); start += ix.config.BatchSize {
		end := start + ix.config.BatchSize
		if end > len(products) {
			end = len(products)
		}
		batch := products[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = RenderProduct(&p)
		}

		embeddings, err := ix.embedProvider.Embed(ctx, texts)
		if err != nil {
			return indexed, errors.ErrUpstreamUnavailable.WithMessage("embedding batch failed").Wrap(err)
		}
		if len(embeddings) != len(batch) {
			return indexed, fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(batch))
		}

		entries := make([]*store.ProductEntry, len(batch))
		for i, p := range batch {
			entries[i] = &store.ProductEntry{
				ProductID: p.ID,
				Name:      p.Name,
				Content:   texts[i],
				Embedding: embeddings[i],
			}
		}

		if _, err := ix.store.Insert(ctx, ix.config.Collection, entries); err != nil {
			return indexed, fmt.Errorf("failed to write batch: %w", err)
		}
		indexed += len(batch)
		logger.Infow("indexed product batch", "batch", len(batch), "total", indexed)
	}
	return indexed, nil
}

// RenderProduct flattens a product into the text that gets embedded and
// later surfaces as a retrieval snippet. The id line keeps the snippet
// traceable back to the catalog.
func RenderProduct(p *model.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s (id %d)\n", p.Name, p.ID)
	if p.ShortDescription != "" {
		fmt.Fprintf(&b, "%s\n", p.ShortDescription)
	}
	if len(p.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(p.Categories, ", "))
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	if len(p.UseCases) > 0 {
		fmt.Fprintf(&b, "Good for: %s\n", strings.Join(p.UseCases, ", "))
	}
	if len(p.Attributes) > 0 {
		keys := make([]string, 0, len(p.Attributes))
		for k := range p.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, p.Attributes[k])
		}
	}
	price := p.EffectivePrice()
	if p.OnSale && p.SalePrice != nil {
		fmt.Fprintf(&b, "Price: $%.2f (on sale, was $%.2f)\n", float64(price)/100, float64(p.Price)/100)
	} else {
		fmt.Fprintf(&b, "Price: $%.2f\n", float64(price)/100)
	}
	if p.AINotes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", p.AINotes)
	}
	return strings.TrimSpace(b.String())
}
