package store

import (
	"context"
	"fmt"

	"github.com/mercora/volt/internal/model"
	"github.com/mercora/volt/pkg/component/milvus"
	"github.com/milvus-io/milvus/client/v2/entity"
)

// MilvusStore implements VectorStore on top of the shared Milvus client.
type MilvusStore struct {
	client *milvus.Client
}

// NewMilvusStore creates a Milvus-backed vector store.
func NewMilvusStore(client *milvus.Client) *MilvusStore {
	return &MilvusStore{client: client}
}

// CreateCollection creates the product collection with metadata fields
// for the product id, name and the rendered catalog text.
func (s *MilvusStore) CreateCollection(ctx context.Context, config *CollectionConfig) error {
	schema := &milvus.CollectionSchema{
		Name:        config.Name,
		Description: config.Description,
		Dimension:   config.Dimension,
		MetaFields: []milvus.MetaField{
			{Name: "product_id", DataType: entity.FieldTypeInt64},
			{Name: "product_name", DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: "content", DataType: entity.FieldTypeVarChar, MaxLen: 65535},
		},
	}
	return s.client.CreateCollection(ctx, schema)
}

// Insert writes product entries into the collection.
func (s *MilvusStore) Insert(ctx context.Context, collection string, entries []*ProductEntry) ([]int64, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(entries))
	metadata := map[string][]any{
		"product_id":   make([]any, len(entries)),
		"product_name": make([]any, len(entries)),
		"content":      make([]any, len(entries)),
	}

	for i, e := range entries {
		embeddings[i] = e.Embedding
		metadata["product_id"][i] = e.ProductID
		metadata["product_name"][i] = e.Name
		metadata["content"][i] = e.Content
	}

	data := &milvus.InsertData{
		Embeddings: embeddings,
		Metadata:   metadata,
	}

	ids, err := s.client.Insert(ctx, collection, data)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into milvus: %w", err)
	}
	return ids, nil
}

// Search runs a similarity query and maps hits to candidate matches.
func (s *MilvusStore) Search(ctx context.Context, collection string, embedding []float32, topK int) ([]model.CandidateMatch, error) {
	outputFields := []string{"product_id", "product_name", "content"}
	results, err := s.client.Search(ctx, collection, embedding, topK, outputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	matches := make([]model.CandidateMatch, 0, len(results))
	for _, r := range results {
		match := model.CandidateMatch{
			EntryID: r.ID,
			Score:   r.Score,
		}
		if pid, ok := r.Metadata["product_id"].(int64); ok {
			match.ProductID = pid
		}
		if content, ok := r.Metadata["content"].(string); ok {
			match.Snippet = content
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// GetStats returns the entry count of the collection.
func (s *MilvusStore) GetStats(ctx context.Context, collection string) (int64, error) {
	return s.client.GetCollectionStats(ctx, collection)
}

// Close closes the underlying client.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}
