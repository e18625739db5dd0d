package biz

import (
	"context"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/mercora/volt/internal/assistant/store"
	"github.com/mercora/volt/internal/model"
	"github.com/mercora/volt/pkg/errors"
	"github.com/mercora/volt/pkg/llm"
)

// RetrieverConfig bounds the retrieval stage.
type RetrieverConfig struct {
	// Collection is the vector collection to query.
	Collection string
	// TopK is the number of candidates to fetch. Must be positive.
	TopK int
	// Timeout applies separately to the embed call and the index query.
	Timeout time.Duration
}

// Retriever embeds the question and queries the product vector index.
type Retriever struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	config        *RetrieverConfig
}

// NewRetriever creates the retrieval stage.
func NewRetriever(vectorStore store.VectorStore, embedProvider llm.EmbeddingProvider, config *RetrieverConfig) *Retriever {
	return &Retriever{
		store:         vectorStore,
		embedProvider: embedProvider,
		config:        config,
	}
}

// Retrieve returns up to TopK candidate matches for the question.
// Errors are always UpstreamUnavailable or InvalidInput; the caller
// decides whether an upstream failure degrades or aborts.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]model.CandidateMatch, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.ErrInvalidInput.WithMessage("question must not be empty")
	}
	if r.config.TopK <= 0 {
		return nil, errors.ErrInvalidInput.WithMessage("topK must be positive, got %d", r.config.TopK)
	}

	embedCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	embedding, err := r.embedProvider.EmbedSingle(embedCtx, question)
	if err != nil {
		return nil, errors.ErrUpstreamUnavailable.WithMessage("embedding failed").Wrap(err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	matches, err := r.store.Search(queryCtx, r.config.Collection, embedding, r.config.TopK)
	if err != nil {
		return nil, errors.ErrUpstreamUnavailable.WithMessage("vector query failed").Wrap(err)
	}

	// Zero matches is a valid outcome, not a failure.
	logger.Infow("retrieval complete", "question_len", len(question), "matches", len(matches))
	return matches, nil
}
