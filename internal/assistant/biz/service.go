package biz

import (
	"context"
	"strings"

	"github.com/kart-io/logger"

	"github.com/mercora/volt/internal/assistant/metrics"
	"github.com/mercora/volt/internal/assistant/store"
	"github.com/mercora/volt/internal/model"
	"github.com/mercora/volt/pkg/errors"
	"github.com/mercora/volt/pkg/llm"
)

// Service is the assistant's business surface.
type Service interface {
	// Ask runs the chat pipeline for one question.
	Ask(ctx context.Context, query *model.Query) (*AskResult, error)

	// Recommend ranks products for a user, optionally anchored on the
	// product they are viewing or a browsed category.
	Recommend(ctx context.Context, userID string, viewingProductID int64, category string, limit int) ([]model.ScoredProduct, error)

	// IndexCatalog (re)builds the product vector index.
	IndexCatalog(ctx context.Context) (int, error)

	// Stats reports index size.
	Stats(ctx context.Context) (*IndexStats, error)
}

// AskResult is the chat pipeline output: the grounded answer plus the
// updated history for the caller to carry forward.
type AskResult struct {
	Answer  *model.Answer
	History []model.ConversationTurn
}

// IndexStats reports the state of the vector index.
type IndexStats struct {
	Collection string `json:"collection"`
	Entries    int64  `json:"entries"`
}

// ServiceConfig wires the pipeline stages together.
type ServiceConfig struct {
	Retriever *RetrieverConfig
	Assembler *AssemblerConfig
	Generator *GeneratorConfig
	Indexer   *IndexerConfig
}

type service struct {
	retriever *Retriever
	resolver  *Resolver
	assembler *Assembler
	generator *Generator
	ranker    *Ranker
	indexer   *Indexer
	orders    store.OrderStore
	catalog   store.CatalogStore
	vectors   store.VectorStore
	config    *ServiceConfig
	metrics   *metrics.AssistantMetrics
}

// NewService assembles the pipeline from its stores and providers.
func NewService(
	vectors store.VectorStore,
	catalog store.CatalogStore,
	orders store.OrderStore,
	embedProvider llm.EmbeddingProvider,
	chatProvider llm.ChatProvider,
	config *ServiceConfig,
) Service {
	return &service{
		retriever: NewRetriever(vectors, embedProvider, config.Retriever),
		resolver:  NewResolver(catalog),
		assembler: NewAssembler(config.Assembler),
		generator: NewGenerator(chatProvider, config.Generator),
		ranker:    NewRanker(),
		indexer:   NewIndexer(vectors, catalog, embedProvider, config.Indexer),
		orders:    orders,
		catalog:   catalog,
		vectors:   vectors,
		config:    config,
		metrics:   metrics.GetAssistantMetrics(),
	}
}

// Ask runs the chat pipeline: easter-egg short circuit, retrieval,
// resolution, assembly, generation, grounding. Retrieval failures
// degrade to an empty context and generation failures to a fallback
// answer; only invalid input is an error.
func (s *service) Ask(ctx context.Context, query *model.Query) (*AskResult, error) {
	question := strings.TrimSpace(query.Question)
	if question == "" {
		return nil, errors.ErrInvalidInput.WithMessage("question must not be empty")
	}
	s.metrics.RecordQuestion()

	// The easter egg bypasses every external call and is grounded by
	// construction (empty id list).
	if egg := EasterEggAnswer(question); egg != nil {
		s.metrics.RecordEasterEgg()
		return &AskResult{
			Answer:  egg,
			History: AppendTurns(query.History, question, egg),
		}, nil
	}

	userCtx := s.loadUserContext(ctx, query.UserID)

	matches, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		if errors.ErrInvalidInput.Is(err) {
			return nil, err
		}
		// Degrade to an empty context; the generator still answers.
		logger.Warnw("retrieval degraded to empty context", "error", err.Error())
		s.metrics.RecordRetrievalFailure()
		matches = nil
	}

	resolved, err := s.resolver.Resolve(ctx, matches)
	if err != nil {
		logger.Warnw("candidate resolution degraded to empty context", "error", err.Error())
		s.metrics.RecordRetrievalFailure()
		resolved = &ResolvedCandidateSet{}
		matches = nil
	}

	payload := s.assembler.Assemble(matches, userCtx, query.UserName, query.History)

	draft := s.generator.Generate(ctx, payload, question)
	if draft.Degraded {
		s.metrics.RecordGenerationFallback()
	}

	answer, violations := Ground(draft, resolved)
	if violations > 0 {
		s.metrics.RecordGroundingViolations(violations)
	}

	return &AskResult{
		Answer:  answer,
		History: AppendTurns(query.History, question, answer),
	}, nil
}

// Recommend loads candidates and order history, then runs the scorer.
func (s *service) Recommend(ctx context.Context, userID string, viewingProductID int64, category string, limit int) ([]model.ScoredProduct, error) {
	candidates, err := s.catalog.ListActive(ctx, category, 0)
	if err != nil {
		return nil, errors.ErrUpstreamUnavailable.WithMessage("catalog unavailable").Wrap(err)
	}

	var viewing *model.Product
	if viewingProductID > 0 {
		viewing, err = s.catalog.GetProductByID(ctx, viewingProductID)
		if err != nil {
			logger.Warnw("viewing product lookup failed", "product_id", viewingProductID, "error", err.Error())
		}
	}

	userCtx := s.loadUserContext(ctx, userID)

	scored := s.ranker.Score(candidates, userCtx, viewing, category)

	// The anchor product itself is not a recommendation.
	if viewing != nil {
		filtered := scored[:0]
		for _, sp := range scored {
			if sp.Product.ID != viewing.ID {
				filtered = append(filtered, sp)
			}
		}
		scored = filtered
	}

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	s.metrics.RecordRecommendation()
	return scored, nil
}

// IndexCatalog rebuilds the vector index from the live catalog.
func (s *service) IndexCatalog(ctx context.Context) (int, error) {
	if err := s.indexer.EnsureCollection(ctx); err != nil {
		return 0, err
	}
	n, err := s.indexer.IndexCatalog(ctx)
	if err == nil {
		s.metrics.RecordIndexed(n)
	}
	return n, err
}

// Stats reports the current index size.
func (s *service) Stats(ctx context.Context) (*IndexStats, error) {
	entries, err := s.vectors.GetStats(ctx, s.config.Retriever.Collection)
	if err != nil {
		return nil, errors.ErrUpstreamUnavailable.WithMessage("index stats unavailable").Wrap(err)
	}
	return &IndexStats{
		Collection: s.config.Retriever.Collection,
		Entries:    entries,
	}, nil
}

// loadUserContext derives personalization inputs from order history.
// Failures degrade to an anonymous context.
func (s *service) loadUserContext(ctx context.Context, userID string) *model.UserContext {
	if userID == "" || s.orders == nil {
		return nil
	}
	orders, err := s.orders.GetOrdersByUserID(ctx, userID)
	if err != nil {
		logger.Warnw("order history unavailable, personalization skipped", "user_id", userID, "error", err.Error())
		return nil
	}
	return BuildUserContext(userID, orders)
}
