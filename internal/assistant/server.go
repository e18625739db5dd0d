// Package assistant provides the Volt shopping assistant server.
package assistant

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kart-io/logger"

	"github.com/mercora/volt/internal/assistant/biz"
	"github.com/mercora/volt/internal/assistant/handler"
	"github.com/mercora/volt/internal/assistant/router"
	"github.com/mercora/volt/internal/assistant/store"
	"github.com/mercora/volt/pkg/app"
	"github.com/mercora/volt/pkg/component/milvus"
	"github.com/mercora/volt/pkg/component/mysql"
	"github.com/mercora/volt/pkg/component/redis"
	"github.com/mercora/volt/pkg/component/storage"
	"github.com/mercora/volt/pkg/llm"
	assistantopts "github.com/mercora/volt/pkg/options/assistant"
	llmopts "github.com/mercora/volt/pkg/options/llm"
	logopts "github.com/mercora/volt/pkg/options/logger"
	milvusopts "github.com/mercora/volt/pkg/options/milvus"
	httpopts "github.com/mercora/volt/pkg/options/server/http"
	sessionopts "github.com/mercora/volt/pkg/options/session"

	// Provider registrations.
	_ "github.com/mercora/volt/pkg/llm/deepseek"
	_ "github.com/mercora/volt/pkg/llm/ollama"
	_ "github.com/mercora/volt/pkg/llm/openai"
)

// Name is the name of the application.
const Name = "volt-assistant"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions      *httpopts.Options
	LogOptions       *logopts.Options
	MilvusOptions    *milvusopts.Options
	MySQLOptions     *mysql.Options
	RedisOptions     *redis.Options
	EmbeddingOptions *llmopts.ProviderOptions
	ChatOptions      *llmopts.ProviderOptions
	AssistantOptions *assistantopts.Options
	SessionOptions   *sessionopts.Options
	ShutdownTimeout  time.Duration
}

// Server represents the assistant server.
type Server struct {
	httpServer      *http.Server
	storageMgr      *storage.Manager
	milvusClient    *milvus.Client
	shutdownTimeout time.Duration
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	// 1. Initialize logging.
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting assistant service...")

	// 2. Initialize MySQL and migrate the catalog schema.
	mysqlClient, err := mysql.New(cfg.MySQLOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mysql: %w", err)
	}
	if err := store.AutoMigrate(mysqlClient.DB()); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("Database migration completed")

	storageMgr := storage.NewManager()
	storageMgr.MustRegister("mysql", mysqlClient)

	// 3. Initialize the Milvus product index.
	milvusClient, err := milvus.New(cfg.MilvusOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize milvus: %w", err)
	}

	// 4. Initialize the Store layer.
	datastore := store.NewDatastore(mysqlClient.DB())
	vectorStore := store.NewMilvusStore(milvusClient)
	logger.Info("Store layer initialized")

	// Server-side session history is opt-in.
	var sessions store.SessionStore
	if cfg.SessionOptions.Enabled {
		redisClient, err := redis.New(cfg.RedisOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		storageMgr.MustRegister("redis", redisClient)
		sessions = store.NewRedisSessionStore(redisClient.Client(), &store.RedisSessionConfig{
			TTL:      cfg.SessionOptions.TTL,
			MaxTurns: cfg.SessionOptions.MaxTurns,
		})
		logger.Info("Session store initialized")
	}

	// 5. Initialize LLM providers.
	embedProvider, err := llm.NewEmbeddingProvider(cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	chatCfg := cfg.ChatOptions.ToConfigMap()
	chatCfg["temperature"] = cfg.AssistantOptions.Temperature
	chatCfg["max_tokens"] = cfg.AssistantOptions.MaxTokens
	chatProvider, err := llm.NewChatProvider(cfg.ChatOptions.Provider, chatCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat provider: %w", err)
	}
	logger.Infow("LLM providers initialized",
		"embedding", embedProvider.Name(), "chat", chatProvider.Name())

	// 6. Initialize the Biz layer.
	ao := cfg.AssistantOptions
	service := biz.NewService(vectorStore, datastore, datastore, embedProvider, chatProvider, &biz.ServiceConfig{
		Retriever: &biz.RetrieverConfig{
			Collection: ao.Collection,
			TopK:       ao.TopK,
			Timeout:    ao.RetrievalTimeout,
		},
		Assembler: &biz.AssemblerConfig{
			CharBudget:   ao.ContextBudget,
			HistoryTurns: ao.HistoryTurns,
		},
		Generator: &biz.GeneratorConfig{
			Timeout: ao.GenerationTimeout,
		},
		Indexer: &biz.IndexerConfig{
			Collection: ao.Collection,
			Dimension:  ao.EmbeddingDim,
		},
	})
	logger.Info("Business layer initialized")

	// 7. Initialize the Handler layer and routes.
	assistantHandler := handler.NewAssistantHandler(service, sessions)
	engine := router.New(assistantHandler, storageMgr)

	httpServer := &http.Server{
		Addr:         cfg.HTTPOptions.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTPOptions.ReadTimeout,
		WriteTimeout: cfg.HTTPOptions.WriteTimeout,
		IdleTimeout:  cfg.HTTPOptions.IdleTimeout,
	}

	logger.Info("Assistant service is ready")
	return &Server{
		httpServer:      httpServer,
		storageMgr:      storageMgr,
		milvusClient:    milvusClient,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down assistant service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown failed: %v", err)
	}
	if err := s.milvusClient.Close(shutdownCtx); err != nil {
		logger.Warnw("failed to close milvus client", "error", err.Error())
	}
	s.storageMgr.CloseAll()
	logger.Info("Assistant service stopped")
	return nil
}
