package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docanalyzer-backend/internal/analyses"
	"docanalyzer-backend/internal/documents"
	"docanalyzer-backend/internal/llm"
	"docanalyzer-backend/internal/llm/openai"
	"docanalyzer-backend/internal/services/health"
	"docanalyzer-backend/internal/shared/config"
	"docanalyzer-backend/internal/shared/metrics"
	"docanalyzer-backend/internal/shared/server/middleware"
	"docanalyzer-backend/internal/shared/server/respond"
	"docanalyzer-backend/internal/shared/storage/db"
	localstore "docanalyzer-backend/internal/shared/storage/object/local"
	"docanalyzer-backend/internal/summarize"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	return NewRouterWithClient(cfg, nil)
}

// NewRouterWithClient is NewRouter with an injectable model client,
// used by tests to avoid calling a real provider.
func NewRouterWithClient(cfg config.Config, client llm.Client) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	store := localstore.New(cfg.LocalStoreDir)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	if client == nil {
		built, err := buildClient(cfg)
		if err != nil {
			return nil, err
		}
		client = built
	}

	var docRepo documents.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}
	docSvc := &documents.Service{Store: store, Repo: docRepo, MaxUploadBytes: cfg.MaxUploadBytes}
	docHandler := documents.NewHandler(docSvc)

	analyzeInvoker := llm.NewInvoker(client, llm.InvokerConfig{
		AttemptTimeout: cfg.LLMTimeout,
		MaxAttempts:    cfg.LLMMaxAttempts,
	})
	analysisSvc := &analyses.Service{Repo: docRepo, Invoker: analyzeInvoker}
	analysisHandler := analyses.NewHandler(analysisSvc)

	// The synchronous path holds the caller's request open, so it gets a
	// single attempt instead of the async retry budget.
	summarizeInvoker := llm.NewInvoker(client, llm.InvokerConfig{
		AttemptTimeout: cfg.LLMTimeout,
		MaxAttempts:    1,
	})
	summarizeSvc := &summarize.Service{Invoker: summarizeInvoker, MaxBytes: cfg.MaxSummarizeBytes}
	summarizeHandler := summarize.NewHandler(summarizeSvc)

	healthSvc := health.NewService(sqlDB)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := healthSvc.Status(c.Request.Context())
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	docHandler.RegisterRoutes(api)
	analysisHandler.RegisterRoutes(api)
	summarizeHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r, nil
}

func buildClient(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "", "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
