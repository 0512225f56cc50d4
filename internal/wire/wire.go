// Package wire assembles the application graph.
package wire

import (
	"context"
	"fmt"

	"professor-ai-api/internal/application/chat"
	"professor-ai-api/internal/application/exporting"
	"professor-ai-api/internal/application/extraction"
	"professor-ai-api/internal/application/teaching"
	"professor-ai-api/internal/config"
	"professor-ai-api/internal/domain/repository"
	"professor-ai-api/internal/infrastructure/llm"
	"professor-ai-api/internal/infrastructure/persistence/memory"
	"professor-ai-api/internal/infrastructure/persistence/redis"
	"professor-ai-api/internal/interfaces/http/handler"
	"professor-ai-api/internal/interfaces/http/middleware"
	"professor-ai-api/internal/interfaces/http/router"
	workflowchain "professor-ai-api/internal/workflow/chain"

	"github.com/gin-gonic/gin"
)

// App bundles the assembled router.
type App struct {
	router *router.Router
}

// Engine returns the HTTP engine.
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp builds the full dependency graph. The returned cleanup
// closes the session store and any redis connection.
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	cleanups := make([]func(), 0, 2)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		store       repository.SessionStore
		redisClient *redis.Client
		limiter     middleware.RateLimiter
	)

	switch cfg.Session.Store {
	case "redis":
		client, err := redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		cleanups = append(cleanups, func() { _ = client.Close() })
		redisClient = client
		store = redis.NewSessionStore(client, cfg.Session.TTL)
		limiter = redis.NewRateLimiter(client)
	default:
		memStore := memory.NewSessionStore(cfg.Session.TTL)
		cleanups = append(cleanups, memStore.Close)
		store = memStore
	}

	factory := llm.NewEinoFactory(cfg)
	generationChain := workflowchain.NewGenerationChain(factory)
	runner := workflowchain.NewRunner(generationChain, cfg)

	extractor := extraction.NewExtractor(cfg.Extraction.MaxFileBytes)
	exporter := exporting.NewExporter()

	teachingSvc := teaching.NewService(store, runner, extractor, exporter)
	chatSvc := chat.NewService(store, factory)

	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(cfg, redisClient),
		Session:  handler.NewSessionHandler(teachingSvc),
		Teaching: handler.NewTeachingHandler(teachingSvc),
		Chat:     handler.NewChatHandler(chatSvc),
		Catalog:  handler.NewCatalogHandler(),
	}

	app := &App{
		router: router.New(cfg, handlers, limiter),
	}
	return app, cleanup, nil
}
