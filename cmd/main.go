package main

import (
	"context"
	"log"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/cache/memory"
	rediscache "github.com/marablemarcel/Living-Lytics-sub001/internal/cache/redis"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/config"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
	openaiemb "github.com/marablemarcel/Living-Lytics-sub001/internal/embedding/openai"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/http"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/http/middleware"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/observability"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/source/demo"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/source/registry"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/store/sqlite"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func() *observability.EventBus {
		return observability.NewEventBus(slog.Default())
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Cache tiers
	if err := container.Provide(memory.New); err != nil {
		log.Fatalf("Failed to provide memory cache: %v", err)
	}
	if err := container.Provide(func(cfg *config.RedisConfig) *rediscache.Store {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		return rediscache.New(client, cfg.KeyPrefix)
	}); err != nil {
		log.Fatalf("Failed to provide durable cache: %v", err)
	}
	if err := container.Provide(func(
		memTier *memory.Store,
		durableTier *rediscache.Store,
		cfg *config.CacheConfig,
	) *domain.Fetcher {
		return domain.NewFetcher(memTier, durableTier, domain.FetcherConfig{
			Workers:   cfg.RevalidateWorkers,
			QueueSize: cfg.RevalidateQueue,
		})
	}); err != nil {
		log.Fatalf("Failed to provide fetcher: %v", err)
	}

	// Embedding and ranking
	if err := container.Provide(func(cfg *openaiemb.Config) (*openaiemb.Generator, error) {
		return openaiemb.NewGenerator(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide embedding generator: %v", err)
	}
	if err := container.Provide(func(generator *openaiemb.Generator) *domain.EmbeddingService {
		return domain.NewEmbeddingService(generator)
	}); err != nil {
		log.Fatalf("Failed to provide embedding service: %v", err)
	}
	if err := container.Provide(func(embeddings *domain.EmbeddingService) *domain.RankerService {
		return domain.NewRankerService(embeddings)
	}); err != nil {
		log.Fatalf("Failed to provide ranker: %v", err)
	}

	// Context store
	if err := container.Provide(func(cfg *config.StoreConfig) (*sqlite.SnippetStore, error) {
		return sqlite.New(cfg.Path)
	}); err != nil {
		log.Fatalf("Failed to provide snippet store: %v", err)
	}

	// Data sources
	if err := container.Provide(func() domain.SourceRegistry {
		return registry.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide source registry: %v", err)
	}
	if err := container.Invoke(func(reg domain.SourceRegistry, cfg *config.SourcesConfig) error {
		ctx := context.Background()
		for _, platform := range cfg.DemoPlatforms {
			if err := reg.Register(ctx, demo.New(platform)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		log.Fatalf("Failed to register demo sources: %v", err)
	}

	// Domain services
	if err := container.Provide(func(
		sources domain.SourceRegistry,
		fetcher *domain.Fetcher,
		ranker *domain.RankerService,
		snippets *sqlite.SnippetStore,
		events *observability.EventBus,
	) *domain.InsightService {
		return domain.NewInsightService(sources, fetcher, ranker, snippets, events)
	}); err != nil {
		log.Fatalf("Failed to provide insight service: %v", err)
	}

	// HTTP layer
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(func(corsConfig *config.CORSConfig) middleware.Middleware {
		return middleware.BuildMiddlewareChain(corsConfig)
	}); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}
