package domain

import (
	"context"
	"time"
)

// CacheStore is one physical cache tier. The memory tier and the durable tier
// implement an identical contract; values are opaque JSON payloads.
type CacheStore interface {
	// Get returns the value for key, or ErrCacheMiss if absent or expired.
	// Reading an expired entry evicts it as a side effect.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A ttl of zero means DefaultTTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes a single key.
	Invalidate(ctx context.Context, key string) error

	// InvalidatePrefix removes every key starting with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error

	// Clear removes all entries owned by this tier.
	Clear(ctx context.Context) error
}

// EmbeddingGenerator creates vector embeddings from text, one provider call
// per batch.
type EmbeddingGenerator interface {
	// Generate embeds every text in order and returns the vectors plus the
	// total token usage reported by the provider.
	Generate(ctx context.Context, texts []string) ([][]float64, int, error)

	// Name returns the generator identifier.
	Name() string

	// Dimension returns the vector dimension.
	Dimension() int
}

// Embedder is the cached embedding surface consumed by ranking and prompt
// construction.
type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) (EmbeddingResult, error)

	// EmbedBatch returns vectors aligned to the input order.
	EmbedBatch(ctx context.Context, texts []string) ([]EmbeddingResult, error)
}

// MetricsSource supplies raw time-series rows for one connected platform.
// This subsystem never writes to it.
type MetricsSource interface {
	// FetchSeries returns metric points for the query window.
	FetchSeries(ctx context.Context, query MetricsQuery) ([]MetricPoint, error)

	// Platform returns the platform identifier.
	Platform() string
}

// SourceRegistry manages connected data sources.
type SourceRegistry interface {
	// Register adds a source to the registry.
	Register(ctx context.Context, source MetricsSource) error

	// Get retrieves a source by platform name.
	Get(ctx context.Context, platform string) (MetricsSource, error)

	// List returns all registered platform names.
	List(ctx context.Context) ([]string, error)
}

// SnippetSource is the read-only supplier of stored business context.
type SnippetSource interface {
	// ListSnippets returns every stored snippet.
	ListSnippets(ctx context.Context) ([]ContextSnippet, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}
