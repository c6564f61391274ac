package domain

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/observability"
)

// DefaultTTL applies when a caller passes a zero TTL.
const DefaultTTL = 5 * time.Minute

const (
	defaultRevalidateWorkers = 4
	defaultRevalidateQueue   = 64
)

// ProducerFunc produces a fresh value for a cache key, typically by calling
// an expensive external collaborator.
type ProducerFunc func(ctx context.Context) ([]byte, error)

// FetchOptions tunes a single Fetch call.
type FetchOptions struct {
	// TTL for stored values; zero means DefaultTTL.
	TTL time.Duration

	// SkipRevalidate disables the background refresh after a durable-tier
	// hit. Stale-while-revalidate is on by default.
	SkipRevalidate bool
}

// FetcherConfig sizes the background revalidation pool.
type FetcherConfig struct {
	Workers   int
	QueueSize int
}

type inflightCall struct {
	done  chan struct{}
	value []byte
	err   error
}

type revalidateTask struct {
	key     string
	ttl     time.Duration
	produce ProducerFunc
}

// Fetcher coordinates reads across the memory and durable cache tiers with a
// stale-while-revalidate policy: a caller is only blocked on the producer when
// no cached value, fresh or stale, exists anywhere.
type Fetcher struct {
	memory  CacheStore
	durable CacheStore

	mu       sync.Mutex
	inflight map[string]*inflightCall

	tasks  chan revalidateTask
	stop   chan struct{}
	stopWg sync.WaitGroup
}

// NewFetcher creates a fetcher over the two cache tiers and starts its
// revalidation workers.
func NewFetcher(memory, durable CacheStore, cfg FetcherConfig) *Fetcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultRevalidateWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultRevalidateQueue
	}

	f := &Fetcher{
		memory:   memory,
		durable:  durable,
		inflight: make(map[string]*inflightCall),
		tasks:    make(chan revalidateTask, cfg.QueueSize),
		stop:     make(chan struct{}),
	}

	f.stopWg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go f.revalidateWorker()
	}

	return f
}

// Close stops the revalidation workers. Queued tasks are drained first.
func (f *Fetcher) Close() {
	close(f.stop)
	f.stopWg.Wait()
}

// Fetch returns the cached value for key, falling back to the producer only
// when both tiers miss. A durable-tier hit is served immediately and refreshed
// in the background unless opts.SkipRevalidate is set.
func (f *Fetcher) Fetch(ctx context.Context, key string, opts FetchOptions, produce ProducerFunc) ([]byte, error) {
	if key == "" {
		return nil, &ValidationError{Field: "key", Reason: "must not be empty"}
	}
	if produce == nil {
		return nil, &ValidationError{Field: "producer", Reason: "must not be nil"}
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	logger := observability.FromContext(ctx)

	value, err := f.memory.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("memory tier read failed",
			observability.String("key", key),
			observability.Error(err))
	}

	value, err = f.durable.Get(ctx, key)
	if err == nil {
		// Promote to memory and serve the durable copy without blocking.
		if setErr := f.memory.Set(ctx, key, value, ttl); setErr != nil {
			logger.Warn("memory tier promote failed",
				observability.String("key", key),
				observability.Error(setErr))
		}

		if !opts.SkipRevalidate {
			f.enqueueRevalidate(ctx, key, ttl, produce)
		}

		return value, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("durable tier read failed",
			observability.String("key", key),
			observability.Error(err))
	}

	return f.produceOnce(ctx, key, ttl, produce)
}

// produceOnce collapses concurrent cold-cache misses for the same key into a
// single producer call. Later callers wait for the first caller's result.
func (f *Fetcher) produceOnce(ctx context.Context, key string, ttl time.Duration, produce ProducerFunc) ([]byte, error) {
	f.mu.Lock()
	if call, ok := f.inflight[key]; ok {
		f.mu.Unlock()
		select {
		case <-call.done:
			return call.value, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	call := &inflightCall{done: make(chan struct{})}
	f.inflight[key] = call
	f.mu.Unlock()

	call.value, call.err = produce(ctx)
	if call.err == nil {
		f.storeBoth(ctx, key, call.value, ttl)
	}

	f.mu.Lock()
	delete(f.inflight, key)
	f.mu.Unlock()
	close(call.done)

	return call.value, call.err
}

// enqueueRevalidate hands a refresh off to the bounded worker pool. A full
// queue drops the refresh; the stale value already served remains valid until
// its TTL runs out.
func (f *Fetcher) enqueueRevalidate(ctx context.Context, key string, ttl time.Duration, produce ProducerFunc) {
	task := revalidateTask{key: key, ttl: ttl, produce: produce}

	select {
	case f.tasks <- task:
	default:
		observability.FromContext(ctx).Warn("revalidation queue full, skipping refresh",
			observability.String("key", key))
	}
}

func (f *Fetcher) revalidateWorker() {
	defer f.stopWg.Done()

	for {
		select {
		case task := <-f.tasks:
			f.revalidate(task)
		case <-f.stop:
			// Drain whatever is queued before exiting.
			for {
				select {
				case task := <-f.tasks:
					f.revalidate(task)
				default:
					return
				}
			}
		}
	}
}

// revalidate refreshes a key in the background. Failures are logged, never
// raised: the stale value already returned to the caller stays in place.
func (f *Fetcher) revalidate(task revalidateTask) {
	ctx := context.Background()
	logger := observability.FromContext(ctx)

	value, err := task.produce(ctx)
	if err != nil {
		logger.Warn("background revalidation failed",
			observability.String("key", task.key),
			observability.Error(err))
		return
	}

	f.storeBoth(ctx, task.key, value, task.ttl)

	logger.Debug("background revalidation completed",
		observability.String("key", task.key))
}

// storeBoth writes a fresh value to both tiers. Durable-tier failures degrade
// the key to memory-tier-only.
func (f *Fetcher) storeBoth(ctx context.Context, key string, value []byte, ttl time.Duration) {
	logger := observability.FromContext(ctx)

	if err := f.memory.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("memory tier write failed",
			observability.String("key", key),
			observability.Error(err))
	}

	if err := f.durable.Set(ctx, key, value, ttl); err != nil {
		var quotaErr *StorageQuotaError
		if errors.As(err, &quotaErr) {
			logger.Warn("durable tier out of space, keeping memory copy only",
				observability.String("key", key))
			return
		}
		logger.Warn("durable tier write failed",
			observability.String("key", key),
			observability.Error(err))
	}
}
