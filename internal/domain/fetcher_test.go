package domain_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/cache/memory"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
)

func newTestFetcher(t *testing.T) (*domain.Fetcher, *memory.Store, *memory.Store) {
	t.Helper()

	memTier := memory.New()
	durableTier := memory.New()
	fetcher := domain.NewFetcher(memTier, durableTier, domain.FetcherConfig{Workers: 2, QueueSize: 8})
	t.Cleanup(fetcher.Close)

	return fetcher, memTier, durableTier
}

func TestFetcher_MemoryHitSkipsProducer(t *testing.T) {
	ctx := context.Background()
	fetcher, memTier, _ := newTestFetcher(t)

	require.NoError(t, memTier.Set(ctx, "k", []byte(`"hot"`), time.Minute))

	value, err := fetcher.Fetch(ctx, "k", domain.FetchOptions{}, func(context.Context) ([]byte, error) {
		t.Fatal("producer must not run on a memory hit")
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte(`"hot"`), value)
}

func TestFetcher_ColdMissProducesAndStoresBothTiers(t *testing.T) {
	ctx := context.Background()
	fetcher, memTier, durableTier := newTestFetcher(t)

	var calls atomic.Int32
	value, err := fetcher.Fetch(ctx, "k", domain.FetchOptions{TTL: time.Minute}, func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(`"fresh"`), nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte(`"fresh"`), value)
	require.EqualValues(t, 1, calls.Load())

	fromMemory, err := memTier.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte(`"fresh"`), fromMemory)

	fromDurable, err := durableTier.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte(`"fresh"`), fromDurable)
}

func TestFetcher_StaleWhileRevalidate(t *testing.T) {
	ctx := context.Background()
	fetcher, memTier, durableTier := newTestFetcher(t)

	// Only the durable tier holds a (stale) copy, as after a restart.
	require.NoError(t, durableTier.Set(ctx, "k", []byte(`"stale"`), time.Minute))

	value, err := fetcher.Fetch(ctx, "k", domain.FetchOptions{TTL: time.Minute}, func(context.Context) ([]byte, error) {
		return []byte(`"refreshed"`), nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte(`"stale"`), value, "durable hit must be served immediately")

	// The background refresh eventually overwrites both tiers.
	require.Eventually(t, func() bool {
		fromMemory, memErr := memTier.Get(ctx, "k")
		fromDurable, durErr := durableTier.Get(ctx, "k")
		return memErr == nil && durErr == nil &&
			string(fromMemory) == `"refreshed"` && string(fromDurable) == `"refreshed"`
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFetcher_FailedRevalidationKeepsStaleValue(t *testing.T) {
	ctx := context.Background()
	fetcher, memTier, durableTier := newTestFetcher(t)

	require.NoError(t, durableTier.Set(ctx, "k", []byte(`"stale"`), time.Minute))

	var attempted atomic.Bool
	value, err := fetcher.Fetch(ctx, "k", domain.FetchOptions{}, func(context.Context) ([]byte, error) {
		attempted.Store(true)
		return nil, errors.New("upstream down")
	})
	require.NoError(t, err)
	require.Equal(t, []byte(`"stale"`), value)

	require.Eventually(t, attempted.Load, 2*time.Second, 10*time.Millisecond)

	// The stale value is never invalidated by a failed refresh.
	fromMemory, err := memTier.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte(`"stale"`), fromMemory)
}

func TestFetcher_SkipRevalidate(t *testing.T) {
	ctx := context.Background()
	fetcher, _, durableTier := newTestFetcher(t)

	require.NoError(t, durableTier.Set(ctx, "k", []byte(`"old"`), time.Minute))

	value, err := fetcher.Fetch(ctx, "k", domain.FetchOptions{SkipRevalidate: true}, func(context.Context) ([]byte, error) {
		t.Fatal("producer must not run when revalidation is disabled")
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte(`"old"`), value)

	// Give any stray background task a moment to fire before the cleanup
	// assertion in t.Fatal would trigger.
	time.Sleep(50 * time.Millisecond)
}

func TestFetcher_SingleFlightCollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	fetcher, _, _ := newTestFetcher(t)

	var calls atomic.Int32
	producer := func(context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return []byte(`"once"`), nil
	}

	const concurrency = 8
	var wg sync.WaitGroup
	results := make([][]byte, concurrency)
	errs := make([]error, concurrency)

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fetcher.Fetch(ctx, "cold", domain.FetchOptions{}, producer)
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, calls.Load(), "concurrent misses must share one producer call")
	for i := 0; i < concurrency; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, []byte(`"once"`), results[i])
	}
}

func TestFetcher_ProducerErrorPropagates(t *testing.T) {
	ctx := context.Background()
	fetcher, memTier, _ := newTestFetcher(t)

	_, err := fetcher.Fetch(ctx, "k", domain.FetchOptions{}, func(context.Context) ([]byte, error) {
		return nil, errors.New("provider unreachable")
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "provider unreachable")

	// A failed producer leaves nothing behind.
	_, err = memTier.Get(ctx, "k")
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestFetcher_Validation(t *testing.T) {
	ctx := context.Background()
	fetcher, _, _ := newTestFetcher(t)

	var validationErr *domain.ValidationError

	_, err := fetcher.Fetch(ctx, "", domain.FetchOptions{}, func(context.Context) ([]byte, error) {
		return nil, nil
	})
	require.ErrorAs(t, err, &validationErr)

	_, err = fetcher.Fetch(ctx, "k", domain.FetchOptions{}, nil)
	require.ErrorAs(t, err, &validationErr)
}

// quotaStore always rejects writes the way a full durable tier would.
type quotaStore struct{}

func (quotaStore) Get(context.Context, string) ([]byte, error) { return nil, domain.ErrCacheMiss }
func (quotaStore) Set(_ context.Context, key string, _ []byte, _ time.Duration) error {
	return &domain.StorageQuotaError{Key: key, Err: errors.New("OOM command not allowed")}
}
func (quotaStore) Invalidate(context.Context, string) error       { return nil }
func (quotaStore) InvalidatePrefix(context.Context, string) error { return nil }
func (quotaStore) Clear(context.Context) error                    { return nil }

func TestFetcher_DurableQuotaFailureDegradesToMemory(t *testing.T) {
	ctx := context.Background()

	memTier := memory.New()
	fetcher := domain.NewFetcher(memTier, quotaStore{}, domain.FetcherConfig{})
	t.Cleanup(fetcher.Close)

	value, err := fetcher.Fetch(ctx, "k", domain.FetchOptions{}, func(context.Context) ([]byte, error) {
		return []byte(`"v"`), nil
	})
	require.NoError(t, err, "a full durable tier must not fail the caller")
	require.Equal(t, []byte(`"v"`), value)

	fromMemory, err := memTier.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte(`"v"`), fromMemory)
}
