package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/mocks"
)

func TestEmbeddingService_EmbedBatch_DeduplicatesInput(t *testing.T) {
	ctx := context.Background()
	generator := mocks.NewMockEmbeddingGenerator(t)
	service := domain.NewEmbeddingService(generator)

	// One provider call for the unique set {budget goal, brand voice}.
	generator.EXPECT().
		Generate(mock.Anything, []string{"budget goal", "brand voice"}).
		Return([][]float64{{0.1, 0.2}, {0.3, 0.4}}, 10, nil).
		Once()

	results, err := service.EmbedBatch(ctx, []string{"budget goal", "brand voice", "budget goal"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, []float64{0.1, 0.2}, results[0].Vector)
	require.Equal(t, []float64{0.3, 0.4}, results[1].Vector)
	require.Equal(t, []float64{0.1, 0.2}, results[2].Vector)

	require.False(t, results[0].Cached)
	require.False(t, results[1].Cached)
	require.True(t, results[2].Cached, "second occurrence must be served from cache")
}

func TestEmbeddingService_EmbedBatch_SecondCallFullyCached(t *testing.T) {
	ctx := context.Background()
	generator := mocks.NewMockEmbeddingGenerator(t)
	service := domain.NewEmbeddingService(generator)

	generator.EXPECT().
		Generate(mock.Anything, []string{"grow signups"}).
		Return([][]float64{{1, 0}}, 3, nil).
		Once()

	first, err := service.EmbedBatch(ctx, []string{"grow signups"})
	require.NoError(t, err)
	require.False(t, first[0].Cached)

	// No second provider call: the Once() expectation above would fail.
	second, err := service.EmbedBatch(ctx, []string{"grow signups"})
	require.NoError(t, err)
	require.True(t, second[0].Cached)
	require.Equal(t, first[0].Vector, second[0].Vector)
}

func TestEmbeddingService_Embed_NormalizedTextsShareFingerprint(t *testing.T) {
	ctx := context.Background()
	generator := mocks.NewMockEmbeddingGenerator(t)
	service := domain.NewEmbeddingService(generator)

	generator.EXPECT().
		Generate(mock.Anything, mock.Anything).
		Return([][]float64{{0.5, 0.5}}, 2, nil).
		Once()

	first, err := service.Embed(ctx, "Increase   Brand Awareness")
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := service.Embed(ctx, "increase brand awareness")
	require.NoError(t, err)
	require.True(t, second.Cached)

	require.Equal(t, 1, service.Size())
}

func TestEmbeddingService_EmbedBatch_ChunksLargeInput(t *testing.T) {
	ctx := context.Background()
	generator := mocks.NewMockEmbeddingGenerator(t)
	service := domain.NewEmbeddingService(generator)

	texts := make([]string, 150)
	for i := range texts {
		texts[i] = fmt.Sprintf("campaign snippet %d", i)
	}

	calls := 0
	generator.EXPECT().
		Generate(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, chunk []string) ([][]float64, int, error) {
			calls++
			require.LessOrEqual(t, len(chunk), 100)
			vectors := make([][]float64, len(chunk))
			for i := range chunk {
				vectors[i] = []float64{float64(len(chunk[i])), 1}
			}
			return vectors, len(chunk), nil
		}).
		Times(2)

	results, err := service.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, results, 150)
	require.Equal(t, 2, calls)

	for i, result := range results {
		require.NotEmpty(t, result.Vector, "missing vector for input %d", i)
		require.False(t, result.Cached)
	}
}

func TestEmbeddingService_EmbedBatch_ProviderErrorAborts(t *testing.T) {
	ctx := context.Background()
	generator := mocks.NewMockEmbeddingGenerator(t)
	service := domain.NewEmbeddingService(generator)

	generator.EXPECT().
		Generate(mock.Anything, []string{"first"}).
		Return([][]float64{{1}}, 1, nil).
		Once()

	_, err := service.EmbedBatch(ctx, []string{"first"})
	require.NoError(t, err)

	generator.EXPECT().
		Generate(mock.Anything, []string{"second"}).
		Return(nil, 0, errors.New("rate limited")).
		Once()

	_, err = service.EmbedBatch(ctx, []string{"first", "second"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "embedding provider call failed")

	// The earlier fingerprint survives the failed batch.
	require.Equal(t, 1, service.Size())
}

func TestEmbeddingService_Clear(t *testing.T) {
	ctx := context.Background()
	generator := mocks.NewMockEmbeddingGenerator(t)
	service := domain.NewEmbeddingService(generator)

	generator.EXPECT().
		Generate(mock.Anything, mock.Anything).
		Return([][]float64{{1}}, 1, nil).
		Times(2)

	_, err := service.Embed(ctx, "goal text")
	require.NoError(t, err)
	require.Equal(t, 1, service.Size())

	service.Clear()
	require.Equal(t, 0, service.Size())

	result, err := service.Embed(ctx, "goal text")
	require.NoError(t, err)
	require.False(t, result.Cached)
}

func TestFingerprint_Deterministic(t *testing.T) {
	require.Equal(t, domain.Fingerprint("Launch Q3 campaign"), domain.Fingerprint("launch  q3   campaign"))
	require.NotEqual(t, domain.Fingerprint("launch q3 campaign"), domain.Fingerprint("launch q4 campaign"))
	require.Len(t, domain.Fingerprint("anything"), 64)
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float64{0.3, 0.4, 0.5}
		sim, err := domain.CosineSimilarity(v, v)
		require.NoError(t, err)
		require.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		sim, err := domain.CosineSimilarity([]float64{1, 0}, []float64{0, 1})
		require.NoError(t, err)
		require.InDelta(t, 0.0, sim, 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		sim, err := domain.CosineSimilarity([]float64{1, 1}, []float64{-1, -1})
		require.NoError(t, err)
		require.InDelta(t, -1.0, sim, 1e-9)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := domain.CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})

		var mismatchErr *domain.DimensionMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		require.Equal(t, 2, mismatchErr.LenA)
		require.Equal(t, 3, mismatchErr.LenB)
	})

	t.Run("zero vector", func(t *testing.T) {
		sim, err := domain.CosineSimilarity([]float64{0, 0}, []float64{1, 1})
		require.NoError(t, err)
		require.Zero(t, sim)
	})
}
