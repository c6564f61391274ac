package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/cache/memory"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/mocks"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/observability"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/source/registry"
)

// flatGenerator embeds every text to the same unit vector, which makes every
// snippet equally relevant. Good enough for orchestration tests.
func flatGenerator(t *testing.T) *mocks.MockEmbeddingGenerator {
	t.Helper()

	generator := mocks.NewMockEmbeddingGenerator(t)
	generator.EXPECT().
		Generate(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, texts []string) ([][]float64, int, error) {
			out := make([][]float64, len(texts))
			for i := range texts {
				out[i] = []float64{1, 0}
			}
			return out, len(texts), nil
		}).
		Maybe()

	return generator
}

type insightFixture struct {
	service  *domain.InsightService
	registry domain.SourceRegistry
	snippets *mocks.MockSnippetSource
}

func newInsightFixture(t *testing.T) *insightFixture {
	t.Helper()

	fetcher := domain.NewFetcher(memory.New(), memory.New(), domain.FetcherConfig{Workers: 1, QueueSize: 4})
	t.Cleanup(fetcher.Close)

	reg := registry.NewRegistry()
	snippets := mocks.NewMockSnippetSource(t)
	ranker := domain.NewRankerService(domain.NewEmbeddingService(flatGenerator(t)))

	return &insightFixture{
		service:  domain.NewInsightService(reg, fetcher, ranker, snippets, observability.NewEventBus(nil)),
		registry: reg,
		snippets: snippets,
	}
}

func dailyPoints(platform, metric string, start time.Time, days int) []domain.MetricPoint {
	points := make([]domain.MetricPoint, 0, days)
	for i := 0; i < days; i++ {
		points = append(points, domain.MetricPoint{
			Platform:  platform,
			Metric:    metric,
			Value:     float64(100 + i),
			Timestamp: start.AddDate(0, 0, i),
		})
	}
	return points
}

func TestInsightService_Generate_AssemblesPromptAndFactors(t *testing.T) {
	ctx := context.Background()
	fixture := newInsightFixture(t)

	start := time.Now().UTC().AddDate(0, 0, -45)
	end := time.Now().UTC()

	source := mocks.NewMockMetricsSource(t)
	source.EXPECT().Platform().Return("google_ads").Maybe()
	source.EXPECT().
		FetchSeries(mock.Anything, mock.Anything).
		Return(dailyPoints("google_ads", "clicks", start, 40), nil).
		Once()
	require.NoError(t, fixture.registry.Register(ctx, source))

	fixture.snippets.EXPECT().
		ListSnippets(mock.Anything).
		Return([]domain.ContextSnippet{
			{ID: "goal-1", Type: domain.SnippetTypeGoal, Text: "double signups by december"},
			{ID: "kpi-1", Type: domain.SnippetTypeKPI, Text: "cost per click under two dollars"},
		}, nil).
		Once()

	insight, err := fixture.service.Generate(ctx, &domain.InsightRequest{
		Platforms: []string{"google_ads"},
		Metrics:   []string{"clicks"},
		Start:     start,
		End:       end,
		Question:  "How are clicks trending?",
	})
	require.NoError(t, err)

	require.Equal(t, 40, insight.Factors.DataPoints)
	require.Equal(t, 1, insight.Factors.DataSources)
	require.Equal(t, 45, insight.Factors.TimeRangeDays)
	require.Equal(t, 1, insight.Factors.MetricVariety)
	require.True(t, insight.Factors.HasHistoricalData, "45-day-old points are historical")
	require.True(t, insight.Factors.ContextAvailable)

	// 0.3 + 0.25 + 0.05 + 0.15 + 0 + 0.1 + 0.1 = 0.95
	require.InDelta(t, 0.95, insight.Confidence.Score, 1e-9)
	require.Equal(t, domain.ConfidenceLabelHigh, insight.Confidence.Label)
	require.True(t, insight.Confidence.Showable)

	require.NotEmpty(t, insight.Prompt)
	require.Contains(t, insight.Prompt, "How are clicks trending?")
	require.Contains(t, insight.Prompt, "double signups by december")
	require.Contains(t, insight.Prompt, "google_ads clicks: 40 points")

	require.Len(t, insight.Context, 2)
	require.Len(t, insight.Metrics, 40)
}

func TestInsightService_Generate_SuppressesLowConfidence(t *testing.T) {
	ctx := context.Background()
	fixture := newInsightFixture(t)

	source := mocks.NewMockMetricsSource(t)
	source.EXPECT().Platform().Return("meta_ads").Maybe()
	source.EXPECT().
		FetchSeries(mock.Anything, mock.Anything).
		Return(nil, nil).
		Once()
	require.NoError(t, fixture.registry.Register(ctx, source))

	fixture.snippets.EXPECT().
		ListSnippets(mock.Anything).
		Return(nil, nil).
		Once()

	end := time.Now().UTC()
	insight, err := fixture.service.Generate(ctx, &domain.InsightRequest{
		Platforms: []string{"meta_ads"},
		Start:     end.AddDate(0, 0, -30),
		End:       end,
	})
	require.NoError(t, err)

	// 0.3 base + 0.15 time range = 0.45: below the show threshold.
	require.InDelta(t, 0.45, insight.Confidence.Score, 1e-9)
	require.False(t, insight.Confidence.Showable)
	require.Equal(t, domain.ConfidenceLabelLow, insight.Confidence.Label)
	require.Empty(t, insight.Prompt, "suppressed insights carry no prompt")
}

func TestInsightService_Generate_SkipsFailingPlatforms(t *testing.T) {
	ctx := context.Background()
	fixture := newInsightFixture(t)

	start := time.Now().UTC().AddDate(0, 0, -14)
	end := time.Now().UTC()

	healthy := mocks.NewMockMetricsSource(t)
	healthy.EXPECT().Platform().Return("google_ads").Maybe()
	healthy.EXPECT().
		FetchSeries(mock.Anything, mock.Anything).
		Return(dailyPoints("google_ads", "spend", start, 14), nil).
		Once()
	require.NoError(t, fixture.registry.Register(ctx, healthy))

	broken := mocks.NewMockMetricsSource(t)
	broken.EXPECT().Platform().Return("meta_ads").Maybe()
	broken.EXPECT().
		FetchSeries(mock.Anything, mock.Anything).
		Return(nil, errors.New("token expired")).
		Once()
	require.NoError(t, fixture.registry.Register(ctx, broken))

	fixture.snippets.EXPECT().
		ListSnippets(mock.Anything).
		Return(nil, nil).
		Once()

	insight, err := fixture.service.Generate(ctx, &domain.InsightRequest{
		Platforms: []string{"google_ads", "meta_ads", "not_connected"},
		Metrics:   []string{"spend"},
		Start:     start,
		End:       end,
	})
	require.NoError(t, err, "a failing platform degrades the insight, not the request")

	require.Equal(t, 14, insight.Factors.DataPoints)
	require.Equal(t, 1, insight.Factors.DataSources)
}

func TestInsightService_Generate_Validation(t *testing.T) {
	ctx := context.Background()
	fixture := newInsightFixture(t)

	_, err := fixture.service.Generate(ctx, nil)
	require.Error(t, err)

	var validationErr *domain.ValidationError
	_, err = fixture.service.Generate(ctx, &domain.InsightRequest{})
	require.ErrorAs(t, err, &validationErr)
}

func TestInsightService_Generate_ContextFailureDegrades(t *testing.T) {
	ctx := context.Background()
	fixture := newInsightFixture(t)

	start := time.Now().UTC().AddDate(0, 0, -30)
	end := time.Now().UTC()

	source := mocks.NewMockMetricsSource(t)
	source.EXPECT().Platform().Return("google_ads").Maybe()
	source.EXPECT().
		FetchSeries(mock.Anything, mock.Anything).
		Return(dailyPoints("google_ads", "clicks", start, 30), nil).
		Once()
	require.NoError(t, fixture.registry.Register(ctx, source))

	fixture.snippets.EXPECT().
		ListSnippets(mock.Anything).
		Return(nil, errors.New("store offline")).
		Once()

	insight, err := fixture.service.Generate(ctx, &domain.InsightRequest{
		Platforms: []string{"google_ads"},
		Metrics:   []string{"clicks"},
		Start:     start,
		End:       end,
	})
	require.NoError(t, err)
	require.False(t, insight.Factors.ContextAvailable)
	require.Empty(t, insight.Context)
}

func TestInsightService_FetchMetrics_ServedFromCache(t *testing.T) {
	ctx := context.Background()
	fixture := newInsightFixture(t)

	start := time.Now().UTC().AddDate(0, 0, -7).Truncate(time.Second)
	end := time.Now().UTC().Truncate(time.Second)

	source := mocks.NewMockMetricsSource(t)
	source.EXPECT().Platform().Return("google_ads").Maybe()
	source.EXPECT().
		FetchSeries(mock.Anything, mock.Anything).
		Return(dailyPoints("google_ads", "clicks", start, 7), nil).
		Once()
	require.NoError(t, fixture.registry.Register(ctx, source))

	query := domain.MetricsQuery{
		Platform: "google_ads",
		Metrics:  []string{"clicks"},
		Start:    start,
		End:      end,
	}

	first, err := fixture.service.FetchMetrics(ctx, query)
	require.NoError(t, err)
	require.Len(t, first, 7)

	// Identical window: memory tier hit, no second source call.
	second, err := fixture.service.FetchMetrics(ctx, query)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestInsightService_FetchMetrics_UnknownPlatform(t *testing.T) {
	ctx := context.Background()
	fixture := newInsightFixture(t)

	_, err := fixture.service.FetchMetrics(ctx, domain.MetricsQuery{Platform: "nope"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown platform")
}
