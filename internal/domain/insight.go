package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/observability"
)

const (
	metricsNamespace = "metrics"

	// maxPromptSnippets caps how much ranked context is injected into a
	// prompt. The ranker itself returns the full ordered pool.
	maxPromptSnippets = 5

	// historicalDataAge is how far back a data point must reach for the
	// account to count as having historical data.
	historicalDataAge = 30 * 24 * time.Hour

	defaultWindowDays = 30
)

// InsightService assembles analysis inputs: it fans metric fetches out across
// connected sources through the cache fetcher, ranks stored business context
// for the request, constructs the prompt and gates the result by confidence.
type InsightService struct {
	sources  SourceRegistry
	fetcher  *Fetcher
	ranker   *RankerService
	snippets SnippetSource
	events   EventPublisher
}

// NewInsightService creates a new insight service (DI constructor).
func NewInsightService(
	sources SourceRegistry,
	fetcher *Fetcher,
	ranker *RankerService,
	snippets SnippetSource,
	events EventPublisher,
) *InsightService {
	return &InsightService{
		sources:  sources,
		fetcher:  fetcher,
		ranker:   ranker,
		snippets: snippets,
		events:   events,
	}
}

// FetchMetrics returns the metric series for one platform window, served
// through both cache tiers.
func (s *InsightService) FetchMetrics(ctx context.Context, query MetricsQuery) ([]MetricPoint, error) {
	if query.Platform == "" {
		return nil, &ValidationError{Field: "platform", Reason: "must not be empty"}
	}

	source, err := s.sources.Get(ctx, query.Platform)
	if err != nil {
		return nil, fmt.Errorf("unknown platform: %w", err)
	}

	key, err := BuildKey(metricsNamespace, map[string]string{
		"platform": query.Platform,
		"metrics":  strings.Join(query.Metrics, ","),
		"from":     query.Start.UTC().Format(time.RFC3339),
		"to":       query.End.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	payload, err := s.fetcher.Fetch(ctx, key, FetchOptions{}, func(ctx context.Context) ([]byte, error) {
		points, fetchErr := source.FetchSeries(ctx, query)
		if fetchErr != nil {
			return nil, fmt.Errorf("source %s: %w", query.Platform, fetchErr)
		}
		return json.Marshal(points)
	})
	if err != nil {
		return nil, err
	}

	var points []MetricPoint
	if unmarshalErr := json.Unmarshal(payload, &points); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to decode cached metrics: %w", unmarshalErr)
	}

	return points, nil
}

// Generate builds an insight for the request. Individual source failures
// degrade the result instead of failing it; the confidence score reflects
// whatever data actually arrived.
func (s *InsightService) Generate(ctx context.Context, req *InsightRequest) (*Insight, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if len(req.Platforms) == 0 {
		return nil, &ValidationError{Field: "platforms", Reason: "at least one platform is required"}
	}

	applyWindowDefaults(req)

	logger := observability.FromContext(ctx)

	var points []MetricPoint
	sourcesWithData := 0
	for _, platform := range req.Platforms {
		platformCtx := observability.WithPlatform(ctx, platform)

		series, err := s.FetchMetrics(platformCtx, MetricsQuery{
			Platform: platform,
			Metrics:  req.Metrics,
			Start:    req.Start,
			End:      req.End,
		})
		if err != nil {
			// Treat the platform as temporarily unavailable and move on.
			observability.FromContext(platformCtx).Warn("metrics fetch failed, skipping platform",
				observability.Error(err))
			continue
		}

		if len(series) > 0 {
			sourcesWithData++
		}
		points = append(points, series...)
	}

	ranked := s.rankContext(ctx, req)

	factors := deriveFactors(req, points, sourcesWithData, len(ranked) > 0)
	confidence := ScoreConfidence(factors)

	insight := &Insight{
		Confidence:  confidence,
		Factors:     factors,
		Metrics:     points,
		Context:     ranked,
		GeneratedAt: time.Now().UTC(),
	}

	if confidence.Showable {
		topContext := ranked
		if len(topContext) > maxPromptSnippets {
			topContext = topContext[:maxPromptSnippets]
		}
		insight.Prompt = buildPrompt(req, points, topContext)
	}

	eventType := observability.EventInsightGenerated
	if !confidence.Showable {
		eventType = observability.EventInsightSuppressed
	}
	s.events.Publish(ctx, eventType, map[string]interface{}{
		"platforms":    req.Platforms,
		"data_points":  factors.DataPoints,
		"data_sources": factors.DataSources,
		"confidence":   confidence.Score,
		"label":        confidence.Label,
	})

	logger.Info("insight assembled",
		observability.Int("data_points", factors.DataPoints),
		observability.Int("context_snippets", len(ranked)),
		observability.Float64("confidence", confidence.Score),
		observability.String("label", confidence.Label))

	return insight, nil
}

// rankContext loads and ranks stored snippets. Context is an enrichment, not
// a requirement: any failure here yields an insight without context rather
// than no insight.
func (s *InsightService) rankContext(ctx context.Context, req *InsightRequest) []RankedSnippet {
	logger := observability.FromContext(ctx)

	snippets, err := s.snippets.ListSnippets(ctx)
	if err != nil {
		logger.Warn("context snippets unavailable",
			observability.Error(err))
		return nil
	}

	ranked, err := s.ranker.Rank(ctx, rankingQuery(req), snippets)
	if err != nil {
		logger.Warn("context ranking failed, continuing without context",
			observability.Error(err))
		return nil
	}

	return ranked
}

func applyWindowDefaults(req *InsightRequest) {
	if req.End.IsZero() {
		req.End = time.Now().UTC()
	}
	if req.Start.IsZero() {
		req.Start = req.End.AddDate(0, 0, -defaultWindowDays)
	}
}

// rankingQuery is the text the snippet pool is ranked against.
func rankingQuery(req *InsightRequest) string {
	parts := []string{req.Question}
	if len(req.Metrics) > 0 {
		parts = append(parts, "metrics: "+strings.Join(req.Metrics, ", "))
	}
	parts = append(parts, "platforms: "+strings.Join(req.Platforms, ", "))
	return strings.Join(parts, " | ")
}

func deriveFactors(req *InsightRequest, points []MetricPoint, sourcesWithData int, contextAvailable bool) ConfidenceFactors {
	metrics := make(map[string]struct{})
	hasHistorical := false
	historicalCutoff := time.Now().Add(-historicalDataAge)
	for _, p := range points {
		metrics[p.Metric] = struct{}{}
		if p.Timestamp.Before(historicalCutoff) {
			hasHistorical = true
		}
	}

	return ConfidenceFactors{
		DataPoints:        len(points),
		DataSources:       sourcesWithData,
		TimeRangeDays:     int(req.End.Sub(req.Start).Hours() / 24),
		MetricVariety:     len(metrics),
		HasHistoricalData: hasHistorical,
		ContextAvailable:  contextAvailable,
	}
}

// buildPrompt renders the analysis prompt from the fetched data and the
// top-ranked business context.
func buildPrompt(req *InsightRequest, points []MetricPoint, context []RankedSnippet) string {
	var b strings.Builder

	b.WriteString("You are a marketing analytics assistant. Analyze the following data and answer the question.\n\n")

	if req.Question != "" {
		b.WriteString("Question: ")
		b.WriteString(req.Question)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Date range: %s to %s\n\n",
		req.Start.UTC().Format("2006-01-02"), req.End.UTC().Format("2006-01-02"))

	if len(context) > 0 {
		b.WriteString("Business context:\n")
		for _, rc := range context {
			fmt.Fprintf(&b, "- [%s] %s\n", rc.Snippet.Type, rc.Snippet.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("Metric summary:\n")
	for platform, byMetric := range summarizeMetrics(points) {
		for metric, summary := range byMetric {
			fmt.Fprintf(&b, "- %s %s: %d points, total %.2f, average %.2f\n",
				platform, metric, summary.count, summary.total, summary.total/float64(summary.count))
		}
	}

	return b.String()
}

type metricSummary struct {
	count int
	total float64
}

func summarizeMetrics(points []MetricPoint) map[string]map[string]*metricSummary {
	summaries := make(map[string]map[string]*metricSummary)
	for _, p := range points {
		byMetric, ok := summaries[p.Platform]
		if !ok {
			byMetric = make(map[string]*metricSummary)
			summaries[p.Platform] = byMetric
		}
		summary, ok := byMetric[p.Metric]
		if !ok {
			summary = &metricSummary{}
			byMetric[p.Metric] = summary
		}
		summary.count++
		summary.total += p.Value
	}
	return summaries
}
