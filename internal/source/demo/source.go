// Package demo provides a deterministic synthetic metrics source, used for
// local development and testing without a connected platform account.
package demo

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
)

// Source fabricates one metric point per metric per day in the query window.
// Values are derived from a hash of platform, metric and day, so repeated
// queries return identical series.
type Source struct {
	platform string
}

// New creates a demo source for the given platform name.
func New(platform string) *Source {
	return &Source{
		platform: platform,
	}
}

// Platform returns the platform identifier.
func (s *Source) Platform() string {
	return s.platform
}

// FetchSeries returns synthetic metric points for the query window.
func (s *Source) FetchSeries(ctx context.Context, query domain.MetricsQuery) ([]domain.MetricPoint, error) {
	if query.End.Before(query.Start) {
		return nil, &domain.ValidationError{Field: "window", Reason: "end precedes start"}
	}

	metrics := query.Metrics
	if len(metrics) == 0 {
		metrics = []string{"impressions", "clicks", "spend"}
	}

	var points []domain.MetricPoint
	for day := query.Start.Truncate(24 * time.Hour); !day.After(query.End); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, metric := range metrics {
			points = append(points, domain.MetricPoint{
				Platform:  s.platform,
				Metric:    metric,
				Value:     syntheticValue(s.platform, metric, day),
				Timestamp: day,
			})
		}
	}

	return points, nil
}

func syntheticValue(platform, metric string, day time.Time) float64 {
	h := fnv.New64a()
	h.Write([]byte(platform))
	h.Write([]byte(metric))
	h.Write([]byte(day.UTC().Format("2006-01-02")))
	return float64(h.Sum64()%10000) / 10.0
}
