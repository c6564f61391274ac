package domain

import "time"

// SnippetType classifies a stored business-context snippet.
type SnippetType string

// Known snippet types.
const (
	SnippetTypeGoal     SnippetType = "goal"
	SnippetTypeKPI      SnippetType = "kpi"
	SnippetTypeBrand    SnippetType = "brand"
	SnippetTypeBudget   SnippetType = "budget"
	SnippetTypeCampaign SnippetType = "campaign"
	SnippetTypeIndustry SnippetType = "industry"
)

// ContextSnippet is a stored piece of business context. It is owned by the
// external store; the ranking layer treats it as read-only input.
type ContextSnippet struct {
	ID        string      `json:"id"`
	Type      SnippetType `json:"type"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// RankedSnippet pairs a snippet with its semantic similarity to a query.
type RankedSnippet struct {
	Snippet    ContextSnippet `json:"snippet"`
	Similarity float64        `json:"similarity"`
}

// MetricPoint is a single time-series observation from a data source.
type MetricPoint struct {
	Platform  string    `json:"platform"`
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// MetricsQuery selects a window of time-series data from one platform.
type MetricsQuery struct {
	Platform string    `json:"platform"`
	Metrics  []string  `json:"metrics"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// EmbeddingRecord is a cached text embedding keyed by fingerprint. Records
// never expire implicitly; the whole cache can be cleared wholesale.
type EmbeddingRecord struct {
	Fingerprint string    `json:"fingerprint"`
	Vector      []float64 `json:"vector"`
	TokenCount  int       `json:"token_count"`
}

// EmbeddingResult is the per-text outcome of an embed call.
type EmbeddingResult struct {
	Vector     []float64 `json:"vector"`
	TokenCount int       `json:"token_count"`
	Cached     bool      `json:"cached"`
}

// ConfidenceFactors are the signals combined into a confidence score.
// Derived per request, never stored.
type ConfidenceFactors struct {
	DataPoints        int  `json:"data_points"`
	DataSources       int  `json:"data_sources"`
	TimeRangeDays     int  `json:"time_range_days"`
	MetricVariety     int  `json:"metric_variety"`
	HasHistoricalData bool `json:"has_historical_data"`
	ContextAvailable  bool `json:"context_available"`
}

// Confidence is the scored outcome. Suppression of low-confidence insights is
// the caller's policy; the scorer only reports the number and label.
type Confidence struct {
	Score    float64 `json:"score"`
	Label    string  `json:"label"`
	Showable bool    `json:"showable"`
}

// InsightRequest describes one analysis request from the dashboard.
type InsightRequest struct {
	Platforms []string  `json:"platforms"`
	Metrics   []string  `json:"metrics"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Question  string    `json:"question"`
}

// Insight is the assembled analysis input: the constructed prompt, the data
// behind it, and the confidence gate. The generative call itself happens
// outside this layer.
type Insight struct {
	Prompt      string          `json:"prompt,omitempty"`
	Confidence  Confidence      `json:"confidence"`
	Factors     ConfidenceFactors `json:"factors"`
	Metrics     []MetricPoint   `json:"metrics"`
	Context     []RankedSnippet `json:"context"`
	GeneratedAt time.Time       `json:"generated_at"`
}
