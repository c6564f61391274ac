package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
	"github.com/marablemarcel/Living-Lytics-sub001/internal/observability"
)

// Handler handles HTTP requests.
type Handler struct {
	insights *domain.InsightService
	sources  domain.SourceRegistry
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(insights *domain.InsightService, sources domain.SourceRegistry) *Handler {
	return &Handler{
		insights: insights,
		sources:  sources,
	}
}

// HandleMetrics serves a cached metric window for one platform.
// GET /v1/metrics?platform=...&metrics=a,b&from=...&to=...
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	platform := r.URL.Query().Get("platform")
	if platform == "" {
		http.Error(w, "platform query parameter is required", http.StatusBadRequest)
		return
	}
	ctx = observability.WithPlatform(ctx, platform)

	query := domain.MetricsQuery{
		Platform: platform,
	}
	if raw := r.URL.Query().Get("metrics"); raw != "" {
		query.Metrics = strings.Split(raw, ",")
	}

	var err error
	query.Start, query.End, err = parseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)

	points, err := h.insights.FetchMetrics(ctx, query)
	if err != nil {
		logger.Error("metrics fetch failed", observability.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"platform": platform,
		"points":   points,
	})
}

// HandleInsight assembles an analysis prompt with its confidence gate.
// POST /v1/insights
func (h *Handler) HandleInsight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("insight request received",
		observability.Strings("platforms", req.Platforms),
		observability.Strings("metrics", req.Metrics))

	insight, err := h.insights.Generate(ctx, &req)
	if err != nil {
		logger.Error("insight generation failed", observability.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, insight)
}

// HandleSources lists the registered data-source platforms.
func (h *Handler) HandleSources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	platforms, err := h.sources.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"platforms": platforms,
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

// parseWindow parses the from/to query parameters, defaulting to the last 30
// days. Dates accept RFC 3339 or plain YYYY-MM-DD.
func parseWindow(from, to string) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	if to != "" {
		parsed, err := parseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -30)
	if from != "" {
		parsed, err := parseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
		}
		start = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("to date precedes from date")
	}

	return start, end, nil
}

func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// writeError maps domain errors to HTTP statuses. Anything unexpected is a
// 502: the dashboard treats it as "insight temporarily unavailable".
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Error(w, err.Error(), http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
	}
}
