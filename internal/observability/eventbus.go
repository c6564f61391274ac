package observability

import (
	"context"
	"log/slog"
)

// Event types published by the analytics core.
const (
	EventInsightGenerated  = "insight_generated"
	EventInsightSuppressed = "insight_suppressed"
	EventCacheRevalidated  = "cache_revalidated"
)

// EventBus publishes structured analytics events to a slog backend.
type EventBus struct {
	logger *slog.Logger
}

// NewEventBus creates a new event bus.
func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		logger: logger,
	}
}

// Publish publishes an event with the given type and data.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if e.logger == nil {
		return
	}

	// Convert map to slog attributes.
	attrs := make([]interface{}, 0, len(data)*2)
	for k, v := range data {
		attrs = append(attrs, k, v)
	}

	e.logger.InfoContext(ctx, eventType, attrs...)
}
