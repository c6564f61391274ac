// Package registry tracks connected data-source platforms.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
)

// Registry implements the domain.SourceRegistry interface.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]domain.MetricsSource
}

// NewRegistry creates a new source registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:      sync.RWMutex{},
		sources: make(map[string]domain.MetricsSource),
	}
}

// Register adds a source to the registry.
func (r *Registry) Register(_ context.Context, source domain.MetricsSource) error {
	if source == nil {
		return errors.New("source cannot be nil")
	}

	platform := source.Platform()
	if platform == "" {
		return errors.New("source platform cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[platform]; exists {
		return fmt.Errorf("source %s already registered", platform)
	}

	r.sources[platform] = source
	return nil
}

// Get retrieves a source by platform name.
func (r *Registry) Get(_ context.Context, platform string) (domain.MetricsSource, error) {
	if platform == "" {
		return nil, errors.New("platform cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.sources[platform]
	if !exists {
		return nil, fmt.Errorf("source %s not found", platform)
	}

	return source, nil
}

// List returns all registered platform names.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]string, 0, len(r.sources))
	for platform := range r.sources {
		platforms = append(platforms, platform)
	}

	return platforms, nil
}
