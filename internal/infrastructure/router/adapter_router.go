package router

import (
	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/usecase"
	"flightsearch-service/pkg/logger"
)

// AdapterRouter routes sources to the appropriate adapter. Specific source
// ids take precedence over category-level registrations.
type AdapterRouter struct {
	byID       map[string]usecase.SourceAdapter
	byCategory map[entity.SourceCategory]usecase.SourceAdapter
	logger     logger.Logger
}

// NewAdapterRouter creates a new adapter router
func NewAdapterRouter(logger logger.Logger) *AdapterRouter {
	return &AdapterRouter{
		byID:       make(map[string]usecase.SourceAdapter),
		byCategory: make(map[entity.SourceCategory]usecase.SourceAdapter),
		logger:     logger,
	}
}

// RegisterSource registers an adapter for one specific source id
func (r *AdapterRouter) RegisterSource(sourceID string, adapter usecase.SourceAdapter) {
	r.byID[sourceID] = adapter
	r.logger.Info("Registered source adapter", "source", sourceID)
}

// RegisterCategory registers an adapter for every source of a category
func (r *AdapterRouter) RegisterCategory(category entity.SourceCategory, adapter usecase.SourceAdapter) {
	r.byCategory[category] = adapter
	r.logger.Info("Registered category adapter", "category", string(category))
}

// ForSource returns the adapter serving the given source, or nil when none
// is registered
func (r *AdapterRouter) ForSource(source entity.SourceDescriptor) usecase.SourceAdapter {
	if adapter, ok := r.byID[source.ID]; ok {
		return adapter
	}
	return r.byCategory[source.Category]
}
