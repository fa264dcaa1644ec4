package repository

import "flightsearch-service/internal/domain/entity"

// SourceCatalog is the read-only registry of flight data sources. Iteration
// order is insertion order so repeated runs are reproducible.
type SourceCatalog interface {
	ListSources() []entity.SourceDescriptor
}
