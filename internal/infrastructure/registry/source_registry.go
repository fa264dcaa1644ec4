package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"flightsearch-service/internal/domain/entity"
)

// SourceRegistry is the static, read-only catalog of flight data sources.
// It is populated once at startup from a JSON catalog file and preserves
// the file's ordering, so repeated runs iterate sources identically.
type SourceRegistry struct {
	sources []entity.SourceDescriptor
}

// NewSourceRegistry creates a registry over an already-built descriptor list
func NewSourceRegistry(sources []entity.SourceDescriptor) *SourceRegistry {
	return &SourceRegistry{sources: sources}
}

// LoadFromFile reads the source catalog from a JSON file. The catalog must
// not contain duplicate or empty source ids.
func LoadFromFile(path string) (*SourceRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source catalog: %w", err)
	}

	var sources []entity.SourceDescriptor
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parse source catalog %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if src.ID == "" {
			return nil, fmt.Errorf("source catalog %s: entry %q has no id", path, src.DisplayName)
		}
		if _, dup := seen[src.ID]; dup {
			return nil, fmt.Errorf("source catalog %s: duplicate source id %q", path, src.ID)
		}
		if src.Category != entity.CategoryDirectCarrier && src.Category != entity.CategoryAggregator {
			return nil, fmt.Errorf("source catalog %s: source %q has unknown category %q", path, src.ID, src.Category)
		}
		seen[src.ID] = struct{}{}
	}

	return &SourceRegistry{sources: sources}, nil
}

// ListSources returns the catalog in insertion order. The returned slice is
// a copy; the registry itself is never mutated after startup.
func (r *SourceRegistry) ListSources() []entity.SourceDescriptor {
	out := make([]entity.SourceDescriptor, len(r.sources))
	copy(out, r.sources)
	return out
}

// Len returns the number of registered sources
func (r *SourceRegistry) Len() int {
	return len(r.sources)
}
