package repository

import (
	"context"

	"flightsearch-service/internal/domain/entity"
)

// SearchHistoryRepository defines the interface for search run persistence
type SearchHistoryRepository interface {
	Save(ctx context.Context, run *entity.SearchRun) error
	FindRecent(ctx context.Context, limit int) ([]entity.SearchRun, error)
}
