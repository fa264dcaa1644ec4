package repository

import (
	"context"

	"flightsearch-service/internal/domain/entity"
)

// AirportRepository defines the interface for known-location lookups
type AirportRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airport, error)
	ListCodes(ctx context.Context) ([]string, error)
}
