package repository

import (
	"context"

	"flightsearch-service/internal/domain/entity"
)

// AirlineRepository defines the interface for known-carrier lookups
type AirlineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Airline, error)
	ListCodes(ctx context.Context) ([]string, error)
}
