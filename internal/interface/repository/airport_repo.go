package repository

import (
	"context"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) repository.AirportRepository {
	return &GormAirportRepository{
		db: db,
	}
}

// Airports GORM model for database mapping
type Airports struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	CityName  string         `gorm:"column:cityname"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "m_airports"
}

// GetByCode finds an airport by IATA code
func (r *GormAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	var airport Airports
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&airport)

	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.Airport{
		ID:        airport.ID,
		Code:      airport.Code,
		Name:      airport.Name,
		CityName:  airport.CityName,
		CreatedAt: airport.CreatedAt,
		UpdatedAt: airport.UpdatedAt,
		DeletedAt: airport.DeletedAt,
	}, nil
}

// ListCodes returns every known airport IATA code
func (r *GormAirportRepository) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	result := r.db.WithContext(ctx).Model(&Airports{}).Pluck("code", &codes)
	if result.Error != nil {
		return nil, result.Error
	}
	return codes, nil
}
