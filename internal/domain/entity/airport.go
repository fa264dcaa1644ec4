package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airport is one known location identity. The set of airport codes backs
// the location-membership authenticity check.
type Airport struct {
	ID        uint
	Code      string
	Name      string
	CityName  string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
