package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airline is one known carrier identity. The set of airline codes backs the
// carrier-membership authenticity check.
type Airline struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
