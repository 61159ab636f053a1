package model

import (
	"time"

	"gorm.io/gorm"
)

// Service is a maintenance visit for a specific part.  A spending entry may
// reference a service via SpendingEntry.ServiceID (optional one-to-one).
type Service struct {
	ID        uint64         `gorm:"primaryKey" json:"id"`
	PartID    uint64         `gorm:"index;not null" json:"partId"`
	Date      string         `gorm:"size:32;not null" json:"date"`
	Mileage   int64          `json:"mileage"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
