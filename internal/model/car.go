package model

import (
	"time"

	"gorm.io/gorm"
)

// Car belongs to exactly one user.  Every other entity in the system hangs
// off a car (directly, or via a part for services), so all authorization
// walks back to UserID.
type Car struct {
	ID             uint64         `gorm:"primaryKey" json:"id"`
	UserID         uint64         `gorm:"index;not null" json:"-"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Brand          string         `gorm:"size:255" json:"brand"`
	Model          string         `gorm:"size:255" json:"model"`
	Type           string         `gorm:"size:64" json:"type"`
	Year           int            `json:"year"`
	MileageAtStart int64          `json:"mileageAtStart"`
	ImageURL       *string        `gorm:"size:512" json:"imageUrl"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
