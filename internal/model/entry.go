package model

import (
	"time"

	"gorm.io/gorm"
)

// The three car-owned journal rows.  Date is stored as an ISO yyyy-mm-dd
// string, so descending lexical order equals descending date order on list
// endpoints.

// MileageEntry records an odometer reading for a car.
type MileageEntry struct {
	ID        uint64         `gorm:"primaryKey" json:"id"`
	CarID     uint64         `gorm:"index;not null" json:"carId"`
	Mileage   int64          `gorm:"not null" json:"mileage"`
	Date      string         `gorm:"size:32;not null" json:"date"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullTankEntry records a fuel fill-up: quantity in the given unit, total
// cost and the odometer reading at the pump.
type FullTankEntry struct {
	ID        uint64         `gorm:"primaryKey" json:"id"`
	CarID     uint64         `gorm:"index;not null" json:"carId"`
	Quantity  float64        `gorm:"not null" json:"quantity"`
	Unit      string         `gorm:"size:32" json:"unit"`
	Cost      float64        `gorm:"not null" json:"cost"`
	Mileage   int64          `json:"mileage"`
	Date      string         `gorm:"size:32;not null" json:"date"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SpendingEntry records money spent on a car.  It can optionally point at
// the part it was spent on and at the service visit it paid for.
type SpendingEntry struct {
	ID         uint64         `gorm:"primaryKey" json:"id"`
	CarID      uint64         `gorm:"index;not null" json:"carId"`
	PartID     *uint64        `gorm:"index" json:"partId"`
	ServiceID  *uint64        `gorm:"index" json:"serviceId"`
	Amount     float64        `gorm:"not null" json:"amount"`
	Type       string         `gorm:"size:64;not null" json:"type"`
	Name       *string        `gorm:"size:255" json:"name"`
	Recurrence *string        `gorm:"size:64" json:"recurrence"`
	Quantity   *float64       `json:"quantity"`
	Unit       *string        `gorm:"size:32" json:"unit"`
	Date       string         `gorm:"size:32;not null" json:"date"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
