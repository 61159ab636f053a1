package model

import (
	"time"

	"gorm.io/gorm"
)

// Part is a custom vehicle part tracked per car.  Services hang off parts,
// which makes the authorization chain for a service three hops long
// (service -> part -> car -> user).
type Part struct {
	ID              uint64         `gorm:"primaryKey" json:"id"`
	CarID           uint64         `gorm:"index;not null" json:"carId"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Status          string         `gorm:"size:64;not null" json:"status"`
	AdvicedRevision *string        `gorm:"size:255" json:"advicedRevision"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
