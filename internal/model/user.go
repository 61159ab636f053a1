package model

import "time"

// Provider tags recorded on a user row, identifying how the account was
// created.  Third-party accounts carry a placeholder password digest that
// can never match a login attempt.
const (
	ProviderLocal  = "carkit_api"
	ProviderApple  = "apple_account"
	ProviderGoogle = "google_account"
)

// User is the identity anchor of every ownership chain.  Soft deletion is an
// explicit flag rather than gorm.DeletedAt: soft-deleted rows must remain
// visible to the email-uniqueness check so a former email can be re-registered
// as a distinct account.
type User struct {
	ID        uint64     `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"index;size:255;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Provider  string     `gorm:"size:64" json:"provider"`
	ImageLink *string    `gorm:"size:512" json:"imageLink"`
	IsDeleted bool       `gorm:"not null;default:false" json:"-"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"-"`
}
