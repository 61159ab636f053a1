package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/carkit/carkit-api/internal/model"
)

// UserRepo owns the account lifecycle: creation, credential updates and soft
// deletion.  Exactly one non-deleted user may exist per email; soft-deleted
// rows keep their email so the address can be registered again as a new,
// distinct account.
type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user after checking that no live account uses the
// email.  The passed password must already be a digest (or the third-party
// placeholder).
func (r *UserRepo) Create(ctx context.Context, email, passwordDigest, provider string) (*model.User, error) {
	email = strings.TrimSpace(email)
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND is_deleted = ?", email, false).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}
	u := &model.User{
		Email:    email,
		Password: passwordDigest,
		Provider: provider,
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetActiveByEmail fetches a non-deleted user by email.
func (r *UserRepo) GetActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", strings.TrimSpace(email), false).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetActiveByID fetches a non-deleted user by id.  The authorization gate
// calls this on every protected request.
func (r *UserRepo) GetActiveByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Save persists in-place mutations of a user row (profile updates, password
// changes, image link changes).
func (r *UserRepo) Save(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// SoftDelete marks the account deleted without removing the row.
func (r *UserRepo) SoftDelete(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	u.IsDeleted = true
	u.DeletedAt = &now
	return r.db.WithContext(ctx).Save(u).Error
}
