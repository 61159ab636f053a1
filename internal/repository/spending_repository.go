package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/carkit/carkit-api/internal/model"
)

// SpendingRepo stores spending entries.
type SpendingRepo struct{ db *gorm.DB }

func NewSpendingRepo(db *gorm.DB) *SpendingRepo { return &SpendingRepo{db: db} }

func (r *SpendingRepo) Create(ctx context.Context, e *model.SpendingEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *SpendingRepo) ListForCar(ctx context.Context, carID uint64) ([]model.SpendingEntry, error) {
	var out []model.SpendingEntry
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

func (r *SpendingRepo) ByIDForUser(ctx context.Context, id, userID uint64) (*model.SpendingEntry, error) {
	var e model.SpendingEntry
	err := r.db.WithContext(ctx).
		Scopes(childOfCar("spending_entries", userID)).
		Where("spending_entries.id = ?", id).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *SpendingRepo) Delete(ctx context.Context, e *model.SpendingEntry) error {
	return r.db.WithContext(ctx).Delete(e).Error
}
