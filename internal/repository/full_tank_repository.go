package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/carkit/carkit-api/internal/model"
)

// FullTankRepo stores fuel fill-up entries.
type FullTankRepo struct{ db *gorm.DB }

func NewFullTankRepo(db *gorm.DB) *FullTankRepo { return &FullTankRepo{db: db} }

func (r *FullTankRepo) Create(ctx context.Context, e *model.FullTankEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *FullTankRepo) ListForCar(ctx context.Context, carID uint64) ([]model.FullTankEntry, error) {
	var out []model.FullTankEntry
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

func (r *FullTankRepo) ByIDForUser(ctx context.Context, id, userID uint64) (*model.FullTankEntry, error) {
	var e model.FullTankEntry
	err := r.db.WithContext(ctx).
		Scopes(childOfCar("full_tank_entries", userID)).
		Where("full_tank_entries.id = ?", id).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *FullTankRepo) Delete(ctx context.Context, e *model.FullTankEntry) error {
	return r.db.WithContext(ctx).Delete(e).Error
}
