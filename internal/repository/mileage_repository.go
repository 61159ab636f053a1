package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/carkit/carkit-api/internal/model"
)

// MileageRepo stores odometer entries.  Reads and deletes resolve the
// one-hop chain entry -> car -> user in a single joined query.
type MileageRepo struct{ db *gorm.DB }

func NewMileageRepo(db *gorm.DB) *MileageRepo { return &MileageRepo{db: db} }

func (r *MileageRepo) Create(ctx context.Context, e *model.MileageEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ListForCar returns the entries of a car newest-date first.  Callers verify
// car ownership before listing.
func (r *MileageRepo) ListForCar(ctx context.Context, carID uint64) ([]model.MileageEntry, error) {
	var out []model.MileageEntry
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

// ByIDForUser fetches an entry through the ownership chain.
func (r *MileageRepo) ByIDForUser(ctx context.Context, id, userID uint64) (*model.MileageEntry, error) {
	var e model.MileageEntry
	err := r.db.WithContext(ctx).
		Scopes(childOfCar("mileage_entries", userID)).
		Where("mileage_entries.id = ?", id).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *MileageRepo) Delete(ctx context.Context, e *model.MileageEntry) error {
	return r.db.WithContext(ctx).Delete(e).Error
}
