package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/carkit/carkit-api/internal/model"
)

// CarRepo encapsulates all database queries related to cars.  Every lookup
// that takes a userID filters ownership in the query itself.
type CarRepo struct{ db *gorm.DB }

func NewCarRepo(db *gorm.DB) *CarRepo { return &CarRepo{db: db} }

// Create inserts a new car for its owning user.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// ByIDForUser fetches a car by id only if it belongs to the given user.
// A car owned by someone else yields the same ErrNotFound as a missing id.
func (r *CarRepo) ByIDForUser(ctx context.Context, id, userID uint64) (*model.Car, error) {
	var c model.Car
	err := r.db.WithContext(ctx).
		Scopes(carOwnedBy(userID)).
		Where("cars.id = ?", id).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListForUser returns all live cars of a user ordered by id.
func (r *CarRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Car, error) {
	var out []model.Car
	err := r.db.WithContext(ctx).
		Scopes(carOwnedBy(userID)).
		Order("cars.id").
		Find(&out).Error
	return out, err
}

// Save persists in-place mutations of a car row.
func (r *CarRepo) Save(ctx context.Context, c *model.Car) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete soft-deletes a car and cascades to everything it owns: mileage,
// full-tank and spending entries, parts and, through the parts, services.
// The whole cascade runs in one transaction so a failure leaves no partial
// delete behind.
func (r *CarRepo) Delete(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		partIDs := tx.Model(&model.Part{}).Select("id").Where("car_id = ?", car.ID)
		if err := tx.Where("part_id IN (?)", partIDs).Delete(&model.Service{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", car.ID).Delete(&model.Part{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", car.ID).Delete(&model.MileageEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", car.ID).Delete(&model.FullTankEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", car.ID).Delete(&model.SpendingEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(car).Error
	})
}
