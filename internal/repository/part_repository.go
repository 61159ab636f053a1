package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/carkit/carkit-api/internal/model"
)

// PartRepo stores custom parts.  Deleting a part cascades to its services.
type PartRepo struct{ db *gorm.DB }

func NewPartRepo(db *gorm.DB) *PartRepo { return &PartRepo{db: db} }

func (r *PartRepo) Create(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListForCar returns a car's parts newest first.
func (r *PartRepo) ListForCar(ctx context.Context, carID uint64) ([]model.Part, error) {
	var out []model.Part
	err := r.db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *PartRepo) ByIDForUser(ctx context.Context, id, userID uint64) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).
		Scopes(childOfCar("parts", userID)).
		Where("parts.id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PartRepo) Save(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete soft-deletes a part and its services in one transaction.
func (r *PartRepo) Delete(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("part_id = ?", p.ID).Delete(&model.Service{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
}
