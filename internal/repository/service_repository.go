package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/carkit/carkit-api/internal/model"
)

// ServiceRepo stores maintenance visits.  Services sit two hops from the
// user (service -> part -> car), so lookups use the deeper chain scope.
type ServiceRepo struct{ db *gorm.DB }

func NewServiceRepo(db *gorm.DB) *ServiceRepo { return &ServiceRepo{db: db} }

func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// ListForPart returns a part's services newest-date first.  Callers verify
// part ownership before listing.
func (r *ServiceRepo) ListForPart(ctx context.Context, partID uint64) ([]model.Service, error) {
	var out []model.Service
	err := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

func (r *ServiceRepo) ByIDForUser(ctx context.Context, id, userID uint64) (*model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).
		Scopes(childOfPart("services", userID)).
		Where("services.id = ?", id).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) Save(ctx context.Context, s *model.Service) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *ServiceRepo) Delete(ctx context.Context, s *model.Service) error {
	return r.db.WithContext(ctx).Delete(s).Error
}
