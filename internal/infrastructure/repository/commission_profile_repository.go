package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/pkg/pagination"
	"gorm.io/gorm"
)

type commissionProfileRepository struct {
	db *gorm.DB
}

// NewCommissionProfileRepository creates a new commission profile repository
func NewCommissionProfileRepository(db *gorm.DB) domainRepo.CommissionProfileRepository {
	return &commissionProfileRepository{db: db}
}

func (r *commissionProfileRepository) Create(ctx context.Context, profile *entity.CommissionProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *commissionProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CommissionProfile, error) {
	var profile entity.CommissionProfile
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("threshold ASC") }).
		First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &profile, err
}

func (r *commissionProfileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.CommissionProfile, error) {
	var profiles []entity.CommissionProfile
	if len(ids) == 0 {
		return profiles, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("threshold ASC") }).
		Where("id IN ?", ids).
		Find(&profiles).Error
	return profiles, err
}

func (r *commissionProfileRepository) Update(ctx context.Context, profile *entity.CommissionProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&entity.CommissionTier{}).Error; err != nil {
			return err
		}
		for i := range profile.Tiers {
			profile.Tiers[i].ID = uuid.Nil
			profile.Tiers[i].ProfileID = profile.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(profile).Error
	})
}

func (r *commissionProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&entity.CommissionTier{}).Error; err != nil {
			return err
		}
		return tx.Scopes(TenantScope(ctx)).Delete(&entity.CommissionProfile{}, "id = ?", id).Error
	})
}

func (r *commissionProfileRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CommissionProfile, int64, error) {
	var profiles []entity.CommissionProfile
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CommissionProfile{}).Scopes(TenantScope(ctx))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("threshold ASC") }).
		Order("name ASC").
		Find(&profiles).Error

	return profiles, total, err
}

func (r *commissionProfileRepository) ListAll(ctx context.Context) ([]entity.CommissionProfile, error) {
	var profiles []entity.CommissionProfile
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("threshold ASC") }).
		Order("name ASC").
		Find(&profiles).Error
	return profiles, err
}
