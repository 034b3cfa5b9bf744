package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CommissionProfileService manages commission profiles and their tiers
type CommissionProfileService struct {
	profileRepo repository.CommissionProfileRepository
	reportCache cache.ReportCache
	logger      *zap.Logger
}

// NewCommissionProfileService creates a new commission profile service
func NewCommissionProfileService(profileRepo repository.CommissionProfileRepository, reportCache cache.ReportCache, logger *zap.Logger) *CommissionProfileService {
	return &CommissionProfileService{
		profileRepo: profileRepo,
		reportCache: reportCache,
		logger:      logger,
	}
}

// TierInput is one threshold/rate pair
type TierInput struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// CommissionProfileInput represents the create and update profile input
type CommissionProfileInput struct {
	Name        string
	Type        enum.ProfileType
	ServiceRate decimal.Decimal
	ProductRate decimal.Decimal
	Scope       []string
	Tiers       []TierInput
}

func validateProfile(input *CommissionProfileInput) error {
	var fieldErrs apperror.FieldErrors

	if strings.TrimSpace(input.Name) == "" {
		fieldErrs.Add("name", "is required")
	}
	if !input.Type.Valid() {
		fieldErrs.Add("type", "must be item_based or target_based")
		return fieldErrs.Err()
	}

	switch input.Type {
	case enum.ProfileTypeItemBased:
		if input.ServiceRate.IsNegative() {
			fieldErrs.Add("service_rate", "must not be negative")
		}
		if input.ProductRate.IsNegative() {
			fieldErrs.Add("product_rate", "must not be negative")
		}
		if len(input.Tiers) > 0 {
			fieldErrs.Add("tiers", "are only used by target_based profiles")
		}
	case enum.ProfileTypeTargetBased:
		if len(input.Scope) > 0 {
			fieldErrs.Add("scope", "is only used by item_based profiles")
		}
		for i, tier := range input.Tiers {
			if tier.Threshold.IsNegative() {
				fieldErrs.Add(fmt.Sprintf("tiers[%d].threshold", i), "must not be negative")
			}
			if tier.Rate.IsNegative() {
				fieldErrs.Add(fmt.Sprintf("tiers[%d].rate", i), "must not be negative")
			}
			if i > 0 && !tier.Threshold.GreaterThan(input.Tiers[i-1].Threshold) {
				fieldErrs.Add(fmt.Sprintf("tiers[%d].threshold", i), "must be greater than the previous threshold")
			}
		}
	}

	return fieldErrs.Err()
}

func applyProfile(profile *entity.CommissionProfile, input *CommissionProfileInput) {
	profile.Name = strings.TrimSpace(input.Name)
	profile.Type = input.Type
	profile.ServiceRate = decimal.Zero
	profile.ProductRate = decimal.Zero
	profile.Scope = nil
	profile.Tiers = nil

	if input.Type == enum.ProfileTypeItemBased {
		profile.ServiceRate = input.ServiceRate
		profile.ProductRate = input.ProductRate
		for _, name := range input.Scope {
			if name = strings.TrimSpace(name); name != "" {
				profile.Scope = append(profile.Scope, name)
			}
		}
		return
	}

	for _, tier := range input.Tiers {
		profile.Tiers = append(profile.Tiers, entity.CommissionTier{
			ProfileID: profile.ID,
			Threshold: tier.Threshold,
			Rate:      tier.Rate,
		})
	}
}

// CreateProfile creates a new commission profile
func (s *CommissionProfileService) CreateProfile(ctx context.Context, input *CommissionProfileInput) (*entity.CommissionProfile, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if err := validateProfile(input); err != nil {
		return nil, err
	}

	profile := &entity.CommissionProfile{ID: uuid.New(), TenantID: tenantID}
	applyProfile(profile, input)

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile retrieves a commission profile by ID
func (s *CommissionProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*entity.CommissionProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NewNotFoundError("Commission profile")
	}
	return profile, nil
}

// ListProfiles lists commission profiles
func (s *CommissionProfileService) ListProfiles(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CommissionProfile], error) {
	params.Validate()

	profiles, total, err := s.profileRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(profiles, pag), nil
}

// UpdateProfile replaces a profile's rules, tiers included
func (s *CommissionProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, input *CommissionProfileInput) (*entity.CommissionProfile, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateProfile(input); err != nil {
		return nil, err
	}

	applyProfile(profile, input)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.invalidate(ctx, profile.TenantID)
	return profile, nil
}

// DeleteProfile deletes a profile. Staff still referencing it report it as missing.
func (s *CommissionProfileService) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, profile.TenantID)
	return nil
}

func (s *CommissionProfileService) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := s.reportCache.Invalidate(ctx, tenantID); err != nil {
		s.logger.Warn("failed to invalidate commission report cache", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}
