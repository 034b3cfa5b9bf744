package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
	"go.uber.org/zap"
)

// StaffService handles staff-related operations
type StaffService struct {
	staffRepo   repository.StaffRepository
	profileRepo repository.CommissionProfileRepository
	reportCache cache.ReportCache
	logger      *zap.Logger
}

// NewStaffService creates a new staff service
func NewStaffService(
	staffRepo repository.StaffRepository,
	profileRepo repository.CommissionProfileRepository,
	reportCache cache.ReportCache,
	logger *zap.Logger,
) *StaffService {
	return &StaffService{
		staffRepo:   staffRepo,
		profileRepo: profileRepo,
		reportCache: reportCache,
		logger:      logger,
	}
}

// CreateStaffInput represents the create staff input
type CreateStaffInput struct {
	Name                 string
	Email                string
	Phone                string
	Role                 string
	CommissionProfileIDs []uuid.UUID
}

// CreateStaff creates a new staff member
func (s *StaffService) CreateStaff(ctx context.Context, input *CreateStaffInput) (*entity.Staff, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "is required"}})
	}

	profileIDs, err := s.checkProfiles(ctx, input.CommissionProfileIDs)
	if err != nil {
		return nil, err
	}

	staff := &entity.Staff{
		TenantID:             tenantID,
		Name:                 name,
		Email:                input.Email,
		Phone:                input.Phone,
		Role:                 input.Role,
		Active:               true,
		CommissionProfileIDs: profileIDs,
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID)
	return staff, nil
}

// GetStaff retrieves a staff member by ID
func (s *StaffService) GetStaff(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, apperror.NewNotFoundError("Staff")
	}
	return staff, nil
}

// ListStaff lists staff members
func (s *StaffService) ListStaff(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Staff], error) {
	params.Validate()

	staff, total, err := s.staffRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(staff, pag), nil
}

// UpdateStaffInput represents the update staff input
type UpdateStaffInput struct {
	ID     uuid.UUID
	Name   *string
	Email  *string
	Phone  *string
	Role   *string
	Active *bool
}

// UpdateStaff updates a staff member
func (s *StaffService) UpdateStaff(ctx context.Context, input *UpdateStaffInput) (*entity.Staff, error) {
	staff, err := s.GetStaff(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "must not be blank"}})
		}
		staff.Name = name
	}
	if input.Email != nil {
		staff.Email = *input.Email
	}
	if input.Phone != nil {
		staff.Phone = *input.Phone
	}
	if input.Role != nil {
		staff.Role = *input.Role
	}
	if input.Active != nil {
		staff.Active = *input.Active
	}

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	s.invalidate(ctx, staff.TenantID)
	return staff, nil
}

// AssignProfiles replaces the commission profiles assigned to a staff member
func (s *StaffService) AssignProfiles(ctx context.Context, id uuid.UUID, profileIDs []uuid.UUID) (*entity.Staff, error) {
	staff, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	ids, err := s.checkProfiles(ctx, profileIDs)
	if err != nil {
		return nil, err
	}
	staff.CommissionProfileIDs = ids

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	s.invalidate(ctx, staff.TenantID)
	return staff, nil
}

// DeleteStaff deletes a staff member. Recorded sales keep their attribution.
func (s *StaffService) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	staff, err := s.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	if err := s.staffRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, staff.TenantID)
	return nil
}

// invalidate drops cached commission reports, since they embed staff names and profiles
func (s *StaffService) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := s.reportCache.Invalidate(ctx, tenantID); err != nil {
		s.logger.Warn("failed to invalidate commission report cache", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}

// checkProfiles deduplicates ids and rejects any that do not exist for the tenant
func (s *StaffService) checkProfiles(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return out, nil
	}

	found, err := s.profileRepo.GetByIDs(ctx, out)
	if err != nil {
		return nil, err
	}
	if len(found) != len(out) {
		exists := make(map[uuid.UUID]struct{}, len(found))
		for _, p := range found {
			exists[p.ID] = struct{}{}
		}
		var fieldErrs apperror.FieldErrors
		for _, id := range out {
			if _, ok := exists[id]; !ok {
				fieldErrs.Add("commission_profile_ids", "unknown profile "+id.String())
			}
		}
		return nil, fieldErrs.Err()
	}
	return out, nil
}
