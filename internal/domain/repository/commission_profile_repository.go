package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// CommissionProfileRepository defines the interface for commission profile
// data operations. Profiles are always returned with their tiers.
type CommissionProfileRepository interface {
	Create(ctx context.Context, profile *entity.CommissionProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CommissionProfile, error)
	// GetByIDs returns the profiles that exist; unknown ids are skipped
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.CommissionProfile, error)
	// Update saves the profile and replaces its tiers
	Update(ctx context.Context, profile *entity.CommissionProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CommissionProfile, int64, error)
	ListAll(ctx context.Context) ([]entity.CommissionProfile, error)
}
