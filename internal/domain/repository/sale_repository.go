package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations.
// Lookups return (nil, nil) when the sale does not exist.
type SaleRepository interface {
	// Create stores the sale together with its items
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListForPeriod returns every sale in the period with its items loaded,
	// cancelled ones included. Nil bounds are open.
	ListForPeriod(ctx context.Context, start, end *time.Time) ([]entity.Sale, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SaleStatus
	StaffID    *uuid.UUID
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
