package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/calculator"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-api/internal/infrastructure/events"
	"github.com/sangkips/salon-api/internal/infrastructure/metrics"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
	"github.com/sangkips/salon-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleServiceConfig holds the sale defaults taken from configuration
type SaleServiceConfig struct {
	InvoicePrefix         string
	DefaultServiceTaxRate decimal.Decimal
}

// SaleService records sales and renders their receipts
type SaleService struct {
	saleRepo     repository.SaleRepository
	staffRepo    repository.StaffRepository
	customerRepo repository.CustomerRepository
	taxCalc      *calculator.TaxCalculator
	composer     *ReceiptComposer
	publisher    events.Publisher
	reportCache  cache.ReportCache
	metrics      *metrics.Metrics
	logger       *zap.Logger
	cfg          SaleServiceConfig
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	staffRepo repository.StaffRepository,
	customerRepo repository.CustomerRepository,
	taxCalc *calculator.TaxCalculator,
	composer *ReceiptComposer,
	publisher events.Publisher,
	reportCache cache.ReportCache,
	m *metrics.Metrics,
	logger *zap.Logger,
	cfg SaleServiceConfig,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		staffRepo:    staffRepo,
		customerRepo: customerRepo,
		taxCalc:      taxCalc,
		composer:     composer,
		publisher:    publisher,
		reportCache:  reportCache,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
	}
}

// SaleItemInput represents one line of a new sale
type SaleItemInput struct {
	Kind      enum.ItemKind
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal
	StaffID   *uuid.UUID
	StaffName string
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	CustomerID   *uuid.UUID
	StaffID      *uuid.UUID
	StaffName    string
	SaleDate     *time.Time
	Status       enum.SaleStatus
	Discount     decimal.Decimal
	DiscountType enum.DiscountType
	Tip          decimal.Decimal
	// ServiceTaxRate falls back to the configured default when nil
	ServiceTaxRate *decimal.Decimal
	PaymentType    string
	Items          []SaleItemInput
}

func (s *SaleService) buildSale(input *CreateSaleInput, tenantID uuid.UUID) *entity.Sale {
	saleDate := time.Now()
	if input.SaleDate != nil {
		saleDate = *input.SaleDate
	}
	serviceRate := s.cfg.DefaultServiceTaxRate
	if input.ServiceTaxRate != nil {
		serviceRate = *input.ServiceTaxRate
	}

	sale := &entity.Sale{
		TenantID:       tenantID,
		CustomerID:     input.CustomerID,
		StaffID:        input.StaffID,
		StaffName:      input.StaffName,
		SaleDate:       saleDate,
		Status:         input.Status,
		Discount:       input.Discount,
		DiscountType:   input.DiscountType,
		Tip:            input.Tip,
		ServiceTaxRate: serviceRate,
		PaymentType:    input.PaymentType,
		Items:          make([]entity.SaleItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		sale.Items = append(sale.Items, entity.SaleItem{
			Kind:      item.Kind,
			Name:      strings.TrimSpace(item.Name),
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
			TaxRate:   item.TaxRate,
			StaffID:   item.StaffID,
			StaffName: item.StaffName,
		})
	}
	return sale
}

func (s *SaleService) computeTotals(sale *entity.Sale, operation string) (*calculator.ReceiptTotals, error) {
	started := time.Now()
	totals, err := s.taxCalc.ComputeReceiptTotals(sale)
	s.metrics.ObserveReceipt(time.Since(started).Seconds())
	if err != nil {
		if apperror.IsValidationError(err) {
			s.metrics.ValidationFailed(operation)
		}
		return nil, err
	}
	return totals, nil
}

// CreateSale validates the sale through the tax calculator, snapshots its
// totals and stores it.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if !input.Status.Valid() {
		return nil, apperror.NewBadRequestError("Invalid sale status")
	}
	if input.Status == enum.SaleStatusCancelled {
		return nil, apperror.NewBadRequestError("A sale cannot be recorded as cancelled")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "items", Message: "at least one item is required"}})
	}

	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	sale := s.buildSale(input, tenantID)
	totals, err := s.computeTotals(sale, "create_sale")
	if err != nil {
		return nil, err
	}
	sale.SubTotal = totals.SubTotal
	sale.Tax = totals.Tax
	sale.Total = totals.Total
	sale.RoundOff = totals.RoundOff
	sale.InvoiceNo = utils.GenerateInvoiceNo(s.cfg.InvoicePrefix, sale.SaleDate)

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}

	s.metrics.SaleRecorded(sale.Status.String(), sale.Total.InexactFloat64())
	s.afterChange(ctx, sale, func() error { return s.publisher.PublishSaleRecorded(ctx, sale) })

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("invoice_no", sale.InvoiceNo),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.Int("items", len(sale.Items)),
	)
	return sale, nil
}

func (s *SaleService) checkReferences(ctx context.Context, input *CreateSaleInput) error {
	staffIDs := make(map[uuid.UUID]struct{})
	if input.StaffID != nil {
		staffIDs[*input.StaffID] = struct{}{}
	}
	for _, item := range input.Items {
		if item.StaffID != nil {
			staffIDs[*item.StaffID] = struct{}{}
		}
	}
	for id := range staffIDs {
		staff, err := s.staffRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if staff == nil {
			return apperror.NewNotFoundError("Staff")
		}
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}
	}
	return nil
}

// afterChange publishes the sale event and drops cached commission reports.
// Neither failure undoes the stored change.
func (s *SaleService) afterChange(ctx context.Context, sale *entity.Sale, publish func() error) {
	if err := publish(); err != nil {
		s.logger.Warn("failed to publish sale event", zap.String("sale_id", sale.ID.String()), zap.Error(err))
	}
	if err := s.reportCache.Invalidate(ctx, sale.TenantID); err != nil {
		s.logger.Warn("failed to invalidate commission report cache", zap.String("tenant_id", sale.TenantID.String()), zap.Error(err))
	}
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filters
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// UpdateSaleStatus moves a sale between payment states. Cancelled sales are final.
func (s *SaleService) UpdateSaleStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) (*entity.Sale, error) {
	if !status.Valid() {
		return nil, apperror.NewBadRequestError("Invalid sale status")
	}

	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status == enum.SaleStatusCancelled {
		return nil, apperror.NewConflictError("Sale is cancelled")
	}
	if sale.Status == status {
		return sale, nil
	}

	previous := sale.Status
	if err := s.saleRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	sale.Status = status

	s.afterChange(ctx, sale, func() error { return s.publisher.PublishSaleStatusChanged(ctx, sale, previous) })
	return sale, nil
}

// CancelSale cancels a sale so it no longer counts toward commission
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID, reason string) (*entity.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status == enum.SaleStatusCancelled {
		return nil, apperror.NewConflictError("Sale is already cancelled")
	}

	if err := s.saleRepo.UpdateStatus(ctx, id, enum.SaleStatusCancelled); err != nil {
		return nil, err
	}
	sale.Status = enum.SaleStatusCancelled

	s.afterChange(ctx, sale, func() error { return s.publisher.PublishSaleCancelled(ctx, sale, reason) })
	s.logger.Info("sale cancelled", zap.String("sale_id", sale.ID.String()), zap.String("reason", reason))
	return sale, nil
}

// GetReceipt recomputes the totals of a stored sale and renders its receipt
func (s *SaleService) GetReceipt(ctx context.Context, id uuid.UUID) (*SaleReceipt, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.receipt(ctx, sale, "get_receipt")
}

// PreviewReceipt computes the receipt of a sale that has not been recorded
func (s *SaleService) PreviewReceipt(ctx context.Context, input *CreateSaleInput) (*SaleReceipt, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	sale := s.buildSale(input, tenantID)
	sale.InvoiceNo = "PREVIEW"
	return s.receipt(ctx, sale, "preview_receipt")
}

func (s *SaleService) receipt(ctx context.Context, sale *entity.Sale, operation string) (*SaleReceipt, error) {
	totals, err := s.computeTotals(sale, operation)
	if err != nil {
		return nil, err
	}

	staffNames := make(map[uuid.UUID]string)
	lookup := func(id *uuid.UUID) {
		if id == nil {
			return
		}
		if _, done := staffNames[*id]; done {
			return
		}
		if staff, err := s.staffRepo.GetByID(ctx, *id); err == nil && staff != nil {
			staffNames[*id] = staff.Name
		}
	}
	lookup(sale.StaffID)
	for i := range sale.Items {
		lookup(sale.Items[i].StaffID)
	}

	var customerName string
	if sale.CustomerID != nil {
		if customer, err := s.customerRepo.GetByID(ctx, *sale.CustomerID); err == nil && customer != nil {
			customerName = customer.Name
		}
	}

	return &SaleReceipt{
		Receipt: s.composer.Compose(sale, totals, staffNames, customerName),
		Totals:  totals,
	}, nil
}
