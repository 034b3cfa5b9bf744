package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/calculator"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-api/internal/infrastructure/metrics"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/report"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TeamCommissionReport is the commission summary of every staff member for a period
type TeamCommissionReport struct {
	Period          Period                        `json:"period"`
	GeneratedAt     time.Time                     `json:"generated_at"`
	Staff           []calculator.CommissionResult `json:"staff"`
	TotalRevenue    decimal.Decimal               `json:"total_revenue"`
	TotalCommission decimal.Decimal               `json:"total_commission"`
	SaleCount       int                           `json:"sale_count"`
}

// ExportFile is a rendered report ready to be downloaded
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CommissionService loads sales, staff and profiles through the repositories
// and runs the commission calculator over them.
type CommissionService struct {
	saleRepo    repository.SaleRepository
	staffRepo   repository.StaffRepository
	profileRepo repository.CommissionProfileRepository
	calc        *calculator.CommissionCalculator
	reportCache cache.ReportCache
	cacheTTL    time.Duration
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCommissionService creates a new commission service
func NewCommissionService(
	saleRepo repository.SaleRepository,
	staffRepo repository.StaffRepository,
	profileRepo repository.CommissionProfileRepository,
	calc *calculator.CommissionCalculator,
	reportCache cache.ReportCache,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CommissionService {
	return &CommissionService{
		saleRepo:    saleRepo,
		staffRepo:   staffRepo,
		profileRepo: profileRepo,
		calc:        calc,
		reportCache: reportCache,
		cacheTTL:    cacheTTL,
		metrics:     m,
		logger:      logger,
	}
}

// StaffReport computes the commission of one staff member for a period
func (s *CommissionService) StaffReport(ctx context.Context, staffID uuid.UUID, period Period) (*calculator.CommissionResult, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, apperror.NewNotFoundError("Staff")
	}

	sales, err := s.saleRepo.ListForPeriod(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileRepo.GetByIDs(ctx, staff.CommissionProfileIDs)
	if err != nil {
		return nil, err
	}

	result := s.calc.CalculateForStaff(*staff, sales, profiles)
	s.warnMissing(&result)
	return &result, nil
}

// TeamReport computes the commission of the whole team for a period.
// Reports are cached per tenant and period until a sale, staff assignment or
// profile changes.
func (s *CommissionService) TeamReport(ctx context.Context, period Period) (*TeamCommissionReport, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if payload, hit, err := s.reportCache.Get(ctx, tenantID, period.Key()); err != nil {
		s.logger.Warn("commission report cache read failed", zap.Error(err))
	} else if hit {
		var cached TeamCommissionReport
		if err := json.Unmarshal(payload, &cached); err == nil {
			s.metrics.CommissionReport(true)
			return &cached, nil
		}
	}

	rep, err := s.buildTeamReport(ctx, period)
	if err != nil {
		return nil, err
	}
	s.metrics.CommissionReport(false)

	if payload, err := json.Marshal(rep); err == nil {
		if err := s.reportCache.Set(ctx, tenantID, period.Key(), payload, s.cacheTTL); err != nil {
			s.logger.Warn("commission report cache write failed", zap.Error(err))
		}
	}
	return rep, nil
}

func (s *CommissionService) buildTeamReport(ctx context.Context, period Period) (*TeamCommissionReport, error) {
	staffList, err := s.staffRepo.ListAll(ctx, false)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListForPeriod(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	results := s.calc.CalculateForAllStaff(sales, staffList, profiles)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalCommission.GreaterThan(results[j].TotalCommission)
	})

	rep := &TeamCommissionReport{
		Period:          period,
		GeneratedAt:     time.Now().UTC(),
		Staff:           results,
		TotalRevenue:    decimal.Zero,
		TotalCommission: decimal.Zero,
	}
	for i := range results {
		s.warnMissing(&results[i])
		rep.TotalRevenue = rep.TotalRevenue.Add(results[i].TotalRevenue)
		rep.TotalCommission = rep.TotalCommission.Add(results[i].TotalCommission)
	}
	for i := range sales {
		if sales[i].Status.Counts() {
			rep.SaleCount++
		}
	}
	return rep, nil
}

// ExportTeamReport renders the team report as CSV or XLSX
func (s *CommissionService) ExportTeamReport(ctx context.Context, period Period, format report.Format) (*ExportFile, error) {
	rep, err := s.TeamReport(ctx, period)
	if err != nil {
		return nil, err
	}

	table := &report.Table{
		Title: "Commissions " + period.Key(),
		Columns: []string{
			"Staff", "Sales", "Items", "Service Revenue", "Product Revenue", "Total Revenue",
			"Service Commission", "Product Commission", "Total Commission", "Effective Rate %",
		},
	}
	for _, r := range rep.Staff {
		table.AddRow(
			r.StaffName, r.SaleCount, r.ItemCount,
			r.ServiceRevenue, r.ProductRevenue, r.TotalRevenue,
			r.ServiceCommission, r.ProductCommission, r.TotalCommission,
			r.EffectiveCommissionRate.Mul(decimal.NewFromInt(100)),
		)
	}
	table.AddRow("Total", rep.SaleCount, "", "", "", rep.TotalRevenue, "", "", rep.TotalCommission, "")

	var buf bytes.Buffer
	if err := report.Write(&buf, format, table); err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    "commissions_" + period.Key() + "." + string(format),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *CommissionService) warnMissing(result *calculator.CommissionResult) {
	if len(result.MissingProfileIDs) == 0 {
		return
	}
	ids := make([]string, len(result.MissingProfileIDs))
	for i, id := range result.MissingProfileIDs {
		ids[i] = id.String()
	}
	s.logger.Warn("staff has unknown commission profiles",
		zap.String("staff_id", result.StaffID.String()),
		zap.Strings("profile_ids", ids),
	)
}
