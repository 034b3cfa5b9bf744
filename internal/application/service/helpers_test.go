package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/calculator"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-api/internal/infrastructure/events"
	"github.com/sangkips/salon-api/internal/infrastructure/memory"
	"github.com/sangkips/salon-api/internal/infrastructure/metrics"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEnv struct {
	ctx        context.Context
	tenantID   uuid.UUID
	store      *memory.Store
	publisher  *events.MockPublisher
	cache      *cache.MemoryReportCache
	metrics    *metrics.Metrics
	sales      *SaleService
	staff      *StaffService
	customers  *CustomerService
	profiles   *CommissionProfileService
	commission *CommissionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		tenantID:  uuid.New(),
		store:     memory.NewStore(),
		publisher: events.NewMockPublisher(),
		cache:     cache.NewMemoryReportCache(),
		metrics:   metrics.New(),
	}
	env.ctx = infraRepo.WithTenant(context.Background(), env.tenantID)

	logger := zap.NewNop()
	composer := NewReceiptComposer(entity.ReceiptHeader{StoreName: "Glow Salon", TaxID: "29ABCDE1234F1Z5"})

	env.sales = NewSaleService(
		env.store.Sales(), env.store.Staff(), env.store.Customers(),
		calculator.NewTaxCalculator(calculator.DefaultTaxModel()),
		composer, env.publisher, env.cache, env.metrics, logger,
		SaleServiceConfig{InvoicePrefix: "INV", DefaultServiceTaxRate: dec("18")},
	)
	env.staff = NewStaffService(env.store.Staff(), env.store.Profiles(), env.cache, logger)
	env.customers = NewCustomerService(env.store.Customers())
	env.profiles = NewCommissionProfileService(env.store.Profiles(), env.cache, logger)
	env.commission = NewCommissionService(
		env.store.Sales(), env.store.Staff(), env.store.Profiles(),
		calculator.NewCommissionCalculator(calculator.DefaultCommissionOptions()),
		env.cache, time.Minute, env.metrics, logger,
	)
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

func service(name, price string, qty int, staffID *uuid.UUID) SaleItemInput {
	return SaleItemInput{Kind: enum.ItemKindService, Name: name, UnitPrice: dec(price), Quantity: qty, StaffID: staffID}
}

func product(name, price string, qty int, rate string, staffID *uuid.UUID) SaleItemInput {
	return SaleItemInput{Kind: enum.ItemKindProduct, Name: name, UnitPrice: dec(price), Quantity: qty, TaxRate: dec(rate), StaffID: staffID}
}

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}
