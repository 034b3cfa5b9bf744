package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/events"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_CreateSale(t *testing.T) {
	env := newTestEnv(t)
	stylist, err := env.staff.CreateStaff(env.ctx, &CreateStaffInput{Name: "Asha"})
	require.NoError(t, err)

	sale, err := env.sales.CreateSale(env.ctx, &CreateSaleInput{
		StaffID:  &stylist.ID,
		SaleDate: day("2024-01-15"),
		Tip:      dec("50"),
		Items: []SaleItemInput{
			service("Haircut", "500", 1, nil),
			product("Shampoo", "300", 2, "12", nil),
		},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^INV-20240115-`, sale.InvoiceNo)
	assert.Equal(t, env.tenantID, sale.TenantID)
	assertDecimal(t, "18", sale.ServiceTaxRate)
	assertDecimal(t, "1100", sale.SubTotal)
	assertDecimal(t, "162", sale.Tax)
	assertDecimal(t, "1312", sale.Total)
	assertDecimal(t, "0", sale.RoundOff)

	stored, err := env.sales.GetSale(env.ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, []events.EventType{events.EventTypeSaleRecorded}, env.publisher.Types())
}

func TestSaleService_CreateSale_TrimsItemNames(t *testing.T) {
	env := newTestEnv(t)
	profile, err := env.profiles.CreateProfile(env.ctx, &CommissionProfileInput{
		Name:        "Cuts only",
		Type:        enum.ProfileTypeItemBased,
		ServiceRate: dec("10"),
		Scope:       []string{"Haircut"},
	})
	require.NoError(t, err)
	stylist, err := env.staff.CreateStaff(env.ctx, &CreateStaffInput{Name: "Asha", CommissionProfileIDs: []uuid.UUID{profile.ID}})
	require.NoError(t, err)

	sale, err := env.sales.CreateSale(env.ctx, &CreateSaleInput{
		StaffID:  &stylist.ID,
		SaleDate: day("2024-01-15"),
		Items: []SaleItemInput{
			service(" Haircut ", "500", 1, nil),
			service("Color", "300", 1, nil),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Haircut", sale.Items[0].Name)

	period, err := NewPeriod(nil, nil)
	require.NoError(t, err)
	result, err := env.commission.StaffReport(env.ctx, stylist.ID, period)
	require.NoError(t, err)
	assertDecimal(t, "50", result.TotalCommission)
}

func TestSaleService_CreateSale_Rejects(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		input *CreateSaleInput
		code  int
	}{
		{
			name:  "no items",
			input: &CreateSaleInput{},
			code:  http.StatusUnprocessableEntity,
		},
		{
			name:  "negative price",
			input: &CreateSaleInput{Items: []SaleItemInput{service("Haircut", "-1", 1, nil)}},
			code:  http.StatusUnprocessableEntity,
		},
		{
			name:  "zero quantity",
			input: &CreateSaleInput{Items: []SaleItemInput{service("Haircut", "100", 0, nil)}},
			code:  http.StatusUnprocessableEntity,
		},
		{
			name:  "discount above subtotal",
			input: &CreateSaleInput{Discount: dec("500"), Items: []SaleItemInput{service("Haircut", "100", 1, nil)}},
			code:  http.StatusUnprocessableEntity,
		},
		{
			name:  "recorded as cancelled",
			input: &CreateSaleInput{Status: enum.SaleStatusCancelled, Items: []SaleItemInput{service("Haircut", "100", 1, nil)}},
			code:  http.StatusBadRequest,
		},
		{
			name: "unknown staff",
			input: &CreateSaleInput{Items: []SaleItemInput{
				service("Haircut", "100", 1, func() *uuid.UUID { id := uuid.New(); return &id }()),
			}},
			code: http.StatusNotFound,
		},
		{
			name: "unknown customer",
			input: &CreateSaleInput{
				CustomerID: func() *uuid.UUID { id := uuid.New(); return &id }(),
				Items:      []SaleItemInput{service("Haircut", "100", 1, nil)},
			},
			code: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sales.CreateSale(env.ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperror.GetAppError(err).Code)
		})
	}

	assert.Empty(t, env.publisher.Types())
}

func TestSaleService_CreateSale_RequiresTenant(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sales.CreateSale(context.Background(), &CreateSaleInput{
		Items: []SaleItemInput{service("Haircut", "100", 1, nil)},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestSaleService_StatusLifecycle(t *testing.T) {
	env := newTestEnv(t)
	sale, err := env.sales.CreateSale(env.ctx, &CreateSaleInput{
		Status: enum.SaleStatusUnpaid,
		Items:  []SaleItemInput{service("Facial", "1200", 1, nil)},
	})
	require.NoError(t, err)

	updated, err := env.sales.UpdateSaleStatus(env.ctx, sale.ID, enum.SaleStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCompleted, updated.Status)

	// same status is a no-op
	_, err = env.sales.UpdateSaleStatus(env.ctx, sale.ID, enum.SaleStatusCompleted)
	require.NoError(t, err)

	cancelled, err := env.sales.CancelSale(env.ctx, sale.ID, "customer dispute")
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCancelled, cancelled.Status)

	_, err = env.sales.CancelSale(env.ctx, sale.ID, "")
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	_, err = env.sales.UpdateSaleStatus(env.ctx, sale.ID, enum.SaleStatusCompleted)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	assert.Equal(t, []events.EventType{
		events.EventTypeSaleRecorded,
		events.EventTypeSaleStatusChanged,
		events.EventTypeSaleCancelled,
	}, env.publisher.Types())
}

func TestSaleService_GetSale_OtherTenant(t *testing.T) {
	env := newTestEnv(t)
	sale, err := env.sales.CreateSale(env.ctx, &CreateSaleInput{Items: []SaleItemInput{service("Manicure", "400", 1, nil)}})
	require.NoError(t, err)

	otherTenant := infraRepo.WithTenant(context.Background(), uuid.New())
	_, err = env.sales.GetSale(otherTenant, sale.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestSaleService_ListSales(t *testing.T) {
	env := newTestEnv(t)
	for _, d := range []string{"2024-01-10", "2024-01-20", "2024-02-05"} {
		_, err := env.sales.CreateSale(env.ctx, &CreateSaleInput{
			SaleDate: day(d),
			Items:    []SaleItemInput{service("Haircut", "500", 1, nil)},
		})
		require.NoError(t, err)
	}

	result, err := env.sales.ListSales(env.ctx, &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		StartDate:  day("2024-01-01"),
		EndDate:    day("2024-01-31"),
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Pagination.Total)

	result, err = env.sales.ListSales(env.ctx, &repository.SaleFilterParams{})
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	assert.Equal(t, 15, result.Pagination.PerPage)
}

func TestSaleService_GetReceipt(t *testing.T) {
	env := newTestEnv(t)
	stylist, err := env.staff.CreateStaff(env.ctx, &CreateStaffInput{Name: "Ravi"})
	require.NoError(t, err)
	customer, err := env.customers.CreateCustomer(env.ctx, &CreateCustomerInput{Name: "Meera"})
	require.NoError(t, err)

	sale, err := env.sales.CreateSale(env.ctx, &CreateSaleInput{
		CustomerID:  &customer.ID,
		PaymentType: "card",
		Items: []SaleItemInput{
			service("Hair Color", "199.50", 1, &stylist.ID),
		},
	})
	require.NoError(t, err)

	rec, err := env.sales.GetReceipt(env.ctx, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, "Glow Salon", rec.Receipt.Header.StoreName)
	assert.Equal(t, sale.InvoiceNo, rec.Receipt.InvoiceNo)
	assert.Equal(t, "Meera", rec.Receipt.Customer)
	require.Len(t, rec.Receipt.Items, 1)
	assert.Equal(t, "Ravi", rec.Receipt.Items[0].StaffName)
	assertDecimal(t, "18", rec.Receipt.Items[0].TaxRate)
	require.Len(t, rec.Receipt.TaxLines, 1)
	assertDecimal(t, "35.91", rec.Receipt.TaxLines[0].Amount)
	assertDecimal(t, "235", rec.Receipt.Total)
	assertDecimal(t, "-0.41", rec.Receipt.RoundOff)
	assert.True(t, rec.Totals.Reconciles())
	assert.True(t, rec.Receipt.Total.Equal(sale.Total))
}

func TestSaleService_PreviewReceipt(t *testing.T) {
	env := newTestEnv(t)

	rec, err := env.sales.PreviewReceipt(env.ctx, &CreateSaleInput{
		Discount:     dec("10"),
		DiscountType: enum.DiscountTypePercent,
		Items: []SaleItemInput{
			service("Haircut", "600", 1, nil),
			product("Serum", "400", 1, "18", nil),
		},
	})
	require.NoError(t, err)

	assertDecimal(t, "100", rec.Totals.Discount)
	assertDecimal(t, "162", rec.Totals.Tax)
	assertDecimal(t, "1062", rec.Totals.Total)
	assert.Equal(t, "PREVIEW", rec.Receipt.InvoiceNo)

	// nothing stored, nothing published
	result, err := env.sales.ListSales(env.ctx, &repository.SaleFilterParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Empty(t, env.publisher.Types())
}
