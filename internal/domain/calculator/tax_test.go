package calculator

import (
	"testing"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeReceiptTotals_ServiceAndProduct(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("18"),
		Tip:            dec("50"),
		Items: []entity.SaleItem{
			serviceLine("Haircut", "500", 1, nil),
			productLine("Shampoo", "300", 2, "12", nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)

	assertDecimal(t, "1100", totals.SubTotal)
	assertDecimal(t, "90", totals.ServiceTax.Amount)
	assertDecimal(t, "45", totals.ServiceTax.Central)
	assertDecimal(t, "45", totals.ServiceTax.State)
	require.Len(t, totals.ProductTaxes, 1)
	assertDecimal(t, "72", totals.ProductTaxes[0].Amount)
	assertDecimal(t, "36", totals.ProductTaxes[0].Central)
	assertDecimal(t, "36", totals.ProductTaxes[0].State)
	assertDecimal(t, "72", totals.ProductTaxByRate["12"])
	assertDecimal(t, "162", totals.Tax)
	assertDecimal(t, "1312", totals.Total)
	assertDecimal(t, "0", totals.RoundOff)
	assert.Equal(t, 2, totals.ItemCount)
	assert.True(t, totals.Reconciles())
}

func TestComputeReceiptTotals_ProductRatesAreNotMerged(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		Items: []entity.SaleItem{
			productLine("Serum", "100", 1, "18", nil),
			productLine("Comb", "50", 2, "5", nil),
			productLine("Oil", "200", 1, "18.00", nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)

	require.Len(t, totals.ProductTaxes, 2)
	assertDecimal(t, "5", totals.ProductTaxes[0].Rate)
	assertDecimal(t, "100", totals.ProductTaxes[0].Base)
	assertDecimal(t, "5", totals.ProductTaxes[0].Amount)
	assertDecimal(t, "18", totals.ProductTaxes[1].Rate)
	assertDecimal(t, "300", totals.ProductTaxes[1].Base)
	assertDecimal(t, "54", totals.ProductTaxes[1].Amount)
	assert.Equal(t, 2, totals.ProductTaxes[1].Lines)
	assertDecimal(t, "59", totals.Tax)
	assertDecimal(t, "0", totals.ServiceTax.Amount)
}

func TestComputeReceiptTotals_ProportionalDiscount(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("18"),
		Discount:       dec("100"),
		Items: []entity.SaleItem{
			serviceLine("Facial", "600", 1, nil),
			productLine("Mask", "400", 1, "12", nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)

	assertDecimal(t, "1000", totals.SubTotal)
	assertDecimal(t, "100", totals.Discount)
	assertDecimal(t, "60", totals.ServiceTax.Discount)
	assertDecimal(t, "540", totals.ServiceTax.Taxable)
	assertDecimal(t, "97.2", totals.ServiceTax.Amount)
	assertDecimal(t, "40", totals.ProductTaxes[0].Discount)
	assertDecimal(t, "43.2", totals.ProductTaxes[0].Amount)
	assertDecimal(t, "140.4", totals.Tax)
	assertDecimal(t, "1040", totals.Total)
	assertDecimal(t, "-0.4", totals.RoundOff)
	assert.True(t, totals.Reconciles())
}

func TestComputeReceiptTotals_DiscountSharesAlwaysAddUp(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("18"),
		Discount:       dec("10"),
		Items: []entity.SaleItem{
			serviceLine("Trim", "33.33", 1, nil),
			productLine("Gel", "33.33", 1, "12", nil),
			productLine("Wax", "33.34", 1, "5", nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)

	shares := decimal.Zero
	for _, comp := range totals.Components() {
		shares = shares.Add(comp.Discount)
	}
	assertDecimal(t, "10", shares)
	assert.True(t, totals.Reconciles())
}

func TestComputeReceiptTotals_PercentDiscount(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		DiscountType: enum.DiscountTypePercent,
		Discount:     dec("10"),
		Items: []entity.SaleItem{
			serviceLine("Manicure", "250", 2, nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)
	assertDecimal(t, "50", totals.Discount)
	assertDecimal(t, "450", totals.Total)
}

func TestComputeReceiptTotals_RoundsToWholeUnit(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("18"),
		Items: []entity.SaleItem{
			serviceLine("Beard trim", "199.50", 1, nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)

	// 199.50 + 35.91 = 235.41
	assertDecimal(t, "35.91", totals.Tax)
	assertDecimal(t, "235", totals.Total)
	assertDecimal(t, "-0.41", totals.RoundOff)
	assert.True(t, totals.Reconciles())
}

func TestComputeReceiptTotals_NoDiscountNoTip(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("5"),
		Items: []entity.SaleItem{
			serviceLine("Pedicure", "400", 1, nil),
			productLine("Polish", "120", 1, "28", nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)
	assertDecimal(t, "573.6", totals.SubTotal.Add(totals.Tax))
	assertDecimal(t, "574", totals.Total)
	assert.True(t, totals.Total.Sub(totals.SubTotal.Add(totals.Tax)).Equal(totals.RoundOff))
}

func TestComputeReceiptTotals_TipIsNeverTaxed(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	base := &entity.Sale{
		ServiceTaxRate: dec("18"),
		Items:          []entity.SaleItem{serviceLine("Color", "1000", 1, nil)},
	}
	tipped := *base
	tipped.Tip = dec("200")

	without, err := calc.ComputeReceiptTotals(base)
	require.NoError(t, err)
	with, err := calc.ComputeReceiptTotals(&tipped)
	require.NoError(t, err)

	assert.True(t, without.Tax.Equal(with.Tax))
	assertDecimal(t, "1380", with.Total)
}

func TestComputeReceiptTotals_EmptySale(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())

	totals, err := calc.ComputeReceiptTotals(&entity.Sale{ServiceTaxRate: dec("18")})
	require.NoError(t, err)
	assertDecimal(t, "0", totals.SubTotal)
	assertDecimal(t, "0", totals.Tax)
	assertDecimal(t, "0", totals.Total)
	assertDecimal(t, "0", totals.RoundOff)
	assert.Empty(t, totals.ProductTaxes)
}

func TestComputeReceiptTotals_Idempotent(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("18"),
		Discount:       dec("15.5"),
		Tip:            dec("20"),
		Items: []entity.SaleItem{
			serviceLine("Spa", "1250", 1, nil),
			productLine("Scrub", "349.99", 3, "12", nil),
		},
	}

	first, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)
	second, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeReceiptTotals_SplitReconstructsComponent(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("18"),
		Items: []entity.SaleItem{
			serviceLine("Threading", "0.35", 1, nil),
			productLine("Clip", "0.45", 1, "12", nil),
			productLine("Pin", "1.15", 1, "5", nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)
	for _, comp := range totals.Components() {
		assert.True(t, comp.Central.Add(comp.State).Equal(comp.Amount), "rate %s", comp.Rate)
		assert.True(t, comp.Central.Equal(comp.State), "rate %s", comp.Rate)
	}
	assert.True(t, totals.CentralTax.Add(totals.StateTax).Equal(totals.Tax))
}

func TestComputeReceiptTotals_ConsolidatedModel(t *testing.T) {
	calc := NewTaxCalculator(ConsolidatedTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("10"),
		Items:          []entity.SaleItem{serviceLine("Massage", "800", 1, nil)},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)
	assert.True(t, totals.Consolidated)
	assertDecimal(t, "80", totals.ServiceTax.Central)
	assertDecimal(t, "0", totals.ServiceTax.State)
}

func TestComputeReceiptTotals_Validation(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())

	tests := []struct {
		name  string
		sale  entity.Sale
		field string
	}{
		{
			name:  "negative price",
			sale:  entity.Sale{Items: []entity.SaleItem{serviceLine("Cut", "-1", 1, nil)}},
			field: "items[0].unit_price",
		},
		{
			name:  "zero quantity",
			sale:  entity.Sale{Items: []entity.SaleItem{serviceLine("Cut", "10", 0, nil)}},
			field: "items[0].quantity",
		},
		{
			name:  "negative quantity",
			sale:  entity.Sale{Items: []entity.SaleItem{serviceLine("Cut", "10", -2, nil)}},
			field: "items[0].quantity",
		},
		{
			name:  "negative item tax rate",
			sale:  entity.Sale{Items: []entity.SaleItem{productLine("Gel", "10", 1, "-5", nil)}},
			field: "items[0].tax_rate",
		},
		{
			name:  "negative discount",
			sale:  entity.Sale{Discount: dec("-5"), Items: []entity.SaleItem{serviceLine("Cut", "10", 1, nil)}},
			field: "discount",
		},
		{
			name:  "discount exceeds subtotal",
			sale:  entity.Sale{Discount: dec("11"), Items: []entity.SaleItem{serviceLine("Cut", "10", 1, nil)}},
			field: "discount",
		},
		{
			name: "percent discount above 100",
			sale: entity.Sale{
				DiscountType: enum.DiscountTypePercent,
				Discount:     dec("120"),
				Items:        []entity.SaleItem{serviceLine("Cut", "10", 1, nil)},
			},
			field: "discount",
		},
		{
			name:  "negative tip",
			sale:  entity.Sale{Tip: dec("-1")},
			field: "tip",
		},
		{
			name:  "negative service rate",
			sale:  entity.Sale{ServiceTaxRate: dec("-18")},
			field: "service_tax_rate",
		},
		{
			name: "line discount exceeds line",
			sale: entity.Sale{Items: []entity.SaleItem{
				{Kind: enum.ItemKindService, Name: "Cut", UnitPrice: dec("10"), Quantity: 1, Discount: dec("12")},
			}},
			field: "items[0].discount",
		},
		{
			name: "unknown kind",
			sale: entity.Sale{Items: []entity.SaleItem{
				{Kind: enum.ItemKind(7), Name: "Gift", UnitPrice: dec("10"), Quantity: 1},
			}},
			field: "items[0].kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := calc.ComputeReceiptTotals(&tt.sale)
			require.Error(t, err)
			assert.Nil(t, totals)
			assert.True(t, apperror.IsValidationError(err))

			appErr := apperror.GetAppError(err)
			fields := make([]string, 0, len(appErr.Errors))
			for _, fe := range appErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestBreakdown(t *testing.T) {
	calc := NewTaxCalculator(DefaultTaxModel())
	sale := &entity.Sale{
		ServiceTaxRate: dec("18"),
		Items: []entity.SaleItem{
			serviceLine("Haircut", "500", 1, nil),
			productLine("Shampoo", "300", 2, "12", nil),
		},
	}

	totals, err := calc.ComputeReceiptTotals(sale)
	require.NoError(t, err)

	breakdown := totals.Breakdown()
	assertDecimal(t, "90", breakdown.ServiceTax)
	assertDecimal(t, "18", breakdown.ServiceRate)
	require.Len(t, breakdown.ProductTaxByRate, 1)
	assertDecimal(t, "72", breakdown.ProductTaxByRate["12"])
}

func TestNewTaxCalculator_RejectsOutOfRangeSplit(t *testing.T) {
	calc := NewTaxCalculator(TaxModel{SplitRatio: dec("1.5")})
	assert.True(t, calc.Model().SplitRatio.Equal(dec("0.5")))
}
