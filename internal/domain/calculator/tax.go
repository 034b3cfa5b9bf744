package calculator

import (
	"fmt"
	"sort"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
	one     = decimal.NewFromInt(1)
)

// TaxModel describes how every tax component is divided between the central
// (CGST) and state (SGST) levies. Central = Amount*SplitRatio, State = the rest.
type TaxModel struct {
	SplitRatio decimal.Decimal
}

// DefaultTaxModel splits every component 50/50.
func DefaultTaxModel() TaxModel {
	return TaxModel{SplitRatio: half}
}

// ConsolidatedTaxModel reports each component as a single levy.
func ConsolidatedTaxModel() TaxModel {
	return TaxModel{SplitRatio: one}
}

// Consolidated reports whether the model books the whole tax as one levy
func (m TaxModel) Consolidated() bool {
	return m.SplitRatio.Equal(one)
}

func (m TaxModel) split(amount decimal.Decimal) (central, state decimal.Decimal) {
	central = amount.Mul(m.SplitRatio)
	return central, amount.Sub(central)
}

// TaxComponent is the tax levied on one group of lines: the service lines, or
// the product lines sharing one tax rate.
type TaxComponent struct {
	Kind     enum.ItemKind   `json:"kind"`
	Rate     decimal.Decimal `json:"rate"`
	Base     decimal.Decimal `json:"base"`
	Discount decimal.Decimal `json:"discount"`
	Taxable  decimal.Decimal `json:"taxable"`
	Amount   decimal.Decimal `json:"amount"`
	Central  decimal.Decimal `json:"cgst"`
	State    decimal.Decimal `json:"sgst"`
	Lines    int             `json:"lines"`
}

// ReceiptTotals is the full tax and total breakdown of one sale.
type ReceiptTotals struct {
	SubTotal         decimal.Decimal            `json:"sub_total"`
	Discount         decimal.Decimal            `json:"discount"`
	ServiceTax       TaxComponent               `json:"service_tax"`
	ProductTaxes     []TaxComponent             `json:"product_taxes"`
	ProductTaxByRate map[string]decimal.Decimal `json:"product_tax_by_rate"`
	Tax              decimal.Decimal            `json:"tax"`
	CentralTax       decimal.Decimal            `json:"cgst"`
	StateTax         decimal.Decimal            `json:"sgst"`
	Tip              decimal.Decimal            `json:"tip"`
	Total            decimal.Decimal            `json:"total"`
	RoundOff         decimal.Decimal            `json:"round_off"`
	ItemCount        int                        `json:"item_count"`
	Consolidated     bool                       `json:"consolidated"`
}

// TaxBreakdown is the compact tax view used by receipt renderers.
type TaxBreakdown struct {
	ServiceTax       decimal.Decimal            `json:"service_tax"`
	ServiceRate      decimal.Decimal            `json:"service_rate"`
	ProductTaxByRate map[string]decimal.Decimal `json:"product_tax_by_rate"`
}

// Breakdown returns the compact tax view
func (t *ReceiptTotals) Breakdown() TaxBreakdown {
	byRate := make(map[string]decimal.Decimal, len(t.ProductTaxByRate))
	for rate, amount := range t.ProductTaxByRate {
		byRate[rate] = amount
	}
	return TaxBreakdown{
		ServiceTax:       t.ServiceTax.Amount,
		ServiceRate:      t.ServiceTax.Rate,
		ProductTaxByRate: byRate,
	}
}

// Components returns the service component followed by the product components
func (t *ReceiptTotals) Components() []TaxComponent {
	out := make([]TaxComponent, 0, len(t.ProductTaxes)+1)
	out = append(out, t.ServiceTax)
	return append(out, t.ProductTaxes...)
}

// Reconciles reports whether the displayed lines add up to the total
func (t *ReceiptTotals) Reconciles() bool {
	sum := t.SubTotal.Sub(t.Discount).Add(t.Tax).Add(t.Tip).Add(t.RoundOff)
	return sum.Equal(t.Total)
}

// TaxCalculator derives receipt totals for a sale. It holds no mutable state
// and is safe for concurrent use.
type TaxCalculator struct {
	model TaxModel
}

// NewTaxCalculator creates a tax calculator for the given split model
func NewTaxCalculator(model TaxModel) *TaxCalculator {
	if model.SplitRatio.IsNegative() || model.SplitRatio.GreaterThan(one) {
		model = DefaultTaxModel()
	}
	return &TaxCalculator{model: model}
}

// Model returns the split model in use
func (c *TaxCalculator) Model() TaxModel {
	return c.model
}

// ComputeReceiptTotals computes subtotal, per-component tax, the whole-unit
// total and the round-off for a sale. Invalid financial input is rejected with
// a validation error and never clamped.
func (c *TaxCalculator) ComputeReceiptTotals(sale *entity.Sale) (*ReceiptTotals, error) {
	if err := validateSale(sale); err != nil {
		return nil, err
	}

	service := TaxComponent{Kind: enum.ItemKindService, Rate: sale.ServiceTaxRate}
	products := make(map[string]*TaxComponent)
	subTotal := decimal.Zero

	for i := range sale.Items {
		item := &sale.Items[i]
		lineTotal := item.LineTotal()
		subTotal = subTotal.Add(lineTotal)

		if item.Kind == enum.ItemKindService {
			service.Base = service.Base.Add(lineTotal)
			service.Lines++
			continue
		}

		key := item.TaxRate.String()
		bucket, ok := products[key]
		if !ok {
			bucket = &TaxComponent{Kind: enum.ItemKindProduct, Rate: item.TaxRate}
			products[key] = bucket
		}
		bucket.Base = bucket.Base.Add(lineTotal)
		bucket.Lines++
	}

	discount := sale.Discount
	if sale.DiscountType == enum.DiscountTypePercent {
		discount = subTotal.Mul(sale.Discount).Div(hundred).Round(2)
	}
	if discount.GreaterThan(subTotal) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount", Message: fmt.Sprintf("must not exceed the subtotal of %s", subTotal.StringFixed(2))},
		})
	}

	productTaxes := make([]TaxComponent, 0, len(products))
	for _, bucket := range products {
		productTaxes = append(productTaxes, *bucket)
	}
	sort.Slice(productTaxes, func(i, j int) bool {
		return productTaxes[i].Rate.LessThan(productTaxes[j].Rate)
	})

	components := make([]*TaxComponent, 0, len(productTaxes)+1)
	components = append(components, &service)
	for i := range productTaxes {
		components = append(components, &productTaxes[i])
	}
	allocateDiscount(components, discount, subTotal)

	totals := &ReceiptTotals{
		SubTotal:         subTotal,
		Discount:         discount,
		ProductTaxByRate: make(map[string]decimal.Decimal, len(productTaxes)),
		Tip:              sale.Tip,
		ItemCount:        len(sale.Items),
		Consolidated:     c.model.Consolidated(),
	}

	for _, comp := range components {
		comp.Taxable = comp.Base.Sub(comp.Discount)
		comp.Amount = comp.Taxable.Mul(comp.Rate).Div(hundred).Round(2)
		comp.Central, comp.State = c.model.split(comp.Amount)

		totals.Tax = totals.Tax.Add(comp.Amount)
		totals.CentralTax = totals.CentralTax.Add(comp.Central)
		totals.StateTax = totals.StateTax.Add(comp.State)
	}
	for _, comp := range productTaxes {
		totals.ProductTaxByRate[comp.Rate.String()] = comp.Amount
	}
	totals.ServiceTax = service
	totals.ProductTaxes = productTaxes

	exact := subTotal.Sub(discount).Add(totals.Tax).Add(sale.Tip)
	totals.Total = exact.Round(0)
	totals.RoundOff = totals.Total.Sub(exact)

	return totals, nil
}

// allocateDiscount spreads the sale-wide discount over the components in
// proportion to their base. The last component with a base absorbs the
// rounding remainder so the shares always add up to the discount.
func allocateDiscount(components []*TaxComponent, discount, subTotal decimal.Decimal) {
	if discount.IsZero() || subTotal.IsZero() {
		return
	}

	last := -1
	for i, comp := range components {
		if comp.Base.IsPositive() {
			last = i
		}
	}

	remaining := discount
	for i, comp := range components {
		if !comp.Base.IsPositive() {
			continue
		}
		if i == last {
			comp.Discount = remaining
			return
		}
		share := discount.Mul(comp.Base).Div(subTotal).Round(2)
		comp.Discount = share
		remaining = remaining.Sub(share)
	}
}

func validateSale(sale *entity.Sale) error {
	var errs apperror.FieldErrors

	if sale.ServiceTaxRate.IsNegative() {
		errs.Add("service_tax_rate", "must not be negative")
	}
	if sale.Discount.IsNegative() {
		errs.Add("discount", "must not be negative")
	}
	if sale.DiscountType == enum.DiscountTypePercent && sale.Discount.GreaterThan(hundred) {
		errs.Add("discount", "percentage must not exceed 100")
	}
	if sale.Tip.IsNegative() {
		errs.Add("tip", "must not be negative")
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		field := fmt.Sprintf("items[%d]", i)

		if !item.Kind.Valid() {
			errs.Add(field+".kind", "must be service or product")
		}
		if item.UnitPrice.IsNegative() {
			errs.Add(field+".unit_price", "must not be negative")
		}
		if item.Quantity < 1 {
			errs.Add(field+".quantity", "must be at least 1")
		}
		if item.TaxRate.IsNegative() {
			errs.Add(field+".tax_rate", "must not be negative")
		}
		if item.Discount.IsNegative() {
			errs.Add(field+".discount", "must not be negative")
		} else if item.Quantity > 0 && !item.UnitPrice.IsNegative() && item.Discount.GreaterThan(item.Gross()) {
			errs.Add(field+".discount", "must not exceed the line amount")
		}
	}

	return errs.Err()
}
