package calculator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

func serviceLine(name, price string, qty int, staffID *uuid.UUID) entity.SaleItem {
	return entity.SaleItem{
		Kind:      enum.ItemKindService,
		Name:      name,
		UnitPrice: dec(price),
		Quantity:  qty,
		StaffID:   staffID,
	}
}

func productLine(name, price string, qty int, rate string, staffID *uuid.UUID) entity.SaleItem {
	return entity.SaleItem{
		Kind:      enum.ItemKindProduct,
		Name:      name,
		UnitPrice: dec(price),
		Quantity:  qty,
		TaxRate:   dec(rate),
		StaffID:   staffID,
	}
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
