package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SaleItemRequest represents one sold line
type SaleItemRequest struct {
	Kind      enum.ItemKind   `json:"kind"`
	Name      string          `json:"name" binding:"required,max=255"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	StaffID   *uuid.UUID      `json:"staff_id"`
	StaffName string          `json:"staff_name" binding:"max=255"`
}

// CreateSaleRequest represents a sale creation or receipt preview request.
// Amount checks are left to the tax calculator so every field failure is reported together.
type CreateSaleRequest struct {
	CustomerID     *uuid.UUID        `json:"customer_id"`
	StaffID        *uuid.UUID        `json:"staff_id"`
	StaffName      string            `json:"staff_name" binding:"max=255"`
	SaleDate       string            `json:"sale_date"`
	Status         enum.SaleStatus   `json:"status"`
	Discount       decimal.Decimal   `json:"discount"`
	DiscountType   enum.DiscountType `json:"discount_type"`
	Tip            decimal.Decimal   `json:"tip"`
	ServiceTaxRate *decimal.Decimal  `json:"service_tax_rate"`
	PaymentType    string            `json:"payment_type" binding:"max=50"`
	Items          []SaleItemRequest `json:"items" binding:"dive"`
}

// UpdateSaleStatusRequest represents a status change
type UpdateSaleStatusRequest struct {
	Status enum.SaleStatus `json:"status"`
}

// CancelSaleRequest carries the optional cancellation reason
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	StaffID    string `form:"staff_id"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
