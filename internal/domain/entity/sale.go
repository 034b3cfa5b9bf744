package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a closed point-of-sale transaction. Once stored it is only ever
// read by the calculators; status changes are the only mutation allowed.
type Sale struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_sales_tenant_invoice" json:"tenant_id"`
	InvoiceNo      string            `gorm:"size:100;not null;uniqueIndex:idx_sales_tenant_invoice" json:"invoice_no"`
	CustomerID     *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	StaffID        *uuid.UUID        `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	StaffName      string            `gorm:"size:255" json:"staff_name,omitempty"`
	SaleDate       time.Time         `gorm:"not null;index" json:"sale_date"`
	Status         enum.SaleStatus   `gorm:"default:0" json:"status"`
	Discount       decimal.Decimal   `gorm:"type:numeric(14,2);default:0" json:"discount"`
	DiscountType   enum.DiscountType `gorm:"default:0" json:"discount_type"`
	Tip            decimal.Decimal   `gorm:"type:numeric(14,2);default:0" json:"tip"`
	ServiceTaxRate decimal.Decimal   `gorm:"type:numeric(7,4);default:0" json:"service_tax_rate"`
	PaymentType    string            `gorm:"size:50" json:"payment_type,omitempty"`

	// Snapshot of the receipt totals taken when the sale was recorded
	SubTotal decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"sub_total"`
	Tax      decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"tax"`
	Total    decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"total"`
	RoundOff decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"round_off"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one sold line. StaffID/StaffName credit the line to a staff
// member and take precedence over the sale-level staff.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	Kind      enum.ItemKind   `gorm:"not null;default:0" json:"kind"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Discount  decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"discount"`
	TaxRate   decimal.Decimal `gorm:"type:numeric(7,4);default:0" json:"tax_rate"`
	StaffID   *uuid.UUID      `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	StaffName string          `gorm:"size:255" json:"staff_name,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// Gross returns unit price times quantity
func (i *SaleItem) Gross() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineTotal returns the gross amount net of the line discount
func (i *SaleItem) LineTotal() decimal.Decimal {
	return i.Gross().Sub(i.Discount)
}
