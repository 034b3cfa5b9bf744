package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the salon header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Total     decimal.Decimal `json:"total"`
	StaffName string          `json:"staff_name,omitempty"`
}

// ReceiptTaxLine is one tax component with its central/state halves.
type ReceiptTaxLine struct {
	Label   string          `json:"label"`
	Rate    decimal.Decimal `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	Amount  decimal.Decimal `json:"amount"`
	Central decimal.Decimal `json:"cgst"`
	State   decimal.Decimal `json:"sgst"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity; it is composed from a sale and its computed totals.
// SubTotal - Discount + Tax + Tip + RoundOff always equals Total.
type Receipt struct {
	Header      ReceiptHeader    `json:"header"`
	InvoiceNo   string           `json:"invoice_no"`
	Date        string           `json:"date"`
	Staff       string           `json:"staff,omitempty"`
	Customer    string           `json:"customer,omitempty"`
	PaymentType string           `json:"payment_type,omitempty"`
	Status      string           `json:"status"`
	Items       []ReceiptItem    `json:"items"`
	SubTotal    decimal.Decimal  `json:"sub_total"`
	Discount    decimal.Decimal  `json:"discount"`
	TaxLines    []ReceiptTaxLine `json:"tax_lines"`
	Tax         decimal.Decimal  `json:"tax"`
	CentralTax  decimal.Decimal  `json:"cgst"`
	StateTax    decimal.Decimal  `json:"sgst"`
	Tip         decimal.Decimal  `json:"tip"`
	RoundOff    decimal.Decimal  `json:"round_off"`
	Total       decimal.Decimal  `json:"total"`
}
