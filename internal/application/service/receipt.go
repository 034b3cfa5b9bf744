package service

import (
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/calculator"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
)

// SaleReceipt pairs the printable receipt with the totals it was rendered from
type SaleReceipt struct {
	Receipt *entity.Receipt           `json:"receipt"`
	Totals  *calculator.ReceiptTotals `json:"totals"`
}

// ReceiptComposer turns a sale and its computed totals into a printable receipt.
type ReceiptComposer struct {
	header entity.ReceiptHeader
}

func NewReceiptComposer(header entity.ReceiptHeader) *ReceiptComposer {
	return &ReceiptComposer{header: header}
}

// Compose builds the receipt. staffNames resolves staff ids on the sale and its
// lines; customer is the display name of the buyer, if any.
func (c *ReceiptComposer) Compose(sale *entity.Sale, totals *calculator.ReceiptTotals, staffNames map[uuid.UUID]string, customer string) *entity.Receipt {
	r := &entity.Receipt{
		Header:      c.header,
		InvoiceNo:   sale.InvoiceNo,
		Date:        sale.SaleDate.Format("2006-01-02 15:04"),
		Staff:       displayStaff(sale.StaffID, sale.StaffName, staffNames),
		Customer:    customer,
		PaymentType: sale.PaymentType,
		Status:      sale.Status.String(),
		Items:       make([]entity.ReceiptItem, 0, len(sale.Items)),
		SubTotal:    totals.SubTotal,
		Discount:    totals.Discount,
		Tax:         totals.Tax,
		CentralTax:  totals.CentralTax,
		StateTax:    totals.StateTax,
		Tip:         totals.Tip,
		RoundOff:    totals.RoundOff,
		Total:       totals.Total,
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		rate := item.TaxRate
		if item.Kind == enum.ItemKindService {
			rate = sale.ServiceTaxRate
		}
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      item.Name,
			Kind:      item.Kind.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			TaxRate:   rate,
			Total:     item.LineTotal(),
			StaffName: displayStaff(item.StaffID, item.StaffName, staffNames),
		})
	}

	for _, comp := range totals.Components() {
		if comp.Lines == 0 {
			continue
		}
		label := "Service tax"
		if comp.Kind == enum.ItemKindProduct {
			label = "Product tax"
		}
		r.TaxLines = append(r.TaxLines, entity.ReceiptTaxLine{
			Label:   label,
			Rate:    comp.Rate,
			Taxable: comp.Taxable,
			Amount:  comp.Amount,
			Central: comp.Central,
			State:   comp.State,
		})
	}

	return r
}

func displayStaff(id *uuid.UUID, name string, names map[uuid.UUID]string) string {
	if id != nil {
		if n, ok := names[*id]; ok {
			return n
		}
	}
	return name
}
