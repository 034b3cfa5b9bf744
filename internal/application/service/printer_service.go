package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService formats receipts and sends them to the thermal printer.
type PrinterService struct {
	printer     printer.Printer
	saleService *SaleService
	width       int
	logger      *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, saleService *SaleService, width int, logger *zap.Logger) *PrinterService {
	return &PrinterService{
		printer:     p,
		saleService: saleService,
		width:       width,
		logger:      logger,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != printer.KindNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       string(s.printer.Kind()),
	}
}

// PrintSaleReceipt renders the receipt of a stored sale and prints it.
// The receipt is returned even when printing fails.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID) (*SaleReceipt, error) {
	rec, err := s.saleService.GetReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(rec.Receipt, s.width)); err != nil {
		s.logger.Error("printer error", zap.String("sale_id", saleID.String()), zap.Error(err))
		return rec, fmt.Errorf("failed to print receipt: %w", err)
	}
	return rec, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("GSTIN: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Staff != "" {
		doc.KeyValue("Stylist:", r.Staff)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentType != "" {
		doc.KeyValue("Payment:", r.PaymentType)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, item.Total)
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", printer.Money(item.UnitPrice))
		}
		if item.Discount.IsPositive() {
			doc.TextF("  less %s", printer.Money(item.Discount))
		}
		if item.StaffName != "" && item.StaffName != r.Staff {
			doc.TextF("  by %s", item.StaffName)
		}
	}

	doc.Separator('-').
		Amount("Subtotal:", r.SubTotal)
	if r.Discount.IsPositive() {
		doc.Amount("Discount:", r.Discount.Neg())
	}

	for _, line := range r.TaxLines {
		doc.Amount(fmt.Sprintf("%s %s%%:", line.Label, line.Rate.String()), line.Amount)
		if !line.State.IsZero() {
			central := line.Central.Round(2)
			doc.Amount("  CGST:", central).
				Amount("  SGST:", line.Amount.Sub(central))
		}
	}

	if r.Tip.IsPositive() {
		doc.Amount("Tip:", r.Tip)
	}
	if !r.RoundOff.IsZero() {
		doc.Amount("Round off:", r.RoundOff)
	}

	doc.SetBold(true).
		Amount("TOTAL:", r.Total).
		SetBold(false).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you, visit again!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
