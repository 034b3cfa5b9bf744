package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// PrintSaleReceipt prints the receipt of a sale.
func (h *PrinterHandler) PrintSaleReceipt(c *gin.Context) {
	id, err := parseID(c, "sale")
	if err != nil {
		response.Error(c, err)
		return
	}

	rec, err := h.printerService.PrintSaleReceipt(c.Request.Context(), id)
	if err != nil {
		// the receipt was built but the printer failed
		if rec != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": rec,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": rec,
	})
}
