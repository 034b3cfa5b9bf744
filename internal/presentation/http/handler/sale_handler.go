package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// SaleHandler handles sale and receipt HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func toSaleInput(req *request.CreateSaleRequest) (*service.CreateSaleInput, error) {
	input := &service.CreateSaleInput{
		CustomerID:     req.CustomerID,
		StaffID:        req.StaffID,
		StaffName:      req.StaffName,
		Status:         req.Status,
		Discount:       req.Discount,
		DiscountType:   req.DiscountType,
		Tip:            req.Tip,
		ServiceTaxRate: req.ServiceTaxRate,
		PaymentType:    req.PaymentType,
		Items:          make([]service.SaleItemInput, 0, len(req.Items)),
	}

	if req.SaleDate != "" {
		saleDate, err := time.Parse(time.RFC3339, req.SaleDate)
		if err != nil {
			d, dErr := parseDate(req.SaleDate, "sale_date")
			if dErr != nil {
				return nil, dErr
			}
			saleDate = *d
		}
		input.SaleDate = &saleDate
	}

	for _, item := range req.Items {
		input.Items = append(input.Items, service.SaleItemInput{
			Kind:      item.Kind,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
			TaxRate:   item.TaxRate,
			StaffID:   item.StaffID,
			StaffName: item.StaffName,
		})
	}
	return input, nil
}

// Create handles recording a sale
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, err := toSaleInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", sale)
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: parsePagination(c),
		Search:     filter.Search,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}

	if filter.Status != "" {
		status, err := enum.ParseSaleStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, "Invalid status")
			return
		}
		params.Status = &status
	}

	var err error
	if params.StaffID, err = parseOptionalUUID(filter.StaffID, "staff_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.CustomerID, err = parseOptionalUUID(filter.CustomerID, "customer_id"); err != nil {
		response.Error(c, err)
		return
	}

	period, err := parsePeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	params.StartDate, params.EndDate = period.Start, period.End

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// Get handles getting a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := parseID(c, "sale")
	if err != nil {
		response.Error(c, err)
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// UpdateStatus handles changing the payment status of a sale
func (h *SaleHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "sale")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.UpdateSaleStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale status updated successfully", sale)
}

// Cancel handles cancelling a sale
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := parseID(c, "sale")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.CancelSaleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled successfully", sale)
}

// Receipt handles rendering the receipt of a stored sale
func (h *SaleHandler) Receipt(c *gin.Context) {
	id, err := parseID(c, "sale")
	if err != nil {
		response.Error(c, err)
		return
	}

	rec, err := h.saleService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt generated successfully", rec)
}

// Preview handles computing the receipt of an unsaved sale
func (h *SaleHandler) Preview(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input, err := toSaleInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	rec, err := h.saleService.PreviewReceipt(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt computed successfully", rec)
}
