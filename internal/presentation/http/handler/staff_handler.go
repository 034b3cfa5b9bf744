package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// StaffHandler handles staff-related HTTP requests
type StaffHandler struct {
	staffService      *service.StaffService
	commissionService *service.CommissionService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *service.StaffService, commissionService *service.CommissionService) *StaffHandler {
	return &StaffHandler{staffService: staffService, commissionService: commissionService}
}

// List handles listing staff
func (h *StaffHandler) List(c *gin.Context) {
	result, err := h.staffService.ListStaff(c.Request.Context(), parsePagination(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Staff retrieved successfully", result)
}

// Create handles creating a staff member
func (h *StaffHandler) Create(c *gin.Context) {
	var req request.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), &service.CreateStaffInput{
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		Role:                 req.Role,
		CommissionProfileIDs: req.CommissionProfileIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Staff created successfully", staff)
}

// Get handles getting a single staff member
func (h *StaffHandler) Get(c *gin.Context) {
	id, err := parseID(c, "staff")
	if err != nil {
		response.Error(c, err)
		return
	}

	staff, err := h.staffService.GetStaff(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff retrieved successfully", staff)
}

// Update handles updating a staff member
func (h *StaffHandler) Update(c *gin.Context) {
	id, err := parseID(c, "staff")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	staff, err := h.staffService.UpdateStaff(c.Request.Context(), &service.UpdateStaffInput{
		ID:     id,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff updated successfully", staff)
}

// Delete handles deleting a staff member
func (h *StaffHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "staff")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.staffService.DeleteStaff(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff deleted successfully", nil)
}

// AssignProfiles handles replacing the commission profiles of a staff member
func (h *StaffHandler) AssignProfiles(c *gin.Context) {
	id, err := parseID(c, "staff")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.AssignProfilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	staff, err := h.staffService.AssignProfiles(c.Request.Context(), id, req.CommissionProfileIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission profiles assigned successfully", staff)
}

// Commission handles the commission report of one staff member
func (h *StaffHandler) Commission(c *gin.Context) {
	id, err := parseID(c, "staff")
	if err != nil {
		response.Error(c, err)
		return
	}

	period, err := parsePeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.commissionService.StaffReport(c.Request.Context(), id, period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission calculated successfully", result)
}
