package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// CommissionProfileHandler handles commission profile HTTP requests
type CommissionProfileHandler struct {
	profileService *service.CommissionProfileService
}

// NewCommissionProfileHandler creates a new commission profile handler
func NewCommissionProfileHandler(profileService *service.CommissionProfileService) *CommissionProfileHandler {
	return &CommissionProfileHandler{profileService: profileService}
}

func toProfileInput(req *request.CommissionProfileRequest) *service.CommissionProfileInput {
	input := &service.CommissionProfileInput{
		Name:        req.Name,
		Type:        req.Type,
		ServiceRate: req.ServiceRate,
		ProductRate: req.ProductRate,
		Scope:       req.Scope,
	}
	for _, tier := range req.Tiers {
		input.Tiers = append(input.Tiers, service.TierInput{Threshold: tier.Threshold, Rate: tier.Rate})
	}
	return input
}

// List handles listing commission profiles
func (h *CommissionProfileHandler) List(c *gin.Context) {
	result, err := h.profileService.ListProfiles(c.Request.Context(), parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Commission profiles retrieved successfully", result)
}

// Create handles creating a commission profile
func (h *CommissionProfileHandler) Create(c *gin.Context) {
	var req request.CommissionProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), toProfileInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Commission profile created successfully", profile)
}

// Get handles getting a single commission profile
func (h *CommissionProfileHandler) Get(c *gin.Context) {
	id, err := parseID(c, "commission profile")
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission profile retrieved successfully", profile)
}

// Update handles replacing a commission profile
func (h *CommissionProfileHandler) Update(c *gin.Context) {
	id, err := parseID(c, "commission profile")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.CommissionProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), id, toProfileInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission profile updated successfully", profile)
}

// Delete handles deleting a commission profile
func (h *CommissionProfileHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "commission profile")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.profileService.DeleteProfile(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission profile deleted successfully", nil)
}
