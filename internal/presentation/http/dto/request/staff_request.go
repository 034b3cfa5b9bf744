package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateStaffRequest represents a staff creation request
type CreateStaffRequest struct {
	Name                 string      `json:"name" binding:"required,min=1,max=255"`
	Email                string      `json:"email" binding:"omitempty,email"`
	Phone                string      `json:"phone" binding:"max=50"`
	Role                 string      `json:"role" binding:"max=100"`
	CommissionProfileIDs []uuid.UUID `json:"commission_profile_ids"`
}

// UpdateStaffRequest represents a staff update request
type UpdateStaffRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone" binding:"omitempty,max=50"`
	Role   *string `json:"role" binding:"omitempty,max=100"`
	Active *bool   `json:"active"`
}

// AssignProfilesRequest replaces a staff member's commission profiles
type AssignProfilesRequest struct {
	CommissionProfileIDs []uuid.UUID `json:"commission_profile_ids"`
}

// CustomerRequest represents a customer create or update request
type CustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	TaxID *string `json:"tax_id" binding:"omitempty,max=50"`
	Notes *string `json:"notes"`
}

// CommissionTierRequest is one threshold/rate pair
type CommissionTierRequest struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
}

// CommissionProfileRequest represents a profile create or update request
type CommissionProfileRequest struct {
	Name        string                  `json:"name" binding:"required,max=255"`
	Type        enum.ProfileType        `json:"type"`
	ServiceRate decimal.Decimal         `json:"service_rate"`
	ProductRate decimal.Decimal         `json:"product_rate"`
	Scope       []string                `json:"scope"`
	Tiers       []CommissionTierRequest `json:"tiers"`
}
