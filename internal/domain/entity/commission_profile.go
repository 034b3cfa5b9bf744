package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionProfile is a named commission rule set that can be assigned to staff.
// Item-based profiles use ServiceRate/ProductRate; target-based profiles use Tiers.
type CommissionProfile struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Type        enum.ProfileType `gorm:"not null;default:0" json:"type"`
	ServiceRate decimal.Decimal  `gorm:"type:numeric(7,4);default:0" json:"service_rate"`
	ProductRate decimal.Decimal  `gorm:"type:numeric(7,4);default:0" json:"product_rate"`
	// Scope limits an item-based profile to the named catalog items. Empty means all items.
	Scope     []string         `gorm:"type:jsonb;serializer:json" json:"scope,omitempty"`
	Tiers     []CommissionTier `gorm:"foreignKey:ProfileID" json:"tiers,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new profile
func (p *CommissionProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CommissionProfile model
func (CommissionProfile) TableName() string {
	return "commission_profiles"
}

// InScope reports whether an item name is covered by the profile scope
func (p *CommissionProfile) InScope(itemName string) bool {
	if len(p.Scope) == 0 {
		return true
	}
	for _, name := range p.Scope {
		if name == itemName {
			return true
		}
	}
	return false
}

// CommissionTier is one revenue threshold of a target-based profile
type CommissionTier struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProfileID uuid.UUID       `gorm:"type:uuid;not null;index" json:"profile_id"`
	Threshold decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"threshold"`
	Rate      decimal.Decimal `gorm:"type:numeric(7,4);not null" json:"rate"`
}

// BeforeCreate generates a UUID before creating a new tier
func (t *CommissionTier) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CommissionTier model
func (CommissionTier) TableName() string {
	return "commission_tiers"
}
