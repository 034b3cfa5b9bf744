package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Staff is a salon team member who can be credited with sale lines
type Staff struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name                 string         `gorm:"size:255;not null" json:"name"`
	Email                string         `gorm:"size:255" json:"email,omitempty"`
	Phone                string         `gorm:"size:50" json:"phone,omitempty"`
	Role                 string         `gorm:"size:100" json:"role,omitempty"`
	Active               bool           `gorm:"default:true" json:"active"`
	CommissionProfileIDs []uuid.UUID    `gorm:"type:jsonb;serializer:json" json:"commission_profile_ids"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new staff member
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}
