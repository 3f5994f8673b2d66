package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant root. Every other record is owned by exactly
// one organization, directly or through its asset.
type Organization struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	UUID               string     `json:"uuid" gorm:"uniqueIndex"`
	Name               string     `json:"name"`
	Domain             string     `json:"domain,omitempty"`
	SubscriptionPlan   string     `json:"subscription_plan" gorm:"default:'free'"`     // "free", "essentials", "professional", "enterprise"
	SubscriptionStatus string     `json:"subscription_status" gorm:"default:'active'"` // "active", "trial", "expired", "cancelled"
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Users  []User  `json:"users,omitempty"`
	Assets []Asset `json:"assets,omitempty"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) (err error) {
	if o.UUID == "" {
		o.UUID = uuid.NewString()
	}
	return
}
