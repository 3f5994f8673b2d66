package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// Notification is an in-app notification row for an organization's members.
type Notification struct {
	ID             string           `gorm:"primaryKey" json:"id"`
	OrganizationID uint             `json:"organization_id" gorm:"index"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Read           bool             `json:"read"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

// NotificationProvider is an external alert destination (shoutrrr URL or
// plain webhook) with per-concern delivery preferences.
type NotificationProvider struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UUID           string    `json:"uuid" gorm:"uniqueIndex"`
	OrganizationID uint      `json:"organization_id" gorm:"index"`
	Name           string    `json:"name"`
	Type           string    `json:"type"` // "shoutrrr", "webhook"
	URL            string    `json:"url"`
	Enabled        bool      `json:"enabled" gorm:"default:true"`
	NotifyThreats  bool      `json:"notify_threats" gorm:"default:true"`
	NotifyPosture  bool      `json:"notify_posture" gorm:"default:true"`
	MinSeverity    string    `json:"min_severity" gorm:"default:'high'"` // "critical", "high", "medium", "low"
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	return
}
