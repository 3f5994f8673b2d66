package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SecurityEvent is an append-only audit log entry scoped to an organization.
type SecurityEvent struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UUID           string    `json:"uuid" gorm:"uniqueIndex"`
	EventType      string    `json:"event_type"`         // "authentication", "access", "network", "system", ...
	Source         string    `json:"source,omitempty"`   // "firewall", "endpoint", "server", "application", ...
	Severity       string    `json:"severity"`           // "critical", "high", "medium", "low", "info"
	Description    string    `json:"description,omitempty" gorm:"type:text"`
	RawData        string    `json:"raw_data,omitempty" gorm:"type:text"`
	Timestamp      time.Time `json:"timestamp" gorm:"index"`
	OrganizationID uint      `json:"organization_id" gorm:"index"`
	AssetID        *uint     `json:"asset_id,omitempty"`

	SourceIP      string `json:"source_ip,omitempty"`
	DestinationIP string `json:"destination_ip,omitempty"`
	Username      string `json:"username,omitempty"`
	Action        string `json:"action,omitempty"`
	Status        string `json:"status,omitempty"` // "success", "failure", "blocked", ...

	CreatedAt time.Time `json:"created_at"`
}

func (e *SecurityEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return
}
