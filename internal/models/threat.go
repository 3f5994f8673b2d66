package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Threat statuses.
const (
	ThreatStatusActive        = "active"
	ThreatStatusContained     = "contained"
	ThreatStatusResolved      = "resolved"
	ThreatStatusFalsePositive = "false_positive"
)

// Threat is a detected security threat scoped to an organization.
// ResolvedAt is set iff the status is "resolved".
type Threat struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UUID            string     `json:"uuid" gorm:"uniqueIndex"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty" gorm:"type:text"`
	ThreatType      string     `json:"threat_type"`                    // "malware", "phishing", "intrusion", "data_leak", ...
	Severity        string     `json:"severity"`                       // "critical", "high", "medium", "low"
	Status          string     `json:"status" gorm:"default:'active'"` // "active", "contained", "resolved", "false_positive"
	Source          string     `json:"source,omitempty"`               // "endpoint", "network", "email", "cloud", ...
	DetectionMethod string     `json:"detection_method,omitempty"`     // "signature", "behavior", "anomaly", "ai", "manual"
	DetectedAt      time.Time  `json:"detected_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	OrganizationID  uint       `json:"organization_id" gorm:"index"`
	AssetID         *uint      `json:"asset_id,omitempty"`
	AssignedTo      *uint      `json:"assigned_to,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Indicators of compromise
	IoCHash   string `json:"ioc_hash,omitempty"`
	IoCIP     string `json:"ioc_ip,omitempty"`
	IoCDomain string `json:"ioc_domain,omitempty"`
	IoCURL    string `json:"ioc_url,omitempty"`
}

func (t *Threat) BeforeCreate(tx *gorm.DB) (err error) {
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	if t.DetectedAt.IsZero() {
		t.DetectedAt = time.Now().UTC()
	}
	return
}
