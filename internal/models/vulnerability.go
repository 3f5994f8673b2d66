package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vulnerability statuses.
const (
	VulnStatusOpen          = "open"
	VulnStatusInProgress    = "in_progress"
	VulnStatusFixed         = "fixed"
	VulnStatusAcceptedRisk  = "accepted_risk"
	VulnStatusFalsePositive = "false_positive"
)

// Vulnerability is a finding on an asset. It carries no organization column:
// tenant membership is always derived through the asset.
// FixedAt is set iff the status is "fixed".
type Vulnerability struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UUID        string     `json:"uuid" gorm:"uniqueIndex"`
	CVEID       string     `json:"cve_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	Severity    string     `json:"severity"`                     // "critical", "high", "medium", "low"
	CVSSScore   *float64   `json:"cvss_score,omitempty"`         // 0.0-10.0
	Status      string     `json:"status" gorm:"default:'open'"` // "open", "in_progress", "fixed", "accepted_risk", "false_positive"
	Remediation string     `json:"remediation,omitempty" gorm:"type:text"`
	DetectedAt  time.Time  `json:"detected_at"`
	FixedAt     *time.Time `json:"fixed_at,omitempty"`
	AssetID     uint       `json:"asset_id" gorm:"index"`
	AssignedTo  *uint      `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Asset *Asset `json:"asset,omitempty"`
}

func (v *Vulnerability) BeforeCreate(tx *gorm.DB) (err error) {
	if v.UUID == "" {
		v.UUID = uuid.NewString()
	}
	if v.DetectedAt.IsZero() {
		v.DetectedAt = time.Now().UTC()
	}
	return
}
