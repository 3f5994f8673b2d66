package models

import (
	"time"
)

// PostureSnapshot is a daily record of an organization's computed security
// posture, written by the snapshot scheduler so dashboards can trend the
// score without rescanning raw records.
type PostureSnapshot struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organization_id" gorm:"index"`
	Score          float64   `json:"score"`
	AssetCount     int       `json:"asset_count"`
	OpenVulns      int       `json:"open_vulns"`
	ActiveThreats  int       `json:"active_threats"`
	CompliancePct  float64   `json:"compliance_pct"`
	TakenAt        time.Time `json:"taken_at" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
}
