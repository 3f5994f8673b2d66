package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset is a tracked piece of infrastructure owned by one organization.
// Vulnerabilities derive their tenant scope through their asset.
type Asset struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UUID           string     `json:"uuid" gorm:"uniqueIndex"`
	Name           string     `json:"name"`
	AssetType      string     `json:"asset_type"` // "endpoint", "server", "cloud", "network", "application"
	IPAddress      string     `json:"ip_address,omitempty"`
	Hostname       string     `json:"hostname,omitempty"`
	OSType         string     `json:"os_type,omitempty"`
	OSVersion      string     `json:"os_version,omitempty"`
	Status         string     `json:"status" gorm:"default:'active'"`        // "active", "inactive", "decommissioned"
	Criticality    string     `json:"criticality" gorm:"default:'medium'"`   // "low", "medium", "high", "critical"
	LastScan       *time.Time `json:"last_scan,omitempty"`
	OrganizationID uint       `json:"organization_id" gorm:"index"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Vulnerabilities []Vulnerability `json:"vulnerabilities,omitempty"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) (err error) {
	if a.UUID == "" {
		a.UUID = uuid.NewString()
	}
	return
}
