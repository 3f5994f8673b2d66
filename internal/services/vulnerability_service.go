package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/metrics"
	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/posture"
	"github.com/halcyonlabs/argus/internal/query"
	"github.com/halcyonlabs/argus/internal/workflow"
)

var vulnSeverities = []string{"critical", "high", "medium", "low"}

var vulnStatuses = []string{
	models.VulnStatusOpen,
	models.VulnStatusInProgress,
	models.VulnStatusFixed,
	models.VulnStatusAcceptedRisk,
	models.VulnStatusFalsePositive,
}

type VulnerabilityService struct {
	db *gorm.DB
}

func NewVulnerabilityService(db *gorm.DB) *VulnerabilityService {
	return &VulnerabilityService{db: db}
}

// List resolves one filtered, sorted page of the organization's
// vulnerabilities, tenant-scoped through the asset join.
func (s *VulnerabilityService) List(orgID uint, spec query.Spec) ([]models.Vulnerability, int64, error) {
	return query.ResolveVulnerabilities(s.db, orgID, spec)
}

// Get loads a single vulnerability by uuid, scoped through its asset.
func (s *VulnerabilityService) Get(orgID uint, uuid string) (*models.Vulnerability, error) {
	var vuln models.Vulnerability
	if err := query.Vulnerabilities(s.db, orgID).Where("vulnerabilities.uuid = ?", uuid).First(&vuln).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vuln, nil
}

// Create records a vulnerability against an asset of the organization.
func (s *VulnerabilityService) Create(orgID uint, vuln *models.Vulnerability) error {
	var asset models.Asset
	if err := s.db.Where("id = ? AND organization_id = ?", vuln.AssetID, orgID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if vuln.Status == "" {
		vuln.Status = models.VulnStatusOpen
	}
	return s.db.Create(vuln).Error
}

// Act applies a workflow action ("start", "fix", "accept_risk",
// "false_positive", "reopen") to the vulnerability.
func (s *VulnerabilityService) Act(orgID uint, uuid, action string) (*models.Vulnerability, error) {
	vuln, err := workflow.ApplyVulnerabilityAction(s.db, orgID, uuid, action, time.Now())
	if err != nil {
		return nil, err
	}
	metrics.IncTransition("vulnerability", action)
	return vuln, nil
}

// Assign assigns the vulnerability to a user of the same organization.
func (s *VulnerabilityService) Assign(orgID uint, uuid string, userID uint) (*models.Vulnerability, error) {
	return workflow.AssignVulnerability(s.db, orgID, uuid, userID)
}

// VulnerabilityStats carries the grouped counts behind the vulnerability
// stats endpoint. Assets lists the five assets with the most findings.
type VulnerabilityStats struct {
	Severity map[string]int `json:"severity"`
	Status   map[string]int `json:"status"`
	Assets   map[string]int `json:"assets"`
	Daily    map[string]int `json:"daily"`
}

// Stats aggregates the organization's vulnerabilities for dashboard charts.
func (s *VulnerabilityService) Stats(orgID uint, now time.Time) (*VulnerabilityStats, error) {
	var vulns []models.Vulnerability
	if err := query.Vulnerabilities(s.db, orgID).Find(&vulns).Error; err != nil {
		return nil, err
	}
	metrics.IncStatsComputed("vulnerabilities")

	type assetCount struct {
		Name  string
		Count int
	}
	var top []assetCount
	err := query.Vulnerabilities(s.db, orgID).
		Select("assets.name AS name, COUNT(vulnerabilities.id) AS count").
		Group("assets.name").
		Order("count DESC").
		Limit(5).
		Scan(&top).Error
	if err != nil {
		return nil, err
	}
	assets := make(map[string]int, len(top))
	for _, a := range top {
		assets[a.Name] = a.Count
	}

	severity := func(v models.Vulnerability) string { return v.Severity }
	status := func(v models.Vulnerability) string { return v.Status }
	detected := func(v models.Vulnerability) time.Time { return v.DetectedAt }

	return &VulnerabilityStats{
		Severity: posture.CountByCategories(vulns, severity, vulnSeverities),
		Status:   posture.CountByCategories(vulns, status, vulnStatuses),
		Assets:   assets,
		Daily:    posture.TrendMap(vulns, detected, now, posture.DefaultTrendDays),
	}, nil
}

// SeverityCounts returns the organization's critical/high/medium
// vulnerability counts, the inputs to the security score.
func (s *VulnerabilityService) SeverityCounts(orgID uint) (critical, high, medium int, err error) {
	type row struct {
		Severity string
		Count    int
	}
	var rows []row
	err = query.Vulnerabilities(s.db, orgID).
		Select("vulnerabilities.severity AS severity, COUNT(vulnerabilities.id) AS count").
		Group("vulnerabilities.severity").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, 0, err
	}
	for _, r := range rows {
		switch r.Severity {
		case "critical":
			critical = r.Count
		case "high":
			high = r.Count
		case "medium":
			medium = r.Count
		}
	}
	return critical, high, medium, nil
}
