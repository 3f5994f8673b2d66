package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/posture"
	"github.com/halcyonlabs/argus/internal/query"
)

type DashboardService struct {
	db         *gorm.DB
	assets     *AssetService
	vulns      *VulnerabilityService
	compliance *ComplianceService
	events     *EventService
}

func NewDashboardService(db *gorm.DB, assets *AssetService, vulns *VulnerabilityService, compliance *ComplianceService, events *EventService) *DashboardService {
	return &DashboardService{db: db, assets: assets, vulns: vulns, compliance: compliance, events: events}
}

// Summary is the main dashboard payload. Score and CompliancePct stay
// unrounded here; the handler rounds for presentation.
type Summary struct {
	Organization  *models.Organization   `json:"organization"`
	Score         float64                `json:"score"`
	AssetCount    int                    `json:"asset_count"`
	ActiveThreats int64                  `json:"active_threats"`
	OpenVulns     int64                  `json:"open_vulns"`
	CompliancePct float64                `json:"compliance_pct"`
	RecentEvents  []models.SecurityEvent `json:"recent_events"`
	EventTrend    []posture.TrendPoint   `json:"event_trend"`
}

// Summarize computes the organization's current posture.
func (s *DashboardService) Summarize(orgID uint, now time.Time) (*Summary, error) {
	var org models.Organization
	if err := s.db.First(&org, orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	assetCount, err := s.assets.Count(orgID)
	if err != nil {
		return nil, err
	}

	critical, high, medium, err := s.vulns.SeverityCounts(orgID)
	if err != nil {
		return nil, err
	}

	var activeThreats int64
	if err := query.Threats(s.db, orgID).Where("threats.status = ?", models.ThreatStatusActive).Count(&activeThreats).Error; err != nil {
		return nil, err
	}

	var openVulns int64
	if err := query.Vulnerabilities(s.db, orgID).Where("vulnerabilities.status = ?", models.VulnStatusOpen).Count(&openVulns).Error; err != nil {
		return nil, err
	}

	rollup, err := s.compliance.OverallRollup(orgID)
	if err != nil {
		return nil, err
	}

	recent, err := s.events.Recent(orgID, 10)
	if err != nil {
		return nil, err
	}

	trend, err := s.events.Trend(orgID, now, posture.DefaultTrendDays)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Organization:  &org,
		Score:         posture.Score(int(assetCount), critical, high, medium),
		AssetCount:    int(assetCount),
		ActiveThreats: activeThreats,
		OpenVulns:     openVulns,
		CompliancePct: rollup.Percentage,
		RecentEvents:  recent,
		EventTrend:    trend,
	}, nil
}

// Overview is the secondary dashboard payload of grouped counts.
type Overview struct {
	AssetCount     int            `json:"asset_count"`
	AssetTypes     map[string]int `json:"asset_types"`
	ThreatCount    int            `json:"threat_count"`
	ThreatSeverity map[string]int `json:"threat_severity"`
	ThreatStatus   map[string]int `json:"threat_status"`
	VulnCount      int            `json:"vuln_count"`
	VulnSeverity   map[string]int `json:"vuln_severity"`
	VulnStatus     map[string]int `json:"vuln_status"`
}

// Overview groups the organization's assets, threats and vulnerabilities by
// their discrete attributes.
func (s *DashboardService) Overview(orgID uint) (*Overview, error) {
	assets, err := s.assets.List(orgID)
	if err != nil {
		return nil, err
	}

	var threats []models.Threat
	if err := query.Threats(s.db, orgID).Find(&threats).Error; err != nil {
		return nil, err
	}

	var vulns []models.Vulnerability
	if err := query.Vulnerabilities(s.db, orgID).Find(&vulns).Error; err != nil {
		return nil, err
	}

	return &Overview{
		AssetCount:     len(assets),
		AssetTypes:     posture.CountBy(assets, func(a models.Asset) string { return a.AssetType }),
		ThreatCount:    len(threats),
		ThreatSeverity: posture.CountByCategories(threats, func(t models.Threat) string { return t.Severity }, threatSeverities),
		ThreatStatus:   posture.CountByCategories(threats, func(t models.Threat) string { return t.Status }, threatStatuses),
		VulnCount:      len(vulns),
		VulnSeverity:   posture.CountByCategories(vulns, func(v models.Vulnerability) string { return v.Severity }, vulnSeverities),
		VulnStatus:     posture.CountByCategories(vulns, func(v models.Vulnerability) string { return v.Status }, vulnStatuses),
	}, nil
}
