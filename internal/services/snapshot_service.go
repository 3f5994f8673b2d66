package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/logger"
	"github.com/halcyonlabs/argus/internal/metrics"
	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/posture"
	"github.com/halcyonlabs/argus/internal/query"
)

// SnapshotService persists daily posture snapshots per organization so the
// dashboard can trend the security score over time.
type SnapshotService struct {
	db            *gorm.DB
	assets        *AssetService
	vulns         *VulnerabilityService
	compliance    *ComplianceService
	notifications *NotificationService
}

func NewSnapshotService(db *gorm.DB, assets *AssetService, vulns *VulnerabilityService, compliance *ComplianceService, ns *NotificationService) *SnapshotService {
	return &SnapshotService{db: db, assets: assets, vulns: vulns, compliance: compliance, notifications: ns}
}

// Take computes and stores one snapshot for the organization.
func (s *SnapshotService) Take(orgID uint, now time.Time) (*models.PostureSnapshot, error) {
	assetCount, err := s.assets.Count(orgID)
	if err != nil {
		return nil, err
	}

	critical, high, medium, err := s.vulns.SeverityCounts(orgID)
	if err != nil {
		return nil, err
	}

	var openVulns int64
	if err := query.Vulnerabilities(s.db, orgID).Where("vulnerabilities.status = ?", models.VulnStatusOpen).Count(&openVulns).Error; err != nil {
		return nil, err
	}

	var activeThreats int64
	if err := query.Threats(s.db, orgID).Where("threats.status = ?", models.ThreatStatusActive).Count(&activeThreats).Error; err != nil {
		return nil, err
	}

	rollup, err := s.compliance.OverallRollup(orgID)
	if err != nil {
		return nil, err
	}

	snapshot := models.PostureSnapshot{
		OrganizationID: orgID,
		Score:          posture.Score(int(assetCount), critical, high, medium),
		AssetCount:     int(assetCount),
		OpenVulns:      int(openVulns),
		ActiveThreats:  int(activeThreats),
		CompliancePct:  rollup.Percentage,
		TakenAt:        now.UTC(),
	}
	if err := s.db.Create(&snapshot).Error; err != nil {
		return nil, err
	}
	metrics.IncSnapshot()

	if s.notifications != nil && snapshot.Score < 50 {
		title := fmt.Sprintf("Security score dropped to %.0f", snapshot.Score)
		s.notifications.Create(orgID, models.NotificationTypeWarning, title, "Review open critical and high vulnerabilities.")
		s.notifications.SendExternal(orgID, "posture", "high", title, "Review open critical and high vulnerabilities.")
	}
	return &snapshot, nil
}

// TakeAll snapshots every organization. Failures are logged per tenant and
// do not stop the sweep.
func (s *SnapshotService) TakeAll(now time.Time) {
	var orgs []models.Organization
	if err := s.db.Find(&orgs).Error; err != nil {
		logger.Log().WithError(err).Error("failed to list organizations for posture snapshots")
		return
	}
	for _, org := range orgs {
		if _, err := s.Take(org.ID, now); err != nil {
			logger.WithFields(map[string]interface{}{"organization_id": org.ID}).
				WithError(err).Error("failed to take posture snapshot")
		}
	}
}

// History returns the organization's snapshots over the last `days` days in
// ascending time order.
func (s *SnapshotService) History(orgID uint, now time.Time, days int) ([]models.PostureSnapshot, error) {
	if days <= 0 {
		days = posture.DefaultTrendDays
	}
	since := now.UTC().AddDate(0, 0, -days)

	var snapshots []models.PostureSnapshot
	err := s.db.Where("organization_id = ? AND taken_at >= ?", orgID, since).
		Order("taken_at ASC, id ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
