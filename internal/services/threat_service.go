package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/metrics"
	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/posture"
	"github.com/halcyonlabs/argus/internal/query"
	"github.com/halcyonlabs/argus/internal/workflow"
)

var threatSeverities = []string{"critical", "high", "medium", "low"}

var threatStatuses = []string{
	models.ThreatStatusActive,
	models.ThreatStatusContained,
	models.ThreatStatusResolved,
	models.ThreatStatusFalsePositive,
}

type ThreatService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewThreatService(db *gorm.DB, ns *NotificationService) *ThreatService {
	return &ThreatService{db: db, notifications: ns}
}

// List resolves one filtered, sorted page of the organization's threats.
func (s *ThreatService) List(orgID uint, spec query.Spec) ([]models.Threat, int64, error) {
	return query.ResolveThreats(s.db, orgID, spec)
}

// Get loads a single threat by uuid within the organization.
func (s *ThreatService) Get(orgID uint, uuid string) (*models.Threat, error) {
	var threat models.Threat
	if err := s.db.Where("uuid = ? AND organization_id = ?", uuid, orgID).First(&threat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &threat, nil
}

// Create records a manually entered threat and alerts external providers
// when it meets their severity threshold.
func (s *ThreatService) Create(orgID uint, threat *models.Threat) error {
	threat.OrganizationID = orgID
	if threat.Status == "" {
		threat.Status = models.ThreatStatusActive
	}
	if err := s.db.Create(threat).Error; err != nil {
		return err
	}

	if s.notifications != nil {
		title := fmt.Sprintf("New %s threat: %s", threat.Severity, threat.Name)
		s.notifications.Create(orgID, models.NotificationTypeWarning, title, threat.Description)
		s.notifications.SendExternal(orgID, "threat", threat.Severity, title, threat.Description)
	}
	return nil
}

// Act applies a workflow action ("contain", "resolve", "false_positive",
// "reactivate") to the threat.
func (s *ThreatService) Act(orgID uint, uuid, action string) (*models.Threat, error) {
	threat, err := workflow.ApplyThreatAction(s.db, orgID, uuid, action, time.Now())
	if err != nil {
		return nil, err
	}
	metrics.IncTransition("threat", action)
	return threat, nil
}

// Assign assigns the threat to a user of the same organization.
func (s *ThreatService) Assign(orgID uint, uuid string, userID uint) (*models.Threat, error) {
	return workflow.AssignThreat(s.db, orgID, uuid, userID)
}

// ThreatStats carries the grouped counts and daily trend behind the threats
// stats endpoint. Severity and status are zero-filled over their fixed
// tiers; type and source only list observed values.
type ThreatStats struct {
	Severity map[string]int `json:"severity"`
	Status   map[string]int `json:"status"`
	Type     map[string]int `json:"type"`
	Source   map[string]int `json:"source"`
	Daily    map[string]int `json:"daily"`
}

// Stats aggregates the organization's threats for dashboard charts.
func (s *ThreatService) Stats(orgID uint, now time.Time) (*ThreatStats, error) {
	var threats []models.Threat
	if err := query.Threats(s.db, orgID).Find(&threats).Error; err != nil {
		return nil, err
	}
	metrics.IncStatsComputed("threats")

	severity := func(t models.Threat) string { return t.Severity }
	status := func(t models.Threat) string { return t.Status }
	ttype := func(t models.Threat) string { return t.ThreatType }
	source := func(t models.Threat) string { return t.Source }
	detected := func(t models.Threat) time.Time { return t.DetectedAt }

	return &ThreatStats{
		Severity: posture.CountByCategories(threats, severity, threatSeverities),
		Status:   posture.CountByCategories(threats, status, threatStatuses),
		Type:     posture.CountBy(threats, ttype),
		Source:   posture.CountBy(threats, source),
		Daily:    posture.TrendMap(threats, detected, now, posture.DefaultTrendDays),
	}, nil
}
