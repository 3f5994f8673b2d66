package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/compliance"
	"github.com/halcyonlabs/argus/internal/models"
)

type ComplianceService struct {
	db *gorm.DB
}

func NewComplianceService(db *gorm.DB) *ComplianceService {
	return &ComplianceService{db: db}
}

// Frameworks lists the shared framework catalog with controls.
func (s *ComplianceService) Frameworks() ([]models.ComplianceFramework, error) {
	var frameworks []models.ComplianceFramework
	if err := s.db.Preload("Controls").Find(&frameworks).Error; err != nil {
		return nil, err
	}
	return frameworks, nil
}

// Framework loads one framework with its controls.
func (s *ComplianceService) Framework(frameworkID uint) (*models.ComplianceFramework, error) {
	var framework models.ComplianceFramework
	if err := s.db.Preload("Controls").First(&framework, frameworkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &framework, nil
}

// assessmentStatuses maps the organization's assessed control ids to their
// status for the given framework.
func (s *ComplianceService) assessmentStatuses(orgID, frameworkID uint) (map[uint]string, error) {
	var assessments []models.ComplianceAssessment
	err := s.db.
		Joins("JOIN compliance_controls ON compliance_controls.id = compliance_assessments.control_id").
		Where("compliance_assessments.organization_id = ? AND compliance_controls.framework_id = ?", orgID, frameworkID).
		Find(&assessments).Error
	if err != nil {
		return nil, err
	}
	byControl := make(map[uint]string, len(assessments))
	for _, a := range assessments {
		byControl[a.ControlID] = a.Status
	}
	return byControl, nil
}

// FrameworkRollup computes the organization's overall and per-category
// compliance for one framework. This is the pure read path: controls the
// organization has never assessed count as non_compliant and nothing is
// persisted.
func (s *ComplianceService) FrameworkRollup(orgID, frameworkID uint) (compliance.Rollup, map[string]compliance.Rollup, error) {
	framework, err := s.Framework(frameworkID)
	if err != nil {
		return compliance.Rollup{}, nil, err
	}
	byStatus, err := s.assessmentStatuses(orgID, frameworkID)
	if err != nil {
		return compliance.Rollup{}, nil, err
	}
	overall := compliance.SummarizeControls(framework.Controls, byStatus)
	categories := compliance.ByCategory(framework.Controls, byStatus)
	return overall, categories, nil
}

// Control loads a control together with the organization's assessment.
// When no assessment exists and ensure is false, the returned assessment is
// nil; with ensure true a default non_compliant assessment is created.
// The write side effect is opt-in by design.
func (s *ComplianceService) Control(orgID, controlID uint, ensure bool, userID uint) (*models.ComplianceControl, *models.ComplianceAssessment, error) {
	var control models.ComplianceControl
	if err := s.db.First(&control, controlID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var assessment models.ComplianceAssessment
	err := s.db.Where("organization_id = ? AND control_id = ?", orgID, controlID).First(&assessment).Error
	if err == nil {
		return &control, &assessment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if !ensure {
		return &control, nil, nil
	}

	created, err := s.EnsureAssessment(orgID, controlID, userID)
	if err != nil {
		return nil, nil, err
	}
	return &control, created, nil
}

// EnsureAssessment creates the default non_compliant assessment for a
// control the organization has not assessed yet. Idempotent under the
// unique (organization, control) index.
func (s *ComplianceService) EnsureAssessment(orgID, controlID uint, userID uint) (*models.ComplianceAssessment, error) {
	assessment := models.ComplianceAssessment{
		OrganizationID: orgID,
		ControlID:      controlID,
		Status:         models.AssessmentNonCompliant,
	}
	if userID != 0 {
		assessment.AssessedBy = &userID
	}
	err := s.db.Where("organization_id = ? AND control_id = ?", orgID, controlID).
		FirstOrCreate(&assessment).Error
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// UpdateAssessment sets the organization's standing for a control.
func (s *ComplianceService) UpdateAssessment(orgID, controlID uint, status, evidence, notes string, userID uint) (*models.ComplianceAssessment, error) {
	var assessment models.ComplianceAssessment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ? AND control_id = ?", orgID, controlID).First(&assessment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		assessment.Status = status
		assessment.Evidence = evidence
		assessment.Notes = notes
		assessment.AssessedAt = time.Now().UTC()
		if userID != 0 {
			assessment.AssessedBy = &userID
		}
		return tx.Save(&assessment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// SetupFramework creates initial non_compliant assessments for every control
// of a framework the organization has not adopted yet.
func (s *ComplianceService) SetupFramework(orgID, frameworkID uint, userID uint) (int, error) {
	framework, err := s.Framework(frameworkID)
	if err != nil {
		return 0, err
	}

	byStatus, err := s.assessmentStatuses(orgID, frameworkID)
	if err != nil {
		return 0, err
	}
	if len(byStatus) > 0 {
		return 0, ErrConflict
	}

	created := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, control := range framework.Controls {
			assessment := models.ComplianceAssessment{
				OrganizationID: orgID,
				ControlID:      control.ID,
				Status:         models.AssessmentNonCompliant,
			}
			if userID != 0 {
				assessment.AssessedBy = &userID
			}
			if err := tx.Create(&assessment).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// FrameworkStats is the per-framework block of the compliance stats payload.
type FrameworkStats struct {
	Total              int `json:"total"`
	Compliant          int `json:"compliant"`
	NonCompliant       int `json:"non_compliant"`
	PartiallyCompliant int `json:"partially_compliant"`
	NotApplicable      int `json:"not_applicable"`
	Percentage         int `json:"percentage"`
}

// Stats rolls up every framework for the organization, percentages rounded
// for presentation.
func (s *ComplianceService) Stats(orgID uint) (map[string]FrameworkStats, error) {
	frameworks, err := s.Frameworks()
	if err != nil {
		return nil, err
	}

	stats := make(map[string]FrameworkStats, len(frameworks))
	for _, framework := range frameworks {
		byStatus, err := s.assessmentStatuses(orgID, framework.ID)
		if err != nil {
			return nil, err
		}
		rollup := compliance.SummarizeControls(framework.Controls, byStatus)
		stats[framework.Name] = FrameworkStats{
			Total:              rollup.Total,
			Compliant:          rollup.Compliant,
			NonCompliant:       rollup.NonCompliant,
			PartiallyCompliant: rollup.PartiallyCompliant,
			NotApplicable:      rollup.NotApplicable,
			Percentage:         int(rollup.Percentage + 0.5),
		}
	}
	return stats, nil
}

// OverallRollup summarizes every assessment the organization has on file,
// used by the main dashboard.
func (s *ComplianceService) OverallRollup(orgID uint) (compliance.Rollup, error) {
	var assessments []models.ComplianceAssessment
	if err := s.db.Where("organization_id = ?", orgID).Find(&assessments).Error; err != nil {
		return compliance.Rollup{}, err
	}
	return compliance.Summarize(assessments), nil
}
