package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assessment statuses.
const (
	AssessmentCompliant          = "compliant"
	AssessmentNonCompliant       = "non_compliant"
	AssessmentPartiallyCompliant = "partially_compliant"
	AssessmentNotApplicable      = "not_applicable"
)

// ComplianceFramework is a shared catalog entry (GDPR, PCI DSS, ...); it is
// not tenant-scoped, only assessments are.
type ComplianceFramework struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Version     string    `json:"version,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Controls []ComplianceControl `json:"controls,omitempty" gorm:"foreignKey:FrameworkID"`
}

func (f *ComplianceFramework) BeforeCreate(tx *gorm.DB) (err error) {
	if f.UUID == "" {
		f.UUID = uuid.NewString()
	}
	return
}

// ComplianceControl belongs to exactly one framework. ControlID is the
// human-readable label such as "AC-1" or "GDPR-3".
type ComplianceControl struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex"`
	ControlID   string    `json:"control_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Category    string    `json:"category,omitempty"`
	FrameworkID uint      `json:"framework_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Framework *ComplianceFramework `json:"framework,omitempty"`
}

func (c *ComplianceControl) BeforeCreate(tx *gorm.DB) (err error) {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return
}

// ComplianceAssessment records an organization's standing against one
// control. At most one assessment exists per (organization, control) pair.
type ComplianceAssessment struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UUID           string    `json:"uuid" gorm:"uniqueIndex"`
	Status         string    `json:"status"` // "compliant", "non_compliant", "partially_compliant", "not_applicable"
	Evidence       string    `json:"evidence,omitempty" gorm:"type:text"`
	Notes          string    `json:"notes,omitempty" gorm:"type:text"`
	AssessedAt     time.Time `json:"assessed_at"`
	OrganizationID uint      `json:"organization_id" gorm:"index:idx_assessment_org_control,unique"`
	ControlID      uint      `json:"control_id" gorm:"index:idx_assessment_org_control,unique"`
	AssessedBy     *uint     `json:"assessed_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Control *ComplianceControl `json:"control,omitempty"`
}

func (a *ComplianceAssessment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.UUID == "" {
		a.UUID = uuid.NewString()
	}
	if a.AssessedAt.IsZero() {
		a.AssessedAt = time.Now().UTC()
	}
	return
}
