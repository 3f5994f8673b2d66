// Package workflow governs status transitions for threats and
// vulnerabilities. Transitions are encoded in explicit tables and applied
// inside a transaction (read, validate, write) so concurrent actions on the
// same record cannot lose updates.
package workflow

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/models"
	"github.com/halcyonlabs/argus/internal/query"
)

var (
	// ErrNotFound means the record is absent or belongs to another tenant.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition means the action is not legal from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCrossTenantAssignment means the assignee is outside the record's organization.
	ErrCrossTenantAssignment = errors.New("assignee belongs to another organization")
)

// Threat actions.
const (
	ThreatContain       = "contain"
	ThreatResolve       = "resolve"
	ThreatFalsePositive = "false_positive"
	ThreatReactivate    = "reactivate"
)

// Vulnerability actions.
const (
	VulnStart         = "start"
	VulnFix           = "fix"
	VulnAcceptRisk    = "accept_risk"
	VulnFalsePositive = "false_positive"
	VulnReopen        = "reopen"
)

// threatTargets maps an action to the status it produces.
var threatTargets = map[string]string{
	ThreatContain:       models.ThreatStatusContained,
	ThreatResolve:       models.ThreatStatusResolved,
	ThreatFalsePositive: models.ThreatStatusFalsePositive,
	ThreatReactivate:    models.ThreatStatusActive,
}

// threatTransitions is the per-status allow-list of destination statuses.
// Containment may precede resolution; terminal statuses only reactivate.
var threatTransitions = map[string][]string{
	models.ThreatStatusActive:        {models.ThreatStatusContained, models.ThreatStatusResolved, models.ThreatStatusFalsePositive},
	models.ThreatStatusContained:     {models.ThreatStatusActive, models.ThreatStatusResolved},
	models.ThreatStatusResolved:      {models.ThreatStatusActive},
	models.ThreatStatusFalsePositive: {models.ThreatStatusActive},
}

var vulnTargets = map[string]string{
	VulnStart:         models.VulnStatusInProgress,
	VulnFix:           models.VulnStatusFixed,
	VulnAcceptRisk:    models.VulnStatusAcceptedRisk,
	VulnFalsePositive: models.VulnStatusFalsePositive,
	VulnReopen:        models.VulnStatusOpen,
}

var vulnTransitions = map[string][]string{
	models.VulnStatusOpen:          {models.VulnStatusInProgress, models.VulnStatusFixed, models.VulnStatusAcceptedRisk, models.VulnStatusFalsePositive},
	models.VulnStatusInProgress:    {models.VulnStatusFixed, models.VulnStatusAcceptedRisk, models.VulnStatusFalsePositive},
	models.VulnStatusFixed:         {models.VulnStatusOpen},
	models.VulnStatusAcceptedRisk:  {models.VulnStatusOpen},
	models.VulnStatusFalsePositive: {models.VulnStatusOpen},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, dst := range table[from] {
		if dst == to {
			return true
		}
	}
	return false
}

// ApplyThreatAction transitions a threat owned by orgID. Resolving stamps
// resolved_at; any transition away from resolved clears it.
func ApplyThreatAction(db *gorm.DB, orgID uint, threatUUID, action string, now time.Time) (*models.Threat, error) {
	target, ok := threatTargets[action]
	if !ok {
		return nil, ErrInvalidTransition
	}

	var threat models.Threat
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ? AND organization_id = ?", threatUUID, orgID).First(&threat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !allowed(threatTransitions, threat.Status, target) {
			return ErrInvalidTransition
		}

		threat.Status = target
		if target == models.ThreatStatusResolved {
			ts := now.UTC()
			threat.ResolvedAt = &ts
		} else {
			threat.ResolvedAt = nil
		}
		return tx.Save(&threat).Error
	})
	if err != nil {
		return nil, err
	}
	return &threat, nil
}

// ApplyVulnerabilityAction transitions a vulnerability whose asset belongs
// to orgID. Fixing stamps fixed_at; reopening clears it.
func ApplyVulnerabilityAction(db *gorm.DB, orgID uint, vulnUUID, action string, now time.Time) (*models.Vulnerability, error) {
	target, ok := vulnTargets[action]
	if !ok {
		return nil, ErrInvalidTransition
	}

	var vuln models.Vulnerability
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := query.Vulnerabilities(tx, orgID).Where("vulnerabilities.uuid = ?", vulnUUID).First(&vuln).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !allowed(vulnTransitions, vuln.Status, target) {
			return ErrInvalidTransition
		}

		vuln.Status = target
		if target == models.VulnStatusFixed {
			ts := now.UTC()
			vuln.FixedAt = &ts
		} else {
			vuln.FixedAt = nil
		}
		return tx.Save(&vuln).Error
	})
	if err != nil {
		return nil, err
	}
	return &vuln, nil
}

// assignee loads the user and verifies organization membership.
func assignee(tx *gorm.DB, orgID, userID uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrossTenantAssignment
		}
		return nil, err
	}
	if user.OrganizationID != orgID {
		return nil, ErrCrossTenantAssignment
	}
	return &user, nil
}

// AssignThreat assigns a threat to a user in the same organization. A
// cross-tenant assignee fails explicitly instead of being dropped.
func AssignThreat(db *gorm.DB, orgID uint, threatUUID string, userID uint) (*models.Threat, error) {
	var threat models.Threat
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ? AND organization_id = ?", threatUUID, orgID).First(&threat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		user, err := assignee(tx, orgID, userID)
		if err != nil {
			return err
		}
		threat.AssignedTo = &user.ID
		return tx.Save(&threat).Error
	})
	if err != nil {
		return nil, err
	}
	return &threat, nil
}

// AssignVulnerability assigns a vulnerability to a user in the same
// organization as the vulnerability's asset.
func AssignVulnerability(db *gorm.DB, orgID uint, vulnUUID string, userID uint) (*models.Vulnerability, error) {
	var vuln models.Vulnerability
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := query.Vulnerabilities(tx, orgID).Where("vulnerabilities.uuid = ?", vulnUUID).First(&vuln).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		user, err := assignee(tx, orgID, userID)
		if err != nil {
			return err
		}
		vuln.AssignedTo = &user.ID
		return tx.Save(&vuln).Error
	})
	if err != nil {
		return nil, err
	}
	return &vuln, nil
}
