package workflow

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/models"
)

func setupWorkflowTestDB(t *testing.T) *gorm.DB {
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Asset{},
		&models.Threat{},
		&models.Vulnerability{},
	))
	return db
}

func seedThreat(t *testing.T, db *gorm.DB, orgID uint, status string) *models.Threat {
	threat := &models.Threat{
		Name:           "test threat",
		ThreatType:     "malware",
		Severity:       "high",
		Status:         status,
		OrganizationID: orgID,
	}
	require.NoError(t, db.Create(threat).Error)
	return threat
}

func seedVuln(t *testing.T, db *gorm.DB, orgID uint, status string) *models.Vulnerability {
	asset := &models.Asset{Name: "host", AssetType: "server", OrganizationID: orgID}
	require.NoError(t, db.Create(asset).Error)
	vuln := &models.Vulnerability{
		Title:    "test vuln",
		Severity: "high",
		Status:   status,
		AssetID:  asset.ID,
	}
	require.NoError(t, db.Create(vuln).Error)
	return vuln
}

func TestThreatResolveStampsResolvedAt(t *testing.T) {
	db := setupWorkflowTestDB(t)
	threat := seedThreat(t, db, 1, models.ThreatStatusActive)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	updated, err := ApplyThreatAction(db, 1, threat.UUID, ThreatResolve, now)
	require.NoError(t, err)
	assert.Equal(t, models.ThreatStatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, now, *updated.ResolvedAt)
}

func TestThreatReactivateClearsResolvedAt(t *testing.T) {
	db := setupWorkflowTestDB(t)
	threat := seedThreat(t, db, 1, models.ThreatStatusActive)

	_, err := ApplyThreatAction(db, 1, threat.UUID, ThreatResolve, time.Now())
	require.NoError(t, err)

	updated, err := ApplyThreatAction(db, 1, threat.UUID, ThreatReactivate, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.ThreatStatusActive, updated.Status)
	assert.Nil(t, updated.ResolvedAt)

	var stored models.Threat
	require.NoError(t, db.First(&stored, threat.ID).Error)
	assert.Nil(t, stored.ResolvedAt)
}

func TestThreatContainThenResolve(t *testing.T) {
	db := setupWorkflowTestDB(t)
	threat := seedThreat(t, db, 1, models.ThreatStatusActive)

	updated, err := ApplyThreatAction(db, 1, threat.UUID, ThreatContain, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.ThreatStatusContained, updated.Status)

	updated, err = ApplyThreatAction(db, 1, threat.UUID, ThreatResolve, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.ThreatStatusResolved, updated.Status)
}

func TestThreatInvalidTransitions(t *testing.T) {
	db := setupWorkflowTestDB(t)

	// Containing a resolved threat is not legal
	threat := seedThreat(t, db, 1, models.ThreatStatusResolved)
	_, err := ApplyThreatAction(db, 1, threat.UUID, ThreatContain, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Unknown action
	_, err = ApplyThreatAction(db, 1, threat.UUID, "escalate", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Record must be untouched after a rejected action
	var stored models.Threat
	require.NoError(t, db.First(&stored, threat.ID).Error)
	assert.Equal(t, models.ThreatStatusResolved, stored.Status)
}

func TestThreatActionOtherTenantIsNotFound(t *testing.T) {
	db := setupWorkflowTestDB(t)
	threat := seedThreat(t, db, 1, models.ThreatStatusActive)

	_, err := ApplyThreatAction(db, 2, threat.UUID, ThreatResolve, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVulnFixStampsFixedAt(t *testing.T) {
	db := setupWorkflowTestDB(t)
	vuln := seedVuln(t, db, 1, models.VulnStatusOpen)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	updated, err := ApplyVulnerabilityAction(db, 1, vuln.UUID, VulnFix, now)
	require.NoError(t, err)
	assert.Equal(t, models.VulnStatusFixed, updated.Status)
	require.NotNil(t, updated.FixedAt)
	assert.Equal(t, now, *updated.FixedAt)
}

func TestVulnReopenClearsFixedAt(t *testing.T) {
	db := setupWorkflowTestDB(t)
	vuln := seedVuln(t, db, 1, models.VulnStatusOpen)

	_, err := ApplyVulnerabilityAction(db, 1, vuln.UUID, VulnFix, time.Now())
	require.NoError(t, err)

	updated, err := ApplyVulnerabilityAction(db, 1, vuln.UUID, VulnReopen, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.VulnStatusOpen, updated.Status)
	assert.Nil(t, updated.FixedAt)
}

func TestVulnLifecycle(t *testing.T) {
	db := setupWorkflowTestDB(t)
	vuln := seedVuln(t, db, 1, models.VulnStatusOpen)

	updated, err := ApplyVulnerabilityAction(db, 1, vuln.UUID, VulnStart, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.VulnStatusInProgress, updated.Status)

	// in_progress cannot go back to in_progress
	_, err = ApplyVulnerabilityAction(db, 1, vuln.UUID, VulnStart, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err = ApplyVulnerabilityAction(db, 1, vuln.UUID, VulnAcceptRisk, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.VulnStatusAcceptedRisk, updated.Status)
	assert.Nil(t, updated.FixedAt)

	// accepted_risk can only reopen
	_, err = ApplyVulnerabilityAction(db, 1, vuln.UUID, VulnFix, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err = ApplyVulnerabilityAction(db, 1, vuln.UUID, VulnReopen, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.VulnStatusOpen, updated.Status)
}

func TestVulnActionScopedThroughAsset(t *testing.T) {
	db := setupWorkflowTestDB(t)
	vuln := seedVuln(t, db, 1, models.VulnStatusOpen)

	// Another tenant cannot act on it even with the right uuid
	_, err := ApplyVulnerabilityAction(db, 2, vuln.UUID, VulnFix, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignThreat(t *testing.T) {
	db := setupWorkflowTestDB(t)
	threat := seedThreat(t, db, 1, models.ThreatStatusActive)

	user := models.User{Email: "a@example.com", Username: "a", OrganizationID: 1}
	require.NoError(t, db.Create(&user).Error)

	updated, err := AssignThreat(db, 1, threat.UUID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, user.ID, *updated.AssignedTo)
}

func TestAssignThreatCrossTenant(t *testing.T) {
	db := setupWorkflowTestDB(t)
	threat := seedThreat(t, db, 1, models.ThreatStatusActive)

	outsider := models.User{Email: "b@example.com", Username: "b", OrganizationID: 2}
	require.NoError(t, db.Create(&outsider).Error)

	_, err := AssignThreat(db, 1, threat.UUID, outsider.ID)
	assert.ErrorIs(t, err, ErrCrossTenantAssignment)

	// Missing user is treated the same way
	_, err = AssignThreat(db, 1, threat.UUID, 9999)
	assert.ErrorIs(t, err, ErrCrossTenantAssignment)
}

func TestAssignVulnerabilityCrossTenant(t *testing.T) {
	db := setupWorkflowTestDB(t)
	vuln := seedVuln(t, db, 1, models.VulnStatusOpen)

	outsider := models.User{Email: "c@example.com", Username: "c", OrganizationID: 2}
	require.NoError(t, db.Create(&outsider).Error)

	_, err := AssignVulnerability(db, 1, vuln.UUID, outsider.ID)
	assert.ErrorIs(t, err, ErrCrossTenantAssignment)
}
