package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Asset{},
		&models.Threat{},
		&models.Vulnerability{},
		&models.ComplianceFramework{},
		&models.ComplianceControl{},
		&models.ComplianceAssessment{},
		&models.SecurityEvent{},
		&models.Notification{},
		&models.NotificationProvider{},
		&models.PostureSnapshot{},
	))
	return db
}

func seedOrg(t *testing.T, db *gorm.DB, name string) *models.Organization {
	org := &models.Organization{Name: name}
	require.NoError(t, db.Create(org).Error)
	return org
}

func seedAsset(t *testing.T, db *gorm.DB, orgID uint, name string) *models.Asset {
	asset := &models.Asset{Name: name, AssetType: "server", OrganizationID: orgID}
	require.NoError(t, db.Create(asset).Error)
	return asset
}

func seedFramework(t *testing.T, db *gorm.DB, name string, controls int) *models.ComplianceFramework {
	framework := &models.ComplianceFramework{Name: name}
	require.NoError(t, db.Create(framework).Error)
	for i := 0; i < controls; i++ {
		control := models.ComplianceControl{
			ControlID:   name + "-" + string(rune('1'+i)),
			Name:        "control",
			Category:    "general",
			FrameworkID: framework.ID,
		}
		require.NoError(t, db.Create(&control).Error)
	}
	require.NoError(t, db.Preload("Controls").First(framework, framework.ID).Error)
	return framework
}
