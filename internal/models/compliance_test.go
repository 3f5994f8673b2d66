package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The framework/control relation keys off FrameworkID, not the gorm
// default column name, so migration and preloading must resolve it.
func TestComplianceFrameworkControlsRelation(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ComplianceFramework{}, &ComplianceControl{}, &ComplianceAssessment{}))

	framework := ComplianceFramework{Name: "GDPR"}
	require.NoError(t, db.Create(&framework).Error)
	control := ComplianceControl{ControlID: "GDPR-1", Name: "Lawful basis", FrameworkID: framework.ID}
	require.NoError(t, db.Create(&control).Error)

	var loaded ComplianceFramework
	require.NoError(t, db.Preload("Controls").First(&loaded, framework.ID).Error)
	require.Len(t, loaded.Controls, 1)
	assert.Equal(t, "GDPR-1", loaded.Controls[0].ControlID)
	assert.Equal(t, framework.ID, loaded.Controls[0].FrameworkID)
}
