package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/argus/internal/models"
)

func TestSnapshotTake(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrg(t, db, "org")
	asset := seedAsset(t, db, org.ID, "web")

	vuln := models.Vulnerability{Title: "v", Severity: "critical", Status: "open", AssetID: asset.ID}
	require.NoError(t, db.Create(&vuln).Error)
	threat := models.Threat{Name: "t", ThreatType: "malware", Severity: "high", Status: "active", OrganizationID: org.ID}
	require.NoError(t, db.Create(&threat).Error)

	svc := NewSnapshotService(db,
		NewAssetService(db),
		NewVulnerabilityService(db),
		NewComplianceService(db),
		nil)

	now := time.Date(2026, 6, 1, 2, 0, 0, 0, time.UTC)
	snapshot, err := svc.Take(org.ID, now)
	require.NoError(t, err)

	// One asset with one critical finding: 100 - 10/1
	assert.InDelta(t, 90.0, snapshot.Score, 0.0001)
	assert.Equal(t, 1, snapshot.AssetCount)
	assert.Equal(t, 1, snapshot.OpenVulns)
	assert.Equal(t, 1, snapshot.ActiveThreats)
	assert.Equal(t, now, snapshot.TakenAt)

	var stored models.PostureSnapshot
	require.NoError(t, db.First(&stored, snapshot.ID).Error)
	assert.Equal(t, org.ID, stored.OrganizationID)
}

func TestSnapshotTakeAllSweepsEveryOrg(t *testing.T) {
	db := setupTestDB(t)
	org1 := seedOrg(t, db, "one")
	org2 := seedOrg(t, db, "two")

	svc := NewSnapshotService(db,
		NewAssetService(db),
		NewVulnerabilityService(db),
		NewComplianceService(db),
		nil)

	svc.TakeAll(time.Now())

	var count int64
	require.NoError(t, db.Model(&models.PostureSnapshot{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var snaps []models.PostureSnapshot
	require.NoError(t, db.Order("organization_id ASC").Find(&snaps).Error)
	assert.Equal(t, org1.ID, snaps[0].OrganizationID)
	assert.Equal(t, org2.ID, snaps[1].OrganizationID)
}

func TestSnapshotHistoryAscending(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrg(t, db, "org")
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	for _, daysAgo := range []int{40, 5, 2, 1} {
		snap := models.PostureSnapshot{
			OrganizationID: org.ID,
			Score:          90,
			TakenAt:        now.AddDate(0, 0, -daysAgo),
		}
		require.NoError(t, db.Create(&snap).Error)
	}

	svc := NewSnapshotService(db,
		NewAssetService(db),
		NewVulnerabilityService(db),
		NewComplianceService(db),
		nil)

	history, err := svc.History(org.ID, now, 30)
	require.NoError(t, err)
	// The 40-day-old snapshot falls outside the window
	require.Len(t, history, 3)
	assert.True(t, history[0].TakenAt.Before(history[1].TakenAt))
	assert.True(t, history[1].TakenAt.Before(history[2].TakenAt))
}
