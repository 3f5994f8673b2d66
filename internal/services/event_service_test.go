package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/argus/internal/models"
)

func TestEventRecordAndRecent(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrg(t, db, "org")
	other := seedOrg(t, db, "other")
	svc := NewEventService(db)

	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		event := models.SecurityEvent{EventType: "network", Severity: "info", Timestamp: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, svc.Record(org.ID, &event))
	}
	require.NoError(t, svc.Record(other.ID, &models.SecurityEvent{EventType: "system", Severity: "info", Timestamp: base}))

	recent, err := svc.Recent(org.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// Newest first
	assert.True(t, recent[0].Timestamp.After(recent[1].Timestamp))
	for _, e := range recent {
		assert.Equal(t, org.ID, e.OrganizationID)
	}
}

func TestEventTrendGapFilled(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrg(t, db, "org")
	svc := NewEventService(db)

	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	event := models.SecurityEvent{EventType: "network", Severity: "info", Timestamp: now.AddDate(0, 0, -1)}
	require.NoError(t, svc.Record(org.ID, &event))

	trend, err := svc.Trend(org.ID, now, 30)
	require.NoError(t, err)
	require.Len(t, trend, 30)
	assert.Equal(t, "2026-07-14", trend[28].Date)
	assert.Equal(t, 1, trend[28].Count)
	assert.Equal(t, 0, trend[29].Count)
}
