package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/argus/internal/models"
)

func TestNotificationListAndMarkRead(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrg(t, db, "org")
	other := seedOrg(t, db, "other")
	svc := NewNotificationService(db)

	mine, err := svc.Create(org.ID, models.NotificationTypeWarning, "mine", "msg")
	require.NoError(t, err)
	_, err = svc.Create(other.ID, models.NotificationTypeInfo, "theirs", "msg")
	require.NoError(t, err)

	notifications, err := svc.List(org.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "mine", notifications[0].Title)

	// Another tenant cannot mark my notification as read
	err = svc.MarkAsRead(other.ID, mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	unread, err := svc.List(org.ID, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	err = svc.MarkAsRead(org.ID, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.MarkAsRead(org.ID, mine.ID))
	unread, err = svc.List(org.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationMarkAllAsRead(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrg(t, db, "org")
	svc := NewNotificationService(db)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(org.ID, models.NotificationTypeInfo, "n", "msg")
		require.NoError(t, err)
	}
	require.NoError(t, svc.MarkAllAsRead(org.ID))

	unread, err := svc.List(org.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationProviders(t *testing.T) {
	db := setupTestDB(t)
	org := seedOrg(t, db, "org")
	svc := NewNotificationService(db)

	provider := models.NotificationProvider{Name: "ops", Type: "webhook", URL: "https://hooks.example.com/x"}
	require.NoError(t, svc.CreateProvider(org.ID, &provider))
	assert.Equal(t, "high", provider.MinSeverity)
	assert.Equal(t, org.ID, provider.OrganizationID)

	providers, err := svc.ListProviders(org.ID)
	require.NoError(t, err)
	assert.Len(t, providers, 1)

	// Deleting from the wrong tenant fails, from the right one succeeds
	err = svc.DeleteProvider(org.ID+1, provider.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, svc.DeleteProvider(org.ID, provider.ID))
	err = svc.DeleteProvider(org.ID, provider.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
