package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/argus/internal/config"
	"github.com/halcyonlabs/argus/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user, err := svc.Register("Admin@Example.com", "admin", "s3cretpass", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, "admin", user.Role)
	assert.NotZero(t, user.OrganizationID)

	token, err := svc.Login("admin@example.com", "s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.OrganizationID, claims.OrganizationID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginFailures(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	_, err := svc.Register("user@example.com", "user", "s3cretpass", "Acme")
	require.NoError(t, err)

	_, err = svc.Login("user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Failed login leaves an audit event behind
	var events []models.SecurityEvent
	require.NoError(t, db.Where("event_type = ? AND status = ?", "authentication", "failure").Find(&events).Error)
	assert.Len(t, events, 1)
}

func TestLoginDisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user, err := svc.Register("user@example.com", "user", "s3cretpass", "Acme")
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("active", false).Error)

	_, err = svc.Login("user@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	_, err := svc.Register("user@example.com", "user", "s3cretpass", "Acme")
	require.NoError(t, err)

	_, err = svc.Register("USER@example.com", "user2", "s3cretpass", "Other Org")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, config.Config{JWTSecret: "test-secret"})
	other := NewAuthService(db, config.Config{JWTSecret: "different-secret"})

	_, err := svc.Register("user@example.com", "user", "s3cretpass", "Acme")
	require.NoError(t, err)

	token, err := svc.Login("user@example.com", "s3cretpass")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, config.Config{JWTSecret: "test-secret"})

	user, err := svc.Register("user@example.com", "user", "s3cretpass", "Acme")
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, "wrong", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(user.ID, "s3cretpass", "newpassword1"))

	_, err = svc.Login("user@example.com", "newpassword1")
	assert.NoError(t, err)
}
