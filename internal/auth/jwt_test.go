package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/config"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenManager(ttlSeconds int) *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret-for-portal-tokens",
		TokenTTL:  ttlSeconds,
		Issuer:    "portal-test",
	})
}

func testViewer(role domain.ViewerRole) *ViewerContext {
	return &ViewerContext{
		WorkspaceID: uuid.New(),
		ClientID:    uuid.New(),
		Email:       "anna@example.com",
		DisplayName: "Anna Client",
		Role:        role,
	}
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm := testTokenManager(3600)
	viewer := testViewer(domain.ViewerClient)

	token, expiresAt, err := tm.Issue(viewer)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	parsed, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, viewer.WorkspaceID, parsed.WorkspaceID)
	assert.Equal(t, viewer.ClientID, parsed.ClientID)
	assert.Equal(t, viewer.Email, parsed.Email)
	assert.Equal(t, viewer.DisplayName, parsed.DisplayName)
	assert.Equal(t, domain.ViewerClient, parsed.Role)
}

func TestTokenManager_AgencyRole(t *testing.T) {
	tm := testTokenManager(3600)
	viewer := testViewer(domain.ViewerAgency)

	token, _, err := tm.Issue(viewer)
	require.NoError(t, err)

	parsed, err := tm.Validate(token)
	require.NoError(t, err)
	assert.True(t, parsed.IsAgency())
	assert.False(t, parsed.IsClient())
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := testTokenManager(-60)
	viewer := testViewer(domain.ViewerClient)

	token, _, err := tm.Issue(viewer)
	require.NoError(t, err)

	_, err = tm.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := testTokenManager(3600)
	viewer := testViewer(domain.ViewerClient)

	token, _, err := tm.Issue(viewer)
	require.NoError(t, err)

	other := NewTokenManager(&config.AuthConfig{
		JWTSecret: "a-different-secret",
		TokenTTL:  3600,
		Issuer:    "portal-test",
	})
	_, err = other.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	tm := testTokenManager(3600)
	viewer := testViewer(domain.ViewerClient)

	token, _, err := tm.Issue(viewer)
	require.NoError(t, err)

	other := NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret-for-portal-tokens",
		TokenTTL:  3600,
		Issuer:    "someone-else",
	})
	_, err = other.Validate(token)
	require.Error(t, err)
}

func TestTokenManager_GarbageToken(t *testing.T) {
	tm := testTokenManager(3600)

	_, err := tm.Validate("not.a.token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_MissingSecret(t *testing.T) {
	tm := NewTokenManager(&config.AuthConfig{TokenTTL: 3600, Issuer: "portal-test"})

	_, _, err := tm.Issue(testViewer(domain.ViewerClient))
	require.Error(t, err)
}
