package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/edu-api/internal/config"
	"github.com/stretchr/testify/require"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

// NewTestJWTService creates a JWT service with default configuration for testing.
func NewTestJWTService() (JWTService, error) {
	return NewJWTService(DefaultJWTConfig())
}

// NewTestJWTServiceAt creates a JWT service whose clock is fixed by now.
func NewTestJWTServiceAt(secret string, lifetime time.Duration, now func() time.Time) (JWTService, error) {
	cfg := DefaultJWTConfig()
	cfg.JWTSecret = secret
	cfg.TokenLifetimeMinutes = int(lifetime / time.Minute)
	cfg.RefreshTokenLifetimeMinutes = 2 * cfg.TokenLifetimeMinutes
	return newHMACJWTService(cfg, now)
}

// RequireTestJWTService creates a test JWT service and uses require to handle errors.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewTestJWTService()
	require.NoError(t, err, "Failed to create test JWT service")
	return service
}

// GenerateAuthHeaderForTesting creates an Authorization header value with Bearer prefix
// containing a valid access token for the specified user ID.
func GenerateAuthHeaderForTesting(userID uuid.UUID) (string, error) {
	svc, err := NewTestJWTService()
	if err != nil {
		return "", fmt.Errorf("failed to create JWT service: %w", err)
	}
	token, err := svc.GenerateToken(context.Background(), userID, RoleStudent)
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}

// GenerateAuthHeaderForTestingT is a test helper that creates an Authorization header
// and fails the test if token generation fails.
func GenerateAuthHeaderForTestingT(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	header, err := GenerateAuthHeaderForTesting(userID)
	require.NoError(t, err, "Failed to generate auth header")
	return header
}
