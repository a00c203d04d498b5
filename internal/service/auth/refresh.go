package auth

import (
	"context"
	"fmt"
	"time"
)

// Refresh exchanges a valid refresh token for a new token pair.
// The role of the refresh token carries over to both new tokens.
func Refresh(
	ctx context.Context,
	svc JWTService,
	refreshToken string,
	now time.Time,
	accessLifetime time.Duration,
) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	claims, err := svc.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	access, err := svc.GenerateToken(ctx, claims.UserID, claims.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := svc.GenerateRefreshToken(ctx, claims.UserID, claims.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(accessLifetime).UTC(),
	}, nil
}
