package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/edu-api/internal/config"
	"github.com/phrazzld/edu-api/internal/mocks"
	"github.com/phrazzld/edu-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	fixedTime := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	authConfig := &config.AuthConfig{
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}

	validRefresh := func() *mocks.MockJWTService {
		return &mocks.MockJWTService{
			ValidateRefreshTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
				if token == "good-refresh" {
					return &auth.Claims{UserID: userID, Role: auth.RoleStudent, TokenType: auth.TokenTypeRefresh}, nil
				}
				return nil, auth.ErrInvalidRefreshToken
			},
			Token:        "new-access",
			RefreshToken: "new-refresh",
		}
	}

	tests := []struct {
		name       string
		body       string
		jwt        func() *mocks.MockJWTService
		wantStatus int
	}{
		{name: "valid refresh token", body: `{"refresh_token":"good-refresh"}`, jwt: validRefresh, wantStatus: http.StatusOK},
		{name: "missing refresh token", body: `{}`, jwt: validRefresh, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{"refresh_token":`, jwt: validRefresh, wantStatus: http.StatusBadRequest},
		{name: "invalid refresh token", body: `{"refresh_token":"bad"}`, jwt: validRefresh, wantStatus: http.StatusUnauthorized},
		{
			name: "expired refresh token",
			body: `{"refresh_token":"old"}`,
			jwt: func() *mocks.MockJWTService {
				return &mocks.MockJWTService{ValidateErr: auth.ErrExpiredRefreshToken}
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "signing failure",
			body: `{"refresh_token":"good-refresh"}`,
			jwt: func() *mocks.MockJWTService {
				m := validRefresh()
				m.Err = errors.New("sign failed")
				return m
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := NewAuthHandler(tt.jwt(), authConfig, nil)
			handler.timeFunc = func() time.Time { return fixedTime }

			req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.RefreshToken(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.NotContains(t, rec.Body.String(), "new-access")
				return
			}

			var resp RefreshTokenResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "new-access", resp.AccessToken)
			assert.Equal(t, "new-refresh", resp.RefreshToken)
			assert.Equal(t, "2025-03-01T09:00:00Z", resp.ExpiresAt)
		})
	}
}

func TestRefreshTokenWithRealService(t *testing.T) {
	t.Parallel()

	cfg := auth.DefaultJWTConfig()
	jwtService := auth.RequireTestJWTService(t)
	userID := uuid.New()
	refresh, err := jwtService.GenerateRefreshToken(context.Background(), userID, auth.RoleStudent)
	require.NoError(t, err)

	handler := NewAuthHandler(jwtService, &cfg, nil)
	rec := httptest.NewRecorder()
	handler.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/api/auth/refresh",
		strings.NewReader(`{"refresh_token":"`+refresh+`"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RefreshTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := jwtService.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	// an access token is not accepted for refresh
	rec = httptest.NewRecorder()
	handler.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/api/auth/refresh",
		strings.NewReader(`{"refresh_token":"`+resp.AccessToken+`"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
