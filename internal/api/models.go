package api

import (
	"github.com/phrazzld/edu-api/internal/domain"
)

// ExplainRequest defines the payload for the explanation endpoint.
type ExplainRequest struct {
	Question string             `json:"question" validate:"required"`
	Answer   float64            `json:"answer"`
	Type     domain.ProblemType `json:"type"     validate:"required"`
	Age      int                `json:"age"`
}

// ExplainResponse defines the successful response for the explanation endpoint.
// Example is null when no worked example applies.
type ExplainResponse struct {
	Explanation string   `json:"explanation"`
	Tips        []string `json:"tips"`
	Example     *string  `json:"example"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}
