package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/service"
	"github.com/phrazzld/edu-api/internal/service/auth"
	"github.com/phrazzld/edu-api/internal/service/grading"
	"github.com/phrazzld/edu-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"wrapped expired refresh", fmt.Errorf("refresh: %w", auth.ErrExpiredRefreshToken), http.StatusUnauthorized},
		{"wrong token type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"problem not found", grading.ErrProblemNotFound, http.StatusNotFound},
		{"batch not found", store.ErrBatchNotFound, http.StatusNotFound},
		{"too many problems", fmt.Errorf("%w: 101 > 100", service.ErrTooManyProblems), http.StatusBadRequest},
		{"count limit", &service.CountLimitError{Requested: 30, Max: 25}, http.StatusBadRequest},
		{"invalid count", service.ErrInvalidCount, http.StatusBadRequest},
		{"unsupported type", service.ErrUnsupportedType, http.StatusBadRequest},
		{"malformed answer", fmt.Errorf("%w: abc", grading.ErrMalformedAnswer), http.StatusBadRequest},
		{"age out of range", domain.ErrAgeOutOfRange, http.StatusBadRequest},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"service error around sentinel", service.NewServiceError("problem", "op", "msg", service.ErrInvalidCount), http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, msgUnexpectedError},
		{"too many problems", service.ErrTooManyProblems, "Maksimalt 100 oppgaver er tillatt"},
		{"configured limit", &service.CountLimitError{Requested: 30, Max: 25}, "Maksimalt 25 oppgaver er tillatt"},
		{"problem not found", grading.ErrProblemNotFound, "Oppgave ikke funnet"},
		{"store problem not found", store.ErrProblemNotFound, "Oppgave ikke funnet"},
		{"malformed answer", grading.ErrMalformedAnswer, msgMalformedAnswer},
		{"refresh token", auth.ErrInvalidRefreshToken, msgInvalidRefresh},
		{"access token", auth.ErrExpiredToken, msgInvalidToken},
		{"age", domain.ErrAgeOutOfRange, msgAgeOutOfRange},
		{"internal detail hidden", errors.New("pq: connection refused at 10.0.0.1"), msgUnexpectedError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := validator.New().Struct(grading.Submission{ProblemID: 1, Answer: []byte("5")})
	assert.Equal(t, "Ugyldig BatchID: må fylles ut", SanitizeValidationError(err))

	assert.Equal(t, msgValidationFailed, SanitizeValidationError(errors.New("something else")))
}
