package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/edu-api/internal/api/shared"
	"github.com/phrazzld/edu-api/internal/domain"
	"github.com/phrazzld/edu-api/internal/service"
	"github.com/phrazzld/edu-api/internal/service/auth"
	"github.com/phrazzld/edu-api/internal/service/grading"
	"github.com/phrazzld/edu-api/internal/store"
)

// Child-facing messages.
const (
	msgTooManyProblems  = "Maksimalt %d oppgaver er tillatt"
	msgProblemNotFound  = "Oppgave ikke funnet"
	msgMalformedAnswer  = "Svaret må være et tall"
	msgInvalidRequest   = "Ugyldig forespørsel"
	msgInvalidToken     = "Ugyldig innlogging"
	msgInvalidRefresh   = "Ugyldig fornyelsesnøkkel"
	msgAgeOutOfRange    = "Alderen må være mellom 6 og 12 år"
	msgInvalidCount     = "Antall oppgaver må være minst 1"
	msgUnsupportedType  = "Denne oppgavetypen støttes ikke"
	msgUnexpectedError  = "Noe gikk galt. Prøv igjen senere."
	msgValidationFailed = "Ugyldige data"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	case errors.Is(err, grading.ErrProblemNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrTooManyProblems),
		errors.Is(err, service.ErrInvalidCount),
		errors.Is(err, service.ErrUnsupportedType),
		errors.Is(err, grading.ErrMalformedAnswer),
		errors.Is(err, domain.ErrAgeOutOfRange),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidProblemType),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, child-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpectedError
	}

	switch {
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return msgInvalidRefresh

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return msgInvalidToken

	case errors.Is(err, grading.ErrProblemNotFound),
		errors.Is(err, store.ErrProblemNotFound),
		errors.Is(err, store.ErrBatchNotFound):
		return msgProblemNotFound

	case errors.Is(err, service.ErrTooManyProblems):
		limit := service.DefaultMaxCount
		var limitErr *service.CountLimitError
		if errors.As(err, &limitErr) {
			limit = limitErr.Max
		}
		return fmt.Sprintf(msgTooManyProblems, limit)

	case errors.Is(err, service.ErrInvalidCount):
		return msgInvalidCount

	case errors.Is(err, service.ErrUnsupportedType),
		errors.Is(err, domain.ErrInvalidProblemType):
		return msgUnsupportedType

	case errors.Is(err, grading.ErrMalformedAnswer):
		return msgMalformedAnswer

	case errors.Is(err, domain.ErrAgeOutOfRange):
		return msgAgeOutOfRange

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return msgValidationFailed

	default:
		return msgUnexpectedError
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted detail. A non-empty message overrides the safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// "Key: 'Submission.BatchID' Error:Field validation for 'BatchID' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				if len(fieldParts) >= 5 {
					return "Ugyldig " + field + ": " + getValidationTagMessage(fieldParts[3])
				}
				return "Ugyldig " + field
			}
		}
	}

	return msgValidationFailed
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "må fylles ut"
	case "min", "gt", "gte":
		return "for liten"
	case "max", "lt", "lte":
		return "for stor"
	case "oneof":
		return "ugyldig verdi"
	default:
		return "ugyldig"
	}
}
