package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyQuestion is returned when a problem has no question text.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrInvalidAnswer is returned when a problem answer is NaN or infinite.
	ErrInvalidAnswer = errors.New("answer must be a finite number")

	// ErrInvalidProblemType is returned for an unknown problem type.
	ErrInvalidProblemType = errors.New("invalid problem type")

	// ErrInvalidSubType is returned when the sub-type is unknown, missing for a
	// word problem, or present on a non-word problem.
	ErrInvalidSubType = errors.New("invalid problem sub-type")

	// ErrAgeOutOfRange is returned when an age falls outside MinAge..MaxAge
	// and the reject age policy is active.
	ErrAgeOutOfRange = errors.New("age out of supported range")
)
