package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyQuestion is returned when an explanation is requested without a question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrInvalidCount is returned when a non-positive number of problems is requested.
	ErrInvalidCount = errors.New("problem count must be positive")
)
