package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when remote problem generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate problems")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrRemoteDisabled is returned by DisabledRemote when no remote service is configured
	ErrRemoteDisabled = errors.New("remote generation disabled")

	// ErrCandidateRejected is returned when an externally sourced problem fails validation
	ErrCandidateRejected = errors.New("candidate problem rejected")

	// ErrInvalidNumber is returned when a numeric literal cannot be parsed
	ErrInvalidNumber = errors.New("invalid numeric literal")
)
