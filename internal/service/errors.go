package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to status codes.
var (
	// ErrInvalidCount indicates a problem count below one.
	ErrInvalidCount = errors.New("count must be at least 1")

	// ErrTooManyProblems indicates a count above the configured maximum.
	ErrTooManyProblems = errors.New("too many problems requested")

	// ErrUnsupportedType indicates a problem type the operation cannot produce.
	ErrUnsupportedType = errors.New("unsupported problem type")
)

// CountLimitError reports a batch request above the configured maximum.
// It matches ErrTooManyProblems with errors.Is.
type CountLimitError struct {
	Requested int
	Max       int
}

func (e *CountLimitError) Error() string {
	return fmt.Sprintf("%v: %d > %d", ErrTooManyProblems, e.Requested, e.Max)
}

func (e *CountLimitError) Unwrap() error {
	return ErrTooManyProblems
}

// ServiceError wraps errors from a service with context.
type ServiceError struct {
	// Service is the service that failed (e.g., "problem", "explanation")
	Service string
	// Operation is the operation that failed (e.g., "generate_batch")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// It returns known sentinel errors directly without wrapping.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{ErrInvalidCount, ErrTooManyProblems, ErrUnsupportedType} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
