// Package domain contains the core domain models and types.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrEmptyInput indicates no resume or job description content was provided.
	ErrEmptyInput = errors.New("input document is empty")

	// ErrInputTooLarge indicates the document exceeds the maximum allowed size.
	ErrInputTooLarge = errors.New("input document exceeds maximum size")

	// ErrUnsupportedFormat indicates the uploaded file type cannot be parsed.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrProviderTimeout indicates the model provider did not respond in time.
	ErrProviderTimeout = errors.New("model provider timeout")

	// ErrProviderUnavailable indicates the model provider is not reachable.
	ErrProviderUnavailable = errors.New("model provider unavailable")

	// ErrRateLimited indicates the model provider rejected the call for quota.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidModelResponse indicates the model replied but the content
	// failed schema validation even after the repair attempt.
	ErrInvalidModelResponse = errors.New("invalid model response format")

	// ErrSessionNotFound indicates the interview session does not exist or was evicted.
	ErrSessionNotFound = errors.New("interview session not found")

	// ErrSessionNotActive indicates the interview session has already ended.
	ErrSessionNotActive = errors.New("interview session is not active")

	// ErrDuplicateSession indicates the session id is already in use.
	ErrDuplicateSession = errors.New("interview session already exists")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// OrchestrationError wraps an error with additional context.
type OrchestrationError struct {
	// Op is the operation that failed.
	Op string

	// Err is the underlying error.
	Err error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *OrchestrationError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *OrchestrationError) Unwrap() error {
	return e.Err
}

// WrapError creates a new OrchestrationError with context.
func WrapError(op string, err error, retryable bool) *OrchestrationError {
	return &OrchestrationError{
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var oe *OrchestrationError
	if errors.As(err, &oe) {
		return oe.Retryable
	}
	return false
}

// IsInputError reports whether the error is caused by bad caller input
// rather than a provider or validation failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrUnsupportedFormat)
}

// IsProviderError reports whether the error originates from the model
// provider transport.
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProviderTimeout) ||
		errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrRateLimited)
}
