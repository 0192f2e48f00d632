// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrEmptyPostback indicates a postback event carried no data.
	ErrEmptyPostback = errors.New("empty postback data")

	// ErrInvalidPostback indicates postback data did not match the expected grammar.
	ErrInvalidPostback = errors.New("invalid postback data")

	// ErrUnknownRoute indicates postback data parsed but matched no handler.
	ErrUnknownRoute = errors.New("unknown postback route")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUnsupportedLanguage indicates the requested target language is not offered.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrNoTranslation indicates no provider produced a translation.
	ErrNoTranslation = errors.New("no translation available")

	// ErrProviderUnavailable indicates no translation provider is configured.
	ErrProviderUnavailable = errors.New("translation provider unavailable")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")
)

// ReplyError represents a failed outbound reply call.
type ReplyError struct {
	EventType string
	Err       error
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("reply failed (event=%s): %v", e.EventType, e.Err)
}

func (e *ReplyError) Unwrap() error {
	return e.Err
}

// NewReplyError creates a new reply error.
func NewReplyError(eventType string, err error) *ReplyError {
	return &ReplyError{
		EventType: eventType,
		Err:       err,
	}
}

// IsInvalidPostback reports whether err stems from malformed postback data.
func IsInvalidPostback(err error) bool {
	return errors.Is(err, ErrInvalidPostback) || errors.Is(err, ErrEmptyPostback)
}

// IsRateLimitExceeded reports whether err is a rate limit rejection.
func IsRateLimitExceeded(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}
