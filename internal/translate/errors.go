package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ProviderError is a failure reported by a translation backend.
type ProviderError struct {
	Provider   string
	StatusCode int    // HTTP status, 0 when unknown
	Code       string // provider error code, e.g. Azure "401000"
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Code != "":
		return fmt.Sprintf("%s: %s %s", e.Provider, e.Code, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorAction defines the action to take based on error type.
type ErrorAction int

const (
	// ActionRetry retries the same provider after a backoff.
	ActionRetry ErrorAction = iota
	// ActionFallback moves on to the next provider in the chain.
	ActionFallback
	// ActionFail stops the chain; no provider can succeed with this input.
	ActionFail
)

func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ClassifyError decides how the gateway reacts to a provider error.
// Transient failures retry, credential and quota failures fall back to the
// next provider, and malformed requests fail.
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionFail
	}
	if errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ActionRetry
	}

	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode > 0 {
		return classifyStatusCode(pe.StatusCode)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case containsAny(errStr, "quota", "billing", "api key", "unauthorized", "unauthenticated", "permission denied", "forbidden"):
		return ActionFallback
	case containsAny(errStr, "rate limit", "too many requests", "resource_exhausted", "unavailable", "overloaded", "timeout", "connection"):
		return ActionRetry
	case containsAny(errStr, "invalid argument", "bad request", "malformed"):
		return ActionFail
	}
	return ActionRetry
}

func classifyStatusCode(statusCode int) ErrorAction {
	switch {
	case statusCode == http.StatusTooManyRequests,
		statusCode == http.StatusRequestTimeout,
		statusCode >= 500:
		return ActionRetry
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden,
		statusCode == http.StatusPaymentRequired:
		return ActionFallback
	case statusCode >= 400:
		return ActionFail
	default:
		return ActionRetry
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
