package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorWrapper(t *testing.T) {
	wrapper := NewWrapper("postback", "translate")

	t.Run("Wrap returns nil for nil error", func(t *testing.T) {
		if result := wrapper.Wrap(nil, "No translation available"); result != nil {
			t.Errorf("expected nil, got %v", result)
		}
	})

	t.Run("Wrap creates WrappedError", func(t *testing.T) {
		baseErr := errors.New("azure: 401000 unauthorized")
		wrapped := wrapper.Wrap(baseErr, "No translation available")

		var wrappedErr *WrappedError
		if !errors.As(wrapped, &wrappedErr) {
			t.Fatal("expected WrappedError type")
		}
		if wrappedErr.Module != "postback" || wrappedErr.Operation != "translate" {
			t.Errorf("unexpected context %s:%s", wrappedErr.Module, wrappedErr.Operation)
		}
		if !errors.Is(wrapped, baseErr) {
			t.Error("wrapped error should unwrap to base error")
		}
		want := "[postback:translate] No translation available: azure: 401000 unauthorized"
		if wrapped.Error() != want {
			t.Errorf("expected %q, got %q", want, wrapped.Error())
		}
	})
}

func TestGetUserMessage(t *testing.T) {
	if got := GetUserMessage(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}

	plain := errors.New("plain")
	if got := GetUserMessage(plain); got != "plain" {
		t.Errorf("expected 'plain', got %q", got)
	}

	inner := NewWrapper("webhook", "reply").Wrap(plain, "reply failed")
	outer := fmt.Errorf("event 1: %w", inner)
	if got := GetUserMessage(outer); got != "reply failed" {
		t.Errorf("expected user message through wrapping, got %q", got)
	}
}
