package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		checkFn  func(error) bool
		expected bool
	}{
		{
			name:     "ErrInvalidPostback is recognized",
			err:      ErrInvalidPostback,
			checkFn:  IsInvalidPostback,
			expected: true,
		},
		{
			name:     "ErrEmptyPostback counts as invalid postback",
			err:      fmt.Errorf("parse: %w", ErrEmptyPostback),
			checkFn:  IsInvalidPostback,
			expected: true,
		},
		{
			name:     "Different error is not an invalid postback",
			err:      ErrRateLimitExceeded,
			checkFn:  IsInvalidPostback,
			expected: false,
		},
		{
			name:     "Joined ErrRateLimitExceeded is recognized",
			err:      errors.Join(ErrRateLimitExceeded, errors.New("chat U123")),
			checkFn:  IsRateLimitExceeded,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.checkFn(tt.err)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestReplyError(t *testing.T) {
	baseErr := errors.New("Invalid reply token")
	err := NewReplyError("postback", baseErr)

	if !errors.Is(err, baseErr) {
		t.Error("reply error should unwrap to base error")
	}

	expected := "reply failed (event=postback): Invalid reply token"
	if err.Error() != expected {
		t.Errorf("expected '%s', got '%s'", expected, err.Error())
	}
}
