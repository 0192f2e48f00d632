package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		if userID := GetUserID(context.Background()); userID != "" {
			t.Errorf("Expected empty string, got %s", userID)
		}
	})

	t.Run("with user ID", func(t *testing.T) {
		t.Parallel()
		ctx := WithUserID(context.Background(), "U1234567890")
		if userID := GetUserID(ctx); userID != "U1234567890" {
			t.Errorf("Expected userID U1234567890, got %s", userID)
		}
	})
}

func TestChatIDContext(t *testing.T) {
	t.Parallel()

	ctx := WithChatID(context.Background(), "C1234567890")
	if chatID := GetChatID(ctx); chatID != "C1234567890" {
		t.Errorf("Expected chatID C1234567890, got %s", chatID)
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	if _, ok := GetRequestID(context.Background()); ok {
		t.Error("Expected no request ID on empty context")
	}

	ctx := WithRequestID(context.Background(), "req-1")
	requestID, ok := GetRequestID(ctx)
	if !ok || requestID != "req-1" {
		t.Errorf("Expected (req-1, true), got (%s, %v)", requestID, ok)
	}
}

func TestBaseURLContext(t *testing.T) {
	t.Parallel()

	ctx := WithBaseURL(context.Background(), "https://bot.example.com")
	if got := GetBaseURL(ctx); got != "https://bot.example.com" {
		t.Errorf("Expected base URL, got %q", got)
	}
}

func TestPreserveTracing(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	parent = WithUserID(parent, "U1")
	parent = WithChatID(parent, "C1")
	parent = WithRequestID(parent, "R1")
	parent = WithEventID(parent, "E1")
	parent = WithBaseURL(parent, "https://bot.example.com")

	detached := PreserveTracing(parent)
	<-parent.Done()

	if detached.Err() != nil {
		t.Errorf("Detached context should not inherit cancellation, got %v", detached.Err())
	}
	if _, ok := detached.Deadline(); ok {
		t.Error("Detached context should not inherit deadline")
	}
	if GetUserID(detached) != "U1" || GetChatID(detached) != "C1" || GetEventID(detached) != "E1" {
		t.Error("Tracing values were not preserved")
	}
	if requestID, _ := GetRequestID(detached); requestID != "R1" {
		t.Errorf("Expected request ID R1, got %s", requestID)
	}
	if GetBaseURL(detached) != "https://bot.example.com" {
		t.Error("Base URL was not preserved")
	}
}
