package errors

import (
	stdErrors "errors"
	"strings"
	"testing"
	"time"
)

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("slow down")

	if err.Error() != "slow down" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "slow down")
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}

	wrapped := stdErrors.Join(err)
	if !IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned false for wrapped RateLimitError")
	}
}

func TestStopProcessingError(t *testing.T) {
	err := NewStopProcessingError("user stopped")

	if err.Error() != "user stopped" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "user stopped")
	}

	if !IsStopProcessingError(err) {
		t.Fatalf("IsStopProcessingError returned false for StopProcessingError")
	}

	wrapped := stdErrors.Join(err)
	if !IsStopProcessingError(wrapped) {
		t.Fatalf("IsStopProcessingError returned false for wrapped StopProcessingError")
	}
}

func TestRateLimitErrorWithRetry(t *testing.T) {
	err := NewRateLimitErrorWithRetry("too many requests", 2*time.Minute)

	expected := "too many requests (retry after 2m0s)"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitErrorWithRetry")
	}

	if err.RetryAfter.Minutes() != 2.0 {
		t.Fatalf("RetryAfter = %v, want 2 minutes", err.RetryAfter)
	}
}

func TestRateLimitErrorWithRetry_ZeroDuration(t *testing.T) {
	err := NewRateLimitErrorWithRetry("rate limited", 0)

	// When RetryAfter is 0, the implementation only adds retry info if > 0
	expected := "rate limited"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if err.RetryAfter != 0 {
		t.Fatalf("RetryAfter = %v, want 0", err.RetryAfter)
	}
}

func TestRateLimitErrorWithRetry_VariousDurations(t *testing.T) {
	tests := []struct {
		name            string
		duration        time.Duration
		expectedMessage string
	}{
		{
			name:            "1 second",
			duration:        1 * time.Second,
			expectedMessage: "rate limited (retry after 1s)",
		},
		{
			name:            "30 seconds",
			duration:        30 * time.Second,
			expectedMessage: "rate limited (retry after 30s)",
		},
		{
			name:            "1 hour",
			duration:        1 * time.Hour,
			expectedMessage: "rate limited (retry after 1h0m0s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRateLimitErrorWithRetry("rate limited", tt.duration)
			if err.Error() != tt.expectedMessage {
				t.Fatalf("Error message = %q, want %q", err.Error(), tt.expectedMessage)
			}
		})
	}
}

func TestAPIStatusError(t *testing.T) {
	err := NewAPIStatusError("Google Books", 503, "backend unavailable")

	expected := "Google Books returned HTTP 503: backend unavailable"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsAPIStatusError(err) {
		t.Fatalf("IsAPIStatusError returned false for APIStatusError")
	}

	if IsAuthError(err) {
		t.Fatalf("IsAuthError returned true for HTTP 503")
	}
}

func TestAPIStatusError_EmptyBody(t *testing.T) {
	err := NewAPIStatusError("Open Library", 500, "")

	expected := "Open Library returned HTTP 500"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestAPIStatusError_TruncatesBody(t *testing.T) {
	body := strings.Repeat("x", 500)
	err := NewAPIStatusError("ISBNdb", 400, body)

	if len(err.Body) != maxBodyInError+3 {
		t.Fatalf("Body length = %d, want %d", len(err.Body), maxBodyInError+3)
	}
}

func TestAPIStatusError_Auth(t *testing.T) {
	for _, code := range []int{401, 403} {
		err := NewAPIStatusError("OpenAI", code, "invalid key")
		if !IsAuthError(err) {
			t.Fatalf("IsAuthError returned false for HTTP %d", code)
		}
	}
}

func TestAPIStatusError_Wrapped(t *testing.T) {
	err := NewAPIStatusError("Google Books", 403, "quota")
	wrapped := stdErrors.Join(err, stdErrors.New("additional context"))

	if !IsAPIStatusError(wrapped) {
		t.Fatalf("IsAPIStatusError returned false for wrapped APIStatusError")
	}

	if IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned true for APIStatusError")
	}
}
