package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIErrorCarriesCause(t *testing.T) {
	cause := fmt.Errorf("quota exceeded")
	err := NewAPIError("playlist lookup failed", 403, map[string]any{"playlist_id": "PL1"}).WithCause(cause)

	if err.Code != CodeAPIError || err.StatusCode != 403 {
		t.Errorf("code = %q, status = %d", err.Code, err.StatusCode)
	}
	if got := err.Error(); got != "playlist lookup failed: quota exceeded" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("cause must be reachable through Unwrap")
	}
}

func TestErrorWithoutCause(t *testing.T) {
	err := NewValidationError("Invalid request body", "body", nil)
	if got := err.Error(); got != "Invalid request body" {
		t.Errorf("Error() = %q", got)
	}
	if err.StatusCode != 400 {
		t.Errorf("status = %d, want 400", err.StatusCode)
	}
}

func TestServiceErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("deadline exceeded")
	err := NewServiceError("openai summarization failed", "openai", "chat_completion", cause)
	if !errors.Is(err, cause) {
		t.Error("cause must be reachable through Unwrap")
	}
	if err.Service != "openai" || err.Operation != "chat_completion" {
		t.Errorf("unexpected fields: %+v", err)
	}
}
