package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/vxhub/vxhub-cli/internal/api"
	"github.com/vxhub/vxhub-cli/internal/config"
)

func TestHandledError_IsAlreadyHandled(t *testing.T) {
	inner := errors.New("boom")
	handled := &handledError{err: inner, exitCode: 1}

	if !errors.Is(handled, errAlreadyHandled) {
		t.Error("handledError should match errAlreadyHandled")
	}
	if !errors.Is(handled, inner) {
		t.Error("handledError should unwrap to the inner error")
	}
	if handled.Error() != "boom" {
		t.Errorf("Error() = %q, want boom", handled.Error())
	}
}

func TestDescribeError_Hints(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{
			name:     "connectivity suggests checking network",
			err:      &api.ConnectivityError{Err: errors.New("dial tcp: connection refused")},
			wantHint: "Check your network connection",
		},
		{
			name:     "auth error suggests re-registering",
			err:      &api.APIError{StatusCode: 401, Reason: api.StatusAuthError, Body: "unauthorized"},
			wantHint: "vx device register",
		},
		{
			name:     "outdated suggests version check",
			err:      &api.APIError{StatusCode: 600, Reason: api.StatusOutdated, Body: "upgrade required"},
			wantHint: "vx version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeError(tt.err)
			if !strings.Contains(got, tt.err.Error()) {
				t.Errorf("description should contain the original message, got %q", got)
			}
			if !strings.Contains(got, tt.wantHint) {
				t.Errorf("description missing hint %q, got %q", tt.wantHint, got)
			}
		})
	}
}

func TestDescribeError_NoHintForPlainErrors(t *testing.T) {
	got := describeError(errors.New("boom"))
	if got != "boom" {
		t.Errorf("describeError = %q, want boom", got)
	}

	got = describeError(config.ErrNotConfigured)
	if got != config.ErrNotConfigured.Error() {
		t.Errorf("describeError = %q, want bare message", got)
	}
}

func TestErrorPayload(t *testing.T) {
	payload := errorPayload(&api.APIError{
		StatusCode: 503,
		Reason:     api.StatusServerError,
		Body:       "maintenance",
		RequestID:  "req-42",
	})

	if payload["status_code"] != 503 {
		t.Errorf("status_code = %v, want 503", payload["status_code"])
	}
	if payload["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", payload["request_id"])
	}

	plain := errorPayload(errors.New("boom"))
	if plain["error"] != "boom" {
		t.Errorf("error = %v, want boom", plain["error"])
	}
	if _, ok := plain["status_code"]; ok {
		t.Error("plain errors should not carry a status_code")
	}
}

func TestRequireText(t *testing.T) {
	got, err := requireText([]string{"hello", "world"}, "message")
	if err != nil || got != "hello world" {
		t.Errorf("requireText = %q, %v", got, err)
	}

	if _, err := requireText([]string{"  ", ""}, "message"); err == nil {
		t.Error("expected error for blank input")
	} else if !strings.Contains(err.Error(), "message is required") {
		t.Errorf("unexpected error: %v", err)
	}
}
