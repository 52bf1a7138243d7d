package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewCchError(t *testing.T) {
	cause := errors.New("underlying error")
	fixes := []FixAction{{Type: RunCommand, Command: "cch cache create"}}

	err := NewCchError(CacheMissing, "scope cache not found", cause, fixes)

	if err.Code != CacheMissing {
		t.Errorf("Code = %v, want %v", err.Code, CacheMissing)
	}
	if err.Message != "scope cache not found" {
		t.Errorf("Message = %q, want %q", err.Message, "scope cache not found")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestNewUsesRegisteredFixes(t *testing.T) {
	err := New(RepoNotFound, "no repository", nil)
	if len(err.SuggestedFixes) != len(ErrorActions[RepoNotFound]) {
		t.Errorf("len(SuggestedFixes) = %d, want %d", len(err.SuggestedFixes), len(ErrorActions[RepoNotFound]))
	}

	if fixes := New(InternalError, "boom", nil).SuggestedFixes; fixes != nil {
		t.Errorf("InternalError should have no fixes, got %v", fixes)
	}
}

func TestCchError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      BackendUnavailable,
			message:   "git binary not found",
			cause:     errors.New("exec: not found"),
			wantParts: []string{"BACKEND_UNAVAILABLE", "git binary not found", "exec: not found"},
		},
		{
			name:      "without cause",
			code:      NoScopes,
			message:   "No scopes detected in the repo",
			cause:     nil,
			wantParts: []string{"NO_SCOPES", "No scopes detected in the repo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCchError(tt.code, tt.message, tt.cause, nil)
			got := err.Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestCchError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewCchError(InternalError, "something went wrong", cause, nil)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	errNoCause := NewCchError(Timeout, "git timed out", nil, nil)
	if errNoCause.Unwrap() != nil {
		t.Errorf("Unwrap() on error without cause should return nil")
	}
}

func TestCodeMatching(t *testing.T) {
	base := New(HeadUnresolvable, "no HEAD", nil)
	wrapped := fmt.Errorf("indexing: %w", base)

	if CodeOf(wrapped) != HeadUnresolvable {
		t.Errorf("CodeOf() = %q, want %q", CodeOf(wrapped), HeadUnresolvable)
	}
	if !HasCode(wrapped, HeadUnresolvable) {
		t.Error("HasCode() should find the code through wrapping")
	}
	if HasCode(wrapped, CacheMissing) {
		t.Error("HasCode() matched the wrong code")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("CodeOf() of a plain error should be empty")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(ConfigInvalid, "bad config", nil).WithDetails(map[string]interface{}{
		"path": ".dev/conventional-commit-helper.toml",
	})
	details, ok := err.Details.(map[string]interface{})
	if !ok || details["path"] != ".dev/conventional-commit-helper.toml" {
		t.Errorf("Details = %v", err.Details)
	}
}
