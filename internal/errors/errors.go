package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// RepoNotFound indicates no git repository contains the given path
	RepoNotFound ErrorCode = "REPO_NOT_FOUND"
	// BareRepository indicates the repository has no working tree
	BareRepository ErrorCode = "BARE_REPOSITORY"
	// HeadUnresolvable indicates history traversal could not start
	HeadUnresolvable ErrorCode = "HEAD_UNRESOLVABLE"
	// ConfigInvalid indicates a configuration file could not be used
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// CacheMissing indicates the scope cache has not been created
	CacheMissing ErrorCode = "CACHE_MISSING"
	// CacheUnavailable indicates the scope cache could not be read or written
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// NoScopes indicates history carries no scoped commits
	NoScopes ErrorCode = "NO_SCOPES"
	// Timeout indicates a git invocation timed out
	Timeout ErrorCode = "TIMEOUT"
	// BackendUnavailable indicates the selected git backend cannot be used
	BackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// CchError represents a cch error with code, message, and suggestions
type CchError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewCchError creates a new CchError
func NewCchError(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *CchError {
	return &CchError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// New creates a CchError carrying the default fixes registered for code.
func New(code ErrorCode, message string, cause error) *CchError {
	return NewCchError(code, message, cause, GetSuggestedFixes(code))
}

// Error implements the error interface
func (e *CchError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CchError) Unwrap() error {
	return e.cause
}

// Is matches another CchError by code, so sentinel-style checks work:
// errors.Is(err, &CchError{Code: CacheMissing}).
func (e *CchError) Is(target error) bool {
	t, ok := target.(*CchError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails adds details to the error
func (e *CchError) WithDetails(details interface{}) *CchError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first CchError in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var ce *CchError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// HasCode reports whether err's chain contains a CchError with code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &CchError{Code: code})
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	RepoNotFound: {
		{
			Type:        RunCommand,
			Command:     "git status",
			Safe:        true,
			Description: "Verify you're in a git repository",
		},
		{
			Type:        RunCommand,
			Command:     "git init",
			Safe:        false,
			Description: "Initialize a git repository",
		},
	},
	HeadUnresolvable: {
		{
			Type:        RunCommand,
			Command:     "git log -1",
			Safe:        true,
			Description: "Check that the repository has at least one commit",
		},
	},
	CacheMissing: {
		{
			Type:        RunCommand,
			Command:     "cch cache create",
			Safe:        true,
			Description: "Create the scope cache",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "cch cache nuke && cch cache create",
			Safe:        false,
			Description: "Recreate the scope cache from scratch",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "cch config show",
			Safe:        true,
			Description: "Inspect the effective configuration",
		},
	},
	BackendUnavailable: {
		{
			Type:        RunCommand,
			Command:     "cch --backend gogit scope",
			Safe:        true,
			Description: "Use the built-in git backend instead of the git binary",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
