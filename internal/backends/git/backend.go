package git

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cch/internal/errors"
)

// Options selects and tunes a backend.
type Options struct {
	// Kind is GoGitBackendID or CLIBackendID; empty means go-git.
	Kind string
	// Timeout bounds each git invocation of the CLI backend.
	Timeout time.Duration
}

// Open discovers the repository containing path with the requested backend.
func Open(ctx context.Context, path string, opts Options, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch opts.Kind {
	case "", GoGitBackendID:
		b, err := OpenGoGit(path, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case CLIBackendID:
		b, err := NewGitAdapter(ctx, path, opts.Timeout, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, errors.New(errors.BackendUnavailable, fmt.Sprintf("unknown git backend %q", opts.Kind), nil)
	}
}
