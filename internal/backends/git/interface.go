package git

import (
	"context"

	"cch/internal/history"
)

// Backend is a read-only view of one repository: its commit graph for the
// history indexer plus the set of files currently staged for commit.
type Backend interface {
	history.Repository

	// ID returns the backend identifier ("gogit" or "cli")
	ID() string

	// Root returns the absolute path of the working tree
	Root() string

	// StagedFiles returns the repo-relative paths staged in the index,
	// including staged deletions. Unstaged and untracked files are excluded.
	StagedFiles(ctx context.Context) ([]string, error)
}
