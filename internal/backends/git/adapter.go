package git

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"cch/internal/errors"
	"cch/internal/history"
	"cch/internal/paths"
)

const (
	// CLIBackendID identifies the backend that shells out to git
	CLIBackendID = "cli"

	// DefaultQueryTimeout is the default timeout for git operations (5000ms)
	DefaultQueryTimeout = 5000 * time.Millisecond
)

// GitAdapter implements Backend by running the git binary
type GitAdapter struct {
	repoRoot     string
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewGitAdapter locates the repository containing path using the git binary.
func NewGitAdapter(ctx context.Context, path string, timeout time.Duration, logger *slog.Logger) (*GitAdapter, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, errors.New(errors.BackendUnavailable, "git binary not found in PATH", err)
	}

	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	adapter := &GitAdapter{
		repoRoot:     path,
		queryTimeout: timeout,
		logger:       logger,
	}

	bare, err := adapter.executeGitCommand(ctx, "rev-parse", "--is-bare-repository")
	if err != nil {
		if errors.HasCode(err, errors.Timeout) {
			return nil, err
		}
		return nil, errors.New(errors.RepoNotFound, "Not a git repository", err).WithDetails(map[string]interface{}{
			"path": path,
		})
	}
	if bare == "true" {
		return nil, errors.New(errors.BareRepository, "repository has no working tree", nil)
	}

	root, err := adapter.executeGitCommand(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, errors.New(errors.RepoNotFound, "Not a git repository", err)
	}
	adapter.repoRoot = root

	logger.Debug("Git adapter initialized",
		"backend", CLIBackendID,
		"repoRoot", root,
		"timeout", timeout.String(),
	)

	return adapter, nil
}

// ID returns the backend identifier
func (g *GitAdapter) ID() string {
	return CLIBackendID
}

// Root returns the working tree root
func (g *GitAdapter) Root() string {
	return g.repoRoot
}

// Head resolves HEAD to a commit id
func (g *GitAdapter) Head(ctx context.Context) (string, error) {
	head, err := g.executeGitCommand(ctx, "rev-parse", "--verify", "--quiet", "HEAD^{commit}")
	if err != nil && g.headUnborn(ctx) {
		return "", fmt.Errorf("%w: %v", history.ErrUnbornHead, err)
	}
	return head, err
}

// headUnborn reports whether HEAD names a branch ref that does not exist yet.
func (g *GitAdapter) headUnborn(ctx context.Context) bool {
	ref, err := g.executeGitCommand(ctx, "symbolic-ref", "--quiet", "HEAD")
	if err != nil || ref == "" {
		return false
	}
	_, err = g.executeGitCommand(ctx, "show-ref", "--verify", "--quiet", ref)
	return err != nil && !errors.HasCode(err, errors.Timeout)
}

// Commit loads a commit via cat-file and parses its parents and message.
func (g *GitAdapter) Commit(ctx context.Context, id string) (*history.Commit, error) {
	raw, err := g.executeGitCommandRaw(ctx, "cat-file", "commit", id)
	if err != nil {
		return nil, err
	}
	return parseRawCommit(id, raw), nil
}

// parseRawCommit splits a raw commit object into headers and message.
func parseRawCommit(id string, raw []byte) *history.Commit {
	headers, message, _ := bytes.Cut(raw, []byte("\n\n"))

	commit := &history.Commit{ID: id}
	for _, line := range strings.Split(string(headers), "\n") {
		if parent, ok := strings.CutPrefix(line, "parent "); ok {
			commit.Parents = append(commit.Parents, strings.TrimSpace(parent))
		}
	}
	commit.Message = string(message)
	commit.HasMessage = utf8.Valid(message)
	return commit
}

// ChangedPaths lists paths that differ between two commits' trees. An empty
// parentID compares a root commit against the empty tree.
func (g *GitAdapter) ChangedPaths(ctx context.Context, parentID, commitID string) ([]string, error) {
	args := []string{"diff-tree", "-r", "-z", "--name-only", "--no-renames", "--no-commit-id"}
	if parentID == "" {
		args = append(args, "--root", commitID)
	} else {
		args = append(args, parentID, commitID)
	}

	raw, err := g.executeGitCommandRaw(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitNUL(raw), nil
}

// StagedFiles lists paths staged in the index relative to HEAD.
func (g *GitAdapter) StagedFiles(ctx context.Context) ([]string, error) {
	raw, err := g.executeGitCommandRaw(ctx, "diff", "--cached", "-z", "--name-only", "--no-renames")
	if err != nil {
		return nil, err
	}
	staged := splitNUL(raw)
	sort.Strings(staged)
	return staged, nil
}

// splitNUL splits -z output into paths, dropping empty fields.
func splitNUL(raw []byte) []string {
	fields := bytes.Split(raw, []byte{0})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) == 0 {
			continue
		}
		out = append(out, paths.NormalizePath(string(f)))
	}
	return out
}

// executeGitCommand runs a git command with timeout and returns trimmed output
func (g *GitAdapter) executeGitCommand(ctx context.Context, args ...string) (string, error) {
	output, err := g.executeGitCommandRaw(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// executeGitCommandRaw runs a git command with timeout and returns stdout untouched
func (g *GitAdapter) executeGitCommandRaw(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoRoot

	g.logger.Debug("Executing git command",
		"args", args,
		"timeout", g.queryTimeout.String(),
	)

	output, err := cmd.Output()
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.New(errors.Timeout, "Git command timed out", err)
		}

		// Check if it's an exit error with stderr
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return nil, errors.NewCchError(
				errors.InternalError,
				"Git command failed",
				err,
				nil,
			).WithDetails(map[string]interface{}{
				"args":   args,
				"stderr": strings.TrimSpace(string(exitErr.Stderr)),
			})
		}

		return nil, errors.NewCchError(
			errors.InternalError,
			"Failed to execute git command",
			err,
			nil,
		)
	}

	return output, nil
}
