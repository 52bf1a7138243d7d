// Package history derives a scope index from a repository's commit history.
package history

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	cerrors "cch/internal/errors"
	"cch/internal/scopes"
)

// ErrUnbornHead is returned by Repository.Head when HEAD names a branch that
// has no commits yet.
var ErrUnbornHead = errors.New("HEAD has no commits yet")

// Commit is the subset of a commit the indexer reads.
type Commit struct {
	ID string
	// Message is the raw commit message; HasMessage is false when the
	// message could not be decoded, in which case the commit is unscoped.
	Message    string
	HasMessage bool
	Parents    []string
}

// Repository is a read-only view of a commit graph.
type Repository interface {
	// Head returns the commit id HEAD points at, or an error wrapping
	// ErrUnbornHead in a repository without commits.
	Head(ctx context.Context) (string, error)
	// Commit loads a single commit.
	Commit(ctx context.Context, id string) (*Commit, error)
	// ChangedPaths lists the post-change paths that differ between the
	// parent's tree and the commit's tree. An empty parentID means the
	// empty tree.
	ChangedPaths(ctx context.Context, parentID, commitID string) ([]string, error)
}

// IndexStats summarises a history walk.
type IndexStats struct {
	CommitsVisited    int `json:"commitsVisited" yaml:"commitsVisited"`
	ScopedCommits     int `json:"scopedCommits" yaml:"scopedCommits"`
	UnreadableCommits int `json:"unreadableCommits" yaml:"unreadableCommits"`
	SkippedParents    int `json:"skippedParents" yaml:"skippedParents"`
	DroppedPaths      int `json:"droppedPaths" yaml:"droppedPaths"`
	Scopes            int `json:"scopes" yaml:"scopes"`
}

// Indexer walks history and accumulates changed files per scope.
type Indexer struct {
	repo   Repository
	logger *slog.Logger
	stats  IndexStats
}

// NewIndexer creates an indexer over repo.
func NewIndexer(repo Repository, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Indexer{repo: repo, logger: logger}
}

// Stats returns counters from the last Build.
func (ix *Indexer) Stats() IndexStats {
	return ix.stats
}

// BuildScopeIndex is a convenience wrapper around NewIndexer(...).Build.
func BuildScopeIndex(ctx context.Context, repo Repository, logger *slog.Logger) (scopes.Index, error) {
	return NewIndexer(repo, logger).Build(ctx)
}

// Build visits every commit reachable from HEAD once, breadth-first with
// parents in recorded order. Only a failure to resolve HEAD is returned as
// an error; unreadable commits, parents and paths are logged and skipped.
// The returned index is nil when no scoped commit was found.
func (ix *Indexer) Build(ctx context.Context) (scopes.Index, error) {
	ix.stats = IndexStats{}

	head, err := ix.repo.Head(ctx)
	if err != nil {
		return nil, cerrors.New(cerrors.HeadUnresolvable, "cannot resolve HEAD", err)
	}

	index := scopes.Index{}
	visited := map[string]bool{head: true}
	queue := []string{head}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := queue[0]
		queue = queue[1:]

		commit, err := ix.repo.Commit(ctx, id)
		if err != nil {
			ix.stats.UnreadableCommits++
			ix.logger.Warn("Skipping unreadable commit",
				"commit", id,
				"error", err.Error(),
			)
			continue
		}
		ix.stats.CommitsVisited++

		for _, parent := range commit.Parents {
			if !visited[parent] {
				visited[parent] = true
				queue = append(queue, parent)
			}
		}

		if !commit.HasMessage {
			ix.logger.Debug("Commit message not decodable", "commit", id)
			continue
		}
		scope, ok := ExtractScope(commit.Message)
		if !ok {
			continue
		}
		ix.stats.ScopedCommits++

		files := ix.changedFiles(ctx, commit)
		ix.logger.Debug("Scoped commit",
			"commit", id,
			"scope", scope,
			"files", len(files),
		)
		index.Add(scope, files)
	}

	ix.stats.Scopes = len(index)
	if len(index) == 0 {
		return nil, nil
	}
	return index, nil
}

// changedFiles unions the diffs against every parent; a root commit is
// compared with the empty tree.
func (ix *Indexer) changedFiles(ctx context.Context, commit *Commit) scopes.ChangedFiles {
	files := scopes.NewChangedFiles()

	parents := commit.Parents
	if len(parents) == 0 {
		parents = []string{""}
	}

	for _, parent := range parents {
		changed, err := ix.repo.ChangedPaths(ctx, parent, commit.ID)
		if err != nil {
			ix.stats.SkippedParents++
			ix.logger.Warn("Skipping unreadable parent",
				"commit", commit.ID,
				"parent", parent,
				"error", err.Error(),
			)
			continue
		}
		for _, path := range changed {
			if !utf8.ValidString(path) {
				ix.stats.DroppedPaths++
				ix.logger.Warn("Dropping non UTF-8 path",
					"commit", commit.ID,
					"path", []byte(path),
				)
				continue
			}
			files.Add(path)
		}
	}

	return files
}
