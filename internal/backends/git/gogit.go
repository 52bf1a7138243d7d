package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"unicode/utf8"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"cch/internal/errors"
	"cch/internal/history"
	"cch/internal/paths"
)

// GoGitBackendID identifies the pure-Go backend
const GoGitBackendID = "gogit"

// GoGitBackend reads the repository in-process through go-git.
type GoGitBackend struct {
	repo   *gogit.Repository
	root   string
	logger *slog.Logger
}

// OpenGoGit opens the repository containing path, searching parent
// directories for .git.
func OpenGoGit(path string, logger *slog.Logger) (*GoGitBackend, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if stderrors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, errors.New(errors.RepoNotFound, fmt.Sprintf("no git repository at or above %s", path), err)
		}
		return nil, errors.New(errors.InternalError, "failed to open repository", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if stderrors.Is(err, gogit.ErrIsBareRepository) {
			return nil, errors.New(errors.BareRepository, "repository has no working tree", err)
		}
		return nil, errors.New(errors.InternalError, "failed to open worktree", err)
	}

	root := wt.Filesystem.Root()
	logger.Debug("Opened repository",
		"backend", GoGitBackendID,
		"root", root,
	)

	return &GoGitBackend{repo: repo, root: root, logger: logger}, nil
}

// ID returns the backend identifier
func (g *GoGitBackend) ID() string {
	return GoGitBackendID
}

// Root returns the working tree root
func (g *GoGitBackend) Root() string {
	return g.root
}

// Head resolves HEAD to a commit id
func (g *GoGitBackend) Head(ctx context.Context) (string, error) {
	ref, err := g.repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("%w: %v", history.ErrUnbornHead, err)
		}
		return "", err
	}
	return ref.Hash().String(), nil
}

// Commit loads a commit object
func (g *GoGitBackend) Commit(ctx context.Context, id string) (*history.Commit, error) {
	c, err := g.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, err
	}

	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return &history.Commit{
		ID:         id,
		Message:    c.Message,
		HasMessage: utf8.ValidString(c.Message),
		Parents:    parents,
	}, nil
}

// ChangedPaths diffs the parent's tree against the commit's tree.
func (g *GoGitBackend) ChangedPaths(ctx context.Context, parentID, commitID string) ([]string, error) {
	to, err := g.tree(commitID)
	if err != nil {
		return nil, err
	}

	// A nil tree is the empty tree.
	var from *object.Tree
	if parentID != "" {
		from, err = g.tree(parentID)
		if err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(changes))
	for _, ch := range changes {
		// Deletions have no destination; report the removed path.
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		out = append(out, paths.NormalizePath(name))
	}
	return out, nil
}

func (g *GoGitBackend) tree(id string) (*object.Tree, error) {
	c, err := g.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, err
	}
	return c.Tree()
}

// StagedFiles lists index entries that differ from HEAD.
func (g *GoGitBackend) StagedFiles(ctx context.Context) ([]string, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return nil, err
	}

	status, err := wt.Status()
	if err != nil {
		return nil, err
	}

	var staged []string
	for path, fileStatus := range status {
		if fileStatus.Staging != gogit.Unmodified && fileStatus.Staging != gogit.Untracked {
			staged = append(staged, paths.NormalizePath(path))
		}
	}
	sort.Strings(staged)

	g.logger.Debug("Collected staged files",
		"backend", GoGitBackendID,
		"count", len(staged),
	)
	return staged, nil
}
