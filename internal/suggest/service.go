// Package suggest answers the questions the command line asks: which commit
// types to offer and which scopes to offer, in what order.
package suggest

import (
	"context"
	stderrors "errors"
	"log/slog"

	"cch/internal/committypes"
	"cch/internal/errors"
	"cch/internal/history"
	"cch/internal/paths"
	"cch/internal/project"
	"cch/internal/scopes"
	"cch/internal/storage"
)

// StagedSource yields the files currently staged for commit.
type StagedSource interface {
	StagedFiles(ctx context.Context) ([]string, error)
}

// Repository is everything the service reads from a checkout.
type Repository interface {
	history.Repository
	StagedSource
	Root() string
}

// Options tunes a Service
type Options struct {
	// ProjectConfigPath locates the types/scopes file, relative to the
	// working tree root unless absolute.
	ProjectConfigPath string
	// UseCache lets Scopes read the scope cache before walking history.
	UseCache bool
	// CachePath is the scope cache database file.
	CachePath string
}

// IndexSource says where a scope index came from
type IndexSource string

const (
	SourceNone    IndexSource = "none"
	SourceCache   IndexSource = "cache"
	SourceHistory IndexSource = "history"
)

// Service computes suggestions for one repository
type Service struct {
	repo   Repository
	staged StagedSource
	opts   Options
	logger *slog.Logger
}

// NewService creates a service over repo. Staged files are read from repo
// unless WithStagedSource replaces the source.
func NewService(repo Repository, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, staged: repo, opts: opts, logger: logger}
}

// WithStagedSource overrides where staged files come from.
func (s *Service) WithStagedSource(src StagedSource) *Service {
	s.staged = src
	return s
}

// RepoID returns the key the repository is cached under.
func (s *Service) RepoID() (string, error) {
	id, err := paths.CanonicalRepoRoot(s.repo.Root())
	if err != nil {
		return "", errors.New(errors.InternalError, "cannot resolve repository path", err)
	}
	return id, nil
}

// ProjectConfig loads the repository's types/scopes file; nil when absent.
func (s *Service) ProjectConfig() (*project.Config, error) {
	path := project.Path(s.repo.Root(), s.opts.ProjectConfigPath)
	cfg, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		s.logger.Debug("No project config", "path", path)
	}
	return cfg, nil
}

// Types returns the project's declared commit types, or the defaults.
func (s *Service) Types(ctx context.Context) ([]committypes.Type, error) {
	cfg, err := s.ProjectConfig()
	if err != nil {
		return nil, err
	}
	return committypes.Select(cfg.ConfiguredTypes()), nil
}

// ScopeResult is the assembled scope list plus how it was reached.
type ScopeResult struct {
	Scopes  []scopes.Scope      `json:"scopes" yaml:"scopes"`
	Source  IndexSource         `json:"source" yaml:"source"`
	Staged  []string            `json:"staged,omitempty" yaml:"staged,omitempty"`
	Matched *scopes.Match       `json:"matched,omitempty" yaml:"matched,omitempty"`
	Ranking []scopes.Match      `json:"ranking,omitempty" yaml:"ranking,omitempty"`
	Stats   *history.IndexStats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Scopes returns the scope list for the pending commit: configured and
// historical scopes merged, with the best match for the staged files first.
func (s *Service) Scopes(ctx context.Context) (*ScopeResult, error) {
	cfg, err := s.ProjectConfig()
	if err != nil {
		return nil, err
	}

	index, source, stats, err := s.ScopeIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := &ScopeResult{Source: source, Stats: stats}

	var staged scopes.ChangedFiles
	if index != nil {
		files, err := s.staged.StagedFiles(ctx)
		if err != nil {
			s.logger.Warn("Cannot read staged files, skipping match", "error", err.Error())
		} else if len(files) > 0 {
			staged = scopes.NewChangedFiles(files...)
			result.Staged = staged.Sorted()
		} else {
			s.logger.Debug("No files staged for commit")
		}
	}

	if ranking := scopes.Rank(staged, index); len(ranking) > 0 {
		result.Ranking = ranking
		result.Matched = &ranking[0]
		s.logger.Debug("Matched scope",
			"scope", ranking[0].Scope.Name,
			"overlap", ranking[0].Overlap,
		)
	}

	result.Scopes = scopes.Assemble(cfg.ConfiguredScopes(), index, staged)
	return result, nil
}

// ScopeIndex returns the historical scope index, from the cache when enabled
// and populated, otherwise by walking history. A nil index means no scoped
// commit exists, which includes a repository whose HEAD is still unborn.
func (s *Service) ScopeIndex(ctx context.Context) (scopes.Index, IndexSource, *history.IndexStats, error) {
	if s.opts.UseCache {
		if index, ok := s.cachedIndex(ctx); ok {
			return index, SourceCache, nil, nil
		}
	}

	index, stats, _, err := s.BuildIndex(ctx)
	if err != nil {
		if errors.HasCode(err, errors.HeadUnresolvable) && stderrors.Is(err, history.ErrUnbornHead) {
			s.logger.Warn("Repository has no commits yet, skipping history", "error", err.Error())
			return nil, SourceNone, nil, nil
		}
		return nil, SourceNone, nil, err
	}
	if index == nil {
		return nil, SourceNone, &stats, nil
	}
	return index, SourceHistory, &stats, nil
}

// cachedIndex reads the cache without ever failing the caller: an unreadable
// cache is logged and history is used instead.
func (s *Service) cachedIndex(ctx context.Context) (scopes.Index, bool) {
	if s.opts.CachePath == "" || !storage.Exists(s.opts.CachePath) {
		return nil, false
	}

	repoID, err := s.RepoID()
	if err != nil {
		return nil, false
	}

	db, err := storage.Open(s.opts.CachePath, s.logger)
	if err != nil {
		s.logger.Warn("Scope cache unavailable, walking history", "error", err.Error())
		return nil, false
	}
	defer func() { _ = db.Close() }()

	entry, err := storage.NewScopeCache(db).Get(repoID)
	if err != nil {
		s.logger.Warn("Scope cache unreadable, walking history", "error", err.Error())
		return nil, false
	}
	if entry == nil {
		s.logger.Debug("Repository not cached", "repo", repoID)
		return nil, false
	}

	if head, err := s.repo.Head(ctx); err == nil && head != entry.HeadCommit {
		s.logger.Debug("Scope cache is behind HEAD",
			"cachedHead", entry.HeadCommit,
			"head", head,
		)
	}
	return entry.Index, true
}

// BuildIndex walks history from HEAD.
func (s *Service) BuildIndex(ctx context.Context) (scopes.Index, history.IndexStats, string, error) {
	head, err := s.repo.Head(ctx)
	if err != nil {
		return nil, history.IndexStats{}, "", errors.New(errors.HeadUnresolvable, "cannot resolve HEAD", err)
	}

	ix := history.NewIndexer(s.repo, s.logger)
	index, err := ix.Build(ctx)
	stats := ix.Stats()
	if err != nil {
		return nil, stats, "", err
	}

	s.logger.Info("Indexed history",
		"commits", stats.CommitsVisited,
		"scopedCommits", stats.ScopedCommits,
		"scopes", stats.Scopes,
	)
	return index, stats, head, nil
}
