package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"cch/internal/backends/git"
	"cch/internal/config"
	"cch/internal/errors"
	"cch/internal/paths"
	"cch/internal/slogutil"
	"cch/internal/suggest"
)

// newLogger builds the stderr logger. -v and --quiet win over the configured
// level.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slogutil.LevelFromVerbosity(verboseFlag, quietFlag)
	format := "human"
	if cfg != nil {
		format = cfg.Logging.Format
		if verboseFlag == 0 && !quietFlag {
			level = slogutil.LevelFromString(cfg.Logging.Level)
		}
	}
	return slogutil.New(format, os.Stderr, level)
}

// newContext returns a context cancelled on interrupt.
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// loadConfig loads tool settings and applies the --backend flag on top.
func loadConfig() *config.LoadResult {
	dir, err := paths.GetConfigDir()
	if err != nil {
		exitWithError(errors.New(errors.InternalError, "cannot locate config directory", err))
	}

	result, err := config.LoadConfigWithDetails(dir)
	if err != nil {
		exitWithError(errors.New(errors.ConfigInvalid, "failed to load configuration", err))
	}

	if backendFlag != "" {
		result.Config.Backend = backendFlag
		if err := result.Config.Validate(); err != nil {
			exitWithError(errors.New(errors.ConfigInvalid, "invalid --backend", err))
		}
	}
	return result
}

// cachePath resolves the scope cache database location.
func cachePath(cfg *config.Config) string {
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path
	}
	p, err := paths.GetCacheDBPath()
	if err != nil {
		exitWithError(errors.New(errors.CacheUnavailable, "cannot locate cache directory", err))
	}
	return p
}

func mustOpenBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) git.Backend {
	backend, err := git.Open(ctx, repoPathFlag, git.Options{
		Kind:    cfg.Backend,
		Timeout: time.Duration(cfg.Git.TimeoutMs) * time.Millisecond,
	}, logger)
	if err != nil {
		exitWithError(err)
	}
	logger.Debug("Opened repository", "backend", backend.ID(), "root", backend.Root())
	return backend
}

// session bundles what every repository command needs.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend git.Backend
	service *suggest.Service
}

func mustOpenSession(ctx context.Context, useCache bool) *session {
	cfg := loadConfig().Config
	logger := newLogger(cfg)
	backend := mustOpenBackend(ctx, cfg, logger)

	svc := suggest.NewService(backend, suggest.Options{
		ProjectConfigPath: cfg.Project.ConfigPath,
		UseCache:          useCache && cfg.Cache.Enabled,
		CachePath:         cachePath(cfg),
	}, logger)

	return &session{cfg: cfg, logger: logger, backend: backend, service: svc}
}

// exitWithError prints err, with any suggested fixes, and exits 1.
func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errorPrefix(), err)

	var cchErr *errors.CchError
	if stderrors.As(err, &cchErr) {
		fixes := cchErr.SuggestedFixes
		if len(fixes) == 0 {
			fixes = errors.GetSuggestedFixes(cchErr.Code)
		}
		for _, fix := range fixes {
			if fix.Command != "" {
				fmt.Fprintf(os.Stderr, "  hint: %s\n        $ %s\n", fix.Description, fix.Command)
			} else {
				fmt.Fprintf(os.Stderr, "  hint: %s\n", fix.Description)
			}
		}
	}
	os.Exit(1)
}
