package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cch/internal/storage"
	"cch/internal/suggest"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the scope cache",
	Long: `The scope cache stores each repository's history scope index so that
'cch scope' does not walk the whole history on every call. It is a single
database under the user cache directory, shared by all repositories.`,
}

var cacheCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the cache and index this repository",
	Args:  cobra.NoArgs,
	Run:   runCacheCreate,
}

var cacheUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-index this repository into an existing cache",
	Args:  cobra.NoArgs,
	Run:   runCacheUpdate,
}

var cacheDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove this repository from the cache",
	Args:  cobra.NoArgs,
	Run:   runCacheDrop,
}

var cacheNukeCmd = &cobra.Command{
	Use:   "nuke",
	Short: "Delete the whole cache",
	Args:  cobra.NoArgs,
	Run:   runCacheNuke,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List cached repositories",
	Args:  cobra.NoArgs,
	Run:   runCacheShow,
}

func init() {
	cacheCmd.AddCommand(cacheCreateCmd)
	cacheCmd.AddCommand(cacheUpdateCmd)
	cacheCmd.AddCommand(cacheDropCmd)
	cacheCmd.AddCommand(cacheNukeCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	rootCmd.AddCommand(cacheCmd)
}

// cacheActionResponse reports the outcome of a cache command
type cacheActionResponse struct {
	Action    string                   `json:"action" yaml:"action"`
	CachePath string                   `json:"cachePath" yaml:"cachePath"`
	Repo      string                   `json:"repo,omitempty" yaml:"repo,omitempty"`
	Changed   bool                     `json:"changed" yaml:"changed"`
	Message   string                   `json:"message" yaml:"message"`
	Entry     *storage.ScopeCacheEntry `json:"entry,omitempty" yaml:"entry,omitempty"`
}

func runCacheCreate(cmd *cobra.Command, args []string) {
	runCacheWrite("create", (*suggest.Service).CreateCache)
}

func runCacheUpdate(cmd *cobra.Command, args []string) {
	runCacheWrite("update", (*suggest.Service).UpdateCache)
}

func runCacheWrite(action string, write func(*suggest.Service, context.Context) (*storage.ScopeCacheEntry, error)) {
	ctx, cancel := newContext()
	defer cancel()

	s := mustOpenSession(ctx, false)
	entry, err := write(s.service, ctx)
	if err != nil {
		exitWithError(err)
	}

	printResponse(&cacheActionResponse{
		Action:    action,
		CachePath: cachePath(s.cfg),
		Repo:      entry.RepoPath,
		Changed:   true,
		Message:   fmt.Sprintf("Cache saved for repo at '%s'", entry.RepoPath),
		Entry:     entry,
	}, OutputFormat(formatFlag))
}

func runCacheDrop(cmd *cobra.Command, args []string) {
	ctx, cancel := newContext()
	defer cancel()

	s := mustOpenSession(ctx, false)
	dropped, err := s.service.DropCache(ctx)
	if err != nil {
		exitWithError(err)
	}
	repo, err := s.service.RepoID()
	if err != nil {
		exitWithError(err)
	}

	msg := fmt.Sprintf("Dropped the cache for repo at '%s'", repo)
	if !dropped {
		msg = fmt.Sprintf("No cache entry for repo at '%s'", repo)
	}
	printResponse(&cacheActionResponse{
		Action:    "drop",
		CachePath: cachePath(s.cfg),
		Repo:      repo,
		Changed:   dropped,
		Message:   msg,
	}, OutputFormat(formatFlag))
}

func runCacheNuke(cmd *cobra.Command, args []string) {
	cfg := loadConfig().Config
	logger := newLogger(cfg)
	path := cachePath(cfg)

	logger.Info("Destroying the whole cache", "path", path)
	existed, err := suggest.NukeCache(path)
	if err != nil {
		exitWithError(err)
	}

	msg := "Cache is no more. It ceased to be."
	if !existed {
		msg = "Cache does not exist"
	}
	printResponse(&cacheActionResponse{
		Action:    "nuke",
		CachePath: path,
		Changed:   existed,
		Message:   msg,
	}, OutputFormat(formatFlag))
}

func runCacheShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig().Config
	entries, err := suggest.ListCache(cachePath(cfg))
	if err != nil {
		exitWithError(err)
	}
	if entries == nil {
		entries = []storage.ScopeCacheEntry{}
	}
	printResponse(entries, OutputFormat(formatFlag))
}
