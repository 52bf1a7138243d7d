package suggest

import (
	"context"

	"cch/internal/errors"
	"cch/internal/storage"
)

// CreateCache creates the cache database if needed and stores a fresh index
// for this repository.
func (s *Service) CreateCache(ctx context.Context) (*storage.ScopeCacheEntry, error) {
	return s.writeCache(ctx)
}

// UpdateCache rebuilds this repository's entry in an existing cache.
func (s *Service) UpdateCache(ctx context.Context) (*storage.ScopeCacheEntry, error) {
	if err := s.requireCache(); err != nil {
		return nil, err
	}
	return s.writeCache(ctx)
}

// DropCache removes this repository's entry and reports whether it existed.
func (s *Service) DropCache(ctx context.Context) (bool, error) {
	if err := s.requireCache(); err != nil {
		return false, err
	}

	repoID, err := s.RepoID()
	if err != nil {
		return false, err
	}

	db, err := s.openCache()
	if err != nil {
		return false, err
	}
	defer func() { _ = db.Close() }()

	dropped, err := storage.NewScopeCache(db).Drop(repoID)
	if err != nil {
		return false, errors.New(errors.CacheUnavailable, "failed to drop cache entry", err)
	}
	s.logger.Info("Dropped cache entry", "repo", repoID, "existed", dropped)
	return dropped, nil
}

func (s *Service) writeCache(ctx context.Context) (*storage.ScopeCacheEntry, error) {
	repoID, err := s.RepoID()
	if err != nil {
		return nil, err
	}

	index, _, head, err := s.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}
	if index == nil {
		return nil, errors.New(errors.NoScopes, "No scopes detected in the repo", nil)
	}

	db, err := s.openCache()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	entry, err := storage.NewScopeCache(db).Put(repoID, head, index)
	if err != nil {
		return nil, errors.New(errors.CacheUnavailable, "failed to write scope cache", err)
	}
	s.logger.Info("Cached scope index",
		"repo", repoID,
		"entry", entry.EntryID,
		"scopes", entry.ScopeCount,
	)
	return entry, nil
}

func (s *Service) requireCache() error {
	if s.opts.CachePath == "" || !storage.Exists(s.opts.CachePath) {
		return errors.New(errors.CacheMissing, "Cache does not exist", nil).WithDetails(map[string]interface{}{
			"path": s.opts.CachePath,
		})
	}
	return nil
}

func (s *Service) openCache() (*storage.DB, error) {
	if s.opts.CachePath == "" {
		return nil, errors.New(errors.CacheUnavailable, "no cache path configured", nil)
	}
	db, err := storage.Open(s.opts.CachePath, s.logger)
	if err != nil {
		return nil, errors.New(errors.CacheUnavailable, "cannot open scope cache", err)
	}
	return db, nil
}

// ListCache returns every cached repository in the database at dbPath.
func ListCache(dbPath string) ([]storage.ScopeCacheEntry, error) {
	if !storage.Exists(dbPath) {
		return nil, errors.New(errors.CacheMissing, "Cache does not exist", nil)
	}
	db, err := storage.Open(dbPath, nil)
	if err != nil {
		return nil, errors.New(errors.CacheUnavailable, "cannot open scope cache", err)
	}
	defer func() { _ = db.Close() }()

	entries, err := storage.NewScopeCache(db).List()
	if err != nil {
		return nil, errors.New(errors.CacheUnavailable, "cannot list scope cache", err)
	}
	return entries, nil
}

// NukeCache deletes the whole cache database and reports whether it existed.
func NukeCache(dbPath string) (bool, error) {
	existed, err := storage.Remove(dbPath)
	if err != nil {
		return existed, errors.New(errors.CacheUnavailable, "failed to delete scope cache", err)
	}
	return existed, nil
}
