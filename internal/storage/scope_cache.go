package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"cch/internal/paths"
	"cch/internal/scopes"
)

// ScopeCacheEntry is one repository's cached scope index
type ScopeCacheEntry struct {
	RepoPath   string       `json:"repoPath" yaml:"repoPath"`
	RepoHash   string       `json:"repoHash" yaml:"repoHash"`
	EntryID    string       `json:"entryId" yaml:"entryId"`
	HeadCommit string       `json:"headCommit" yaml:"headCommit"`
	ScopeCount int          `json:"scopeCount" yaml:"scopeCount"`
	FileCount  int          `json:"fileCount" yaml:"fileCount"`
	CreatedAt  time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt" yaml:"updatedAt"`
	Index      scopes.Index `json:"-" yaml:"-"`
}

// ScopeCache stores scope indexes keyed by canonical repository path
type ScopeCache struct {
	db *DB
}

// NewScopeCache creates a new scope cache over db
func NewScopeCache(db *DB) *ScopeCache {
	return &ScopeCache{db: db}
}

// Get returns the entry for repoPath with its index decoded, or nil when the
// repository has no entry.
func (c *ScopeCache) Get(repoPath string) (*ScopeCacheEntry, error) {
	var (
		entry              ScopeCacheEntry
		blob               []byte
		createdAt, updated string
	)

	err := c.db.QueryRow(`
		SELECT repo_path, repo_hash, entry_id, head_commit, scope_count, file_count,
		       index_blob, created_at, updated_at
		FROM scope_cache
		WHERE repo_path = ?
	`, repoPath).Scan(
		&entry.RepoPath, &entry.RepoHash, &entry.EntryID, &entry.HeadCommit,
		&entry.ScopeCount, &entry.FileCount, &blob, &createdAt, &updated,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scope cache: %w", err)
	}

	entry.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	entry.UpdatedAt, _ = time.Parse(time.RFC3339, updated)

	index, err := decodeIndex(blob)
	if err != nil {
		return nil, fmt.Errorf("corrupt scope cache entry for %s: %w", repoPath, err)
	}
	entry.Index = index

	return &entry, nil
}

// Put stores index for repoPath, replacing any previous entry. The creation
// time of an existing entry is kept; every write gets a fresh entry id.
func (c *ScopeCache) Put(repoPath, headCommit string, index scopes.Index) (*ScopeCacheEntry, error) {
	blob, err := encodeIndex(index)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	entry := &ScopeCacheEntry{
		RepoPath:   repoPath,
		RepoHash:   paths.ComputeRepoHash(repoPath),
		EntryID:    uuid.New().String(),
		HeadCommit: headCommit,
		ScopeCount: len(index),
		FileCount:  index.FileCount(),
		CreatedAt:  now,
		UpdatedAt:  now,
		Index:      index,
	}

	err = c.db.WithTx(func(tx *sql.Tx) error {
		var createdAt string
		err := tx.QueryRow("SELECT created_at FROM scope_cache WHERE repo_path = ?", repoPath).Scan(&createdAt)
		switch {
		case err == sql.ErrNoRows:
		case err != nil:
			return err
		default:
			if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
				entry.CreatedAt = t
			}
		}

		_, err = tx.Exec(`
			INSERT OR REPLACE INTO scope_cache
				(repo_path, repo_hash, entry_id, head_commit, scope_count, file_count, index_blob, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, entry.RepoPath, entry.RepoHash, entry.EntryID, entry.HeadCommit, entry.ScopeCount, entry.FileCount,
			blob, entry.CreatedAt.Format(time.RFC3339), entry.UpdatedAt.Format(time.RFC3339))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write scope cache: %w", err)
	}

	return entry, nil
}

// Drop removes the entry for repoPath and reports whether one existed
func (c *ScopeCache) Drop(repoPath string) (bool, error) {
	result, err := c.db.Exec("DELETE FROM scope_cache WHERE repo_path = ?", repoPath)
	if err != nil {
		return false, fmt.Errorf("failed to drop scope cache entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every entry without decoding the indexes, ordered by path
func (c *ScopeCache) List() ([]ScopeCacheEntry, error) {
	rows, err := c.db.Query(`
		SELECT repo_path, repo_hash, entry_id, head_commit, scope_count, file_count, created_at, updated_at
		FROM scope_cache
		ORDER BY repo_path
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scope cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []ScopeCacheEntry
	for rows.Next() {
		var (
			e                  ScopeCacheEntry
			createdAt, updated string
		)
		if err := rows.Scan(&e.RepoPath, &e.RepoHash, &e.EntryID, &e.HeadCommit, &e.ScopeCount, &e.FileCount, &createdAt, &updated); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// One encoder/decoder pair is enough; EncodeAll and DecodeAll are safe for
// concurrent use.
var (
	blobEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	blobDecoder, _ = zstd.NewReader(nil)
)

func encodeIndex(index scopes.Index) ([]byte, error) {
	raw, err := json.Marshal(index)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scope index: %w", err)
	}
	return blobEncoder.EncodeAll(raw, nil), nil
}

func decodeIndex(blob []byte) (scopes.Index, error) {
	raw, err := blobDecoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, err
	}
	var index scopes.Index
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, err
	}
	return index, nil
}
