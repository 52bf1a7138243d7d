package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

const (
	// HomeEnvVar relocates both the config and the cache directory.
	HomeEnvVar = "CCH_HOME"

	// AppDirName is the directory created under the user config/cache dirs.
	AppDirName = "cch"

	// ConfigFileName is the tool settings file inside the config dir.
	ConfigFileName = "config.toml"

	// CacheDBFileName is the scope cache database inside the cache dir.
	CacheDBFileName = "scope_cache.db"
)

// GetConfigDir returns the directory holding tool settings.
// CCH_HOME wins; otherwise $XDG_CONFIG_HOME/cch (or the platform equivalent).
func GetConfigDir() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDirName), nil
}

// GetCacheDir returns the directory holding the scope cache.
// CCH_HOME wins; otherwise $XDG_CACHE_HOME/cch (or the platform equivalent).
func GetCacheDir() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppDirName), nil
}

// GetCacheDBPath returns the default scope cache database path.
func GetCacheDBPath() (string, error) {
	dir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, CacheDBFileName), nil
}

// EnsureParentDir creates the parent directory of path if needed.
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// CanonicalRepoRoot resolves a repository working directory to an absolute,
// symlink-free path so the same checkout always maps to the same cache key.
func CanonicalRepoRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// If the directory doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

// ComputeRepoHash returns a short stable hash of a repository path.
func ComputeRepoHash(repoRoot string) string {
	sum := sha256.Sum256([]byte(repoRoot))
	return hex.EncodeToString(sum[:8])
}

// NormalizePath normalizes a path by converting backslashes to forward slashes
// This is useful for paths that are already relative but need normalization
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}
