package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHomeOverride(t *testing.T) {
	customHome := t.TempDir()
	t.Setenv(HomeEnvVar, customHome)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir failed: %v", err)
	}
	if configDir != customHome {
		t.Errorf("GetConfigDir() = %s, want %s", configDir, customHome)
	}

	dbPath, err := GetCacheDBPath()
	if err != nil {
		t.Fatalf("GetCacheDBPath failed: %v", err)
	}
	if dbPath != filepath.Join(customHome, CacheDBFileName) {
		t.Errorf("GetCacheDBPath() = %s", dbPath)
	}
}

func TestCacheDirHonoursXDG(t *testing.T) {
	if os.Getenv("HOME") == "" {
		t.Skip("HOME not set")
	}
	xdg := t.TempDir()
	t.Setenv(HomeEnvVar, "")
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := GetCacheDir()
	if err != nil {
		t.Fatalf("GetCacheDir failed: %v", err)
	}
	// os.UserCacheDir only consults XDG_CACHE_HOME on Unix-like systems.
	if !strings.HasSuffix(dir, AppDirName) {
		t.Errorf("GetCacheDir() = %s, want suffix %s", dir, AppDirName)
	}
}

func TestComputeRepoHash(t *testing.T) {
	hash1 := ComputeRepoHash("/some/repo/path")
	hash2 := ComputeRepoHash("/some/repo/path")
	if hash1 != hash2 {
		t.Errorf("Expected same hash for same path, got %s != %s", hash1, hash2)
	}

	if hash1 == ComputeRepoHash("/different/repo/path") {
		t.Error("Expected different hash for different path")
	}

	if len(hash1) != 16 { // 8 bytes = 16 hex chars
		t.Errorf("Expected 16 character hash, got %d: %s", len(hash1), hash1)
	}
}

func TestCanonicalRepoRoot(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	fromDir, err := CanonicalRepoRoot(dir)
	if err != nil {
		t.Fatalf("CanonicalRepoRoot(dir) failed: %v", err)
	}
	fromLink, err := CanonicalRepoRoot(link)
	if err != nil {
		t.Fatalf("CanonicalRepoRoot(link) failed: %v", err)
	}
	if fromDir != fromLink {
		t.Errorf("symlink resolved to %s, want %s", fromLink, fromDir)
	}

	missing := filepath.Join(dir, "does-not-exist")
	got, err := CanonicalRepoRoot(missing)
	if err != nil || !filepath.IsAbs(got) {
		t.Errorf("CanonicalRepoRoot(missing) = %q, %v", got, err)
	}
}

func TestEnsureParentDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "file.db")
	if err := EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir failed: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(target)); err != nil || !info.IsDir() {
		t.Errorf("parent dir not created: %v", err)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := NormalizePath(filepath.Join("a", "b", "c.go")); got != "a/b/c.go" {
		t.Errorf("NormalizePath() = %q, want %q", got, "a/b/c.go")
	}
}
