package version

import (
	"runtime"
	"strings"
	"testing"
)

func setBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origDate
	})
	Version, Commit, BuildDate = version, commit, date
}

func TestInfo(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		want   string
	}{
		{"unknown commit", "unknown", "1.0.0"},
		{"short commit", "abc", "1.0.0"},
		{"exactly 7 chars", "1234567", "1.0.0"},
		{"full hash", "abc1234567890", "1.0.0 (abc1234)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuild(t, "1.0.0", tt.commit, "unknown")
			if got := Info(); got != tt.want {
				t.Errorf("Info() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	setBuild(t, "1.2.3", "abcdef123456", "2024-01-15")

	got := Full()
	for _, part := range []string{
		"cch version 1.2.3",
		"Commit: abcdef123456",
		"Built: 2024-01-15",
		runtime.GOOS + "/" + runtime.GOARCH,
	} {
		if !strings.Contains(got, part) {
			t.Errorf("Full() = %q, want to contain %q", got, part)
		}
	}
}

func TestCurrentKeepsLdflagsCommit(t *testing.T) {
	setBuild(t, "1.2.3", "deadbeefcafe", "2024-01-15")

	b := Current()
	if b.Commit != "deadbeefcafe" || b.BuildDate != "2024-01-15" {
		t.Errorf("Current() = %+v", b)
	}
	if b.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", b.GoVersion)
	}
}

func TestDefaultVersionIsSemver(t *testing.T) {
	if parts := strings.Split(Version, "."); len(parts) != 3 {
		t.Errorf("Version %q doesn't appear to be semver", Version)
	}
}
