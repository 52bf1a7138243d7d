package main

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"cch/internal/history"
	"cch/internal/scopes"
	"cch/internal/storage"
	"cch/internal/suggest"
)

func init() {
	useColor = false
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var sampleEntries = []scopes.Scope{
	{Name: "feat", Description: "A new feature"},
	{Name: "api", Description: ""},
}

func TestFormatResponse_Human(t *testing.T) {
	got, err := FormatResponse(sampleEntries, FormatHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "feat: A new feature\napi: "
	if got != want {
		t.Errorf("human output = %q, want %q", got, want)
	}
}

func TestFormatResponse_JSON(t *testing.T) {
	got, err := FormatResponse(sampleEntries, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, part := range []string{`"name": "feat"`, `"description": "A new feature"`, `"name": "api"`} {
		if !strings.Contains(got, part) {
			t.Errorf("JSON output missing %s:\n%s", part, got)
		}
	}
	if !strings.HasPrefix(got, "[") {
		t.Errorf("JSON output should be an array, got %q", got)
	}
}

func TestFormatResponse_YAML(t *testing.T) {
	got, err := FormatResponse(sampleEntries, FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "- name: feat\n  description: A new feature\n- name: api\n  description: \"\""
	if got != want {
		t.Errorf("YAML output = %q, want %q", got, want)
	}
}

func TestFormatResponse_EmptyList(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatHuman, ""},
		{FormatJSON, "[]"},
		{FormatYAML, "[]"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got, err := FormatResponse([]scopes.Scope{}, tt.format)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	_, err := FormatResponse(sampleEntries, "xml")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error should mention unsupported format, got: %v", err)
	}
}

func TestFormatExplainHuman(t *testing.T) {
	result := &suggest.ScopeResult{
		Scopes: []scopes.Scope{{Name: "foo"}, {Name: "bar"}},
		Source: suggest.SourceHistory,
		Staged: []string{"bar", "foo"},
		Ranking: []scopes.Match{
			{Scope: scopes.Scope{Name: "foo"}, Overlap: 2},
			{Scope: scopes.Scope{Name: "bar"}, Overlap: 1},
		},
		Stats: &history.IndexStats{CommitsVisited: 3, ScopedCommits: 2},
	}
	result.Matched = &result.Ranking[0]

	got, err := FormatResponse(result, FormatHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, part := range []string{
		"foo: \nbar: ",
		"Index source: history",
		"History: 3 commits, 2 scoped",
		"Staged files: 2",
		"* foo",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("explain output missing %q:\n%s", part, got)
		}
	}
}

func TestFormatExplainHuman_ColumnsAlignWithColor(t *testing.T) {
	useColor = true
	nameColor.EnableColor()
	defer func() {
		useColor = false
		nameColor.DisableColor()
	}()

	got := formatExplainHuman(&suggest.ScopeResult{
		Source: suggest.SourceHistory,
		Ranking: []scopes.Match{
			{Scope: scopes.Scope{Name: "core-utils"}, Overlap: 3},
			{Scope: scopes.Scope{Name: "api"}, Overlap: 1},
		},
	})
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected colored output:\n%q", got)
	}

	plain := ansiEscape.ReplaceAllString(got, "")
	for _, want := range []string{
		fmt.Sprintf("  * %-24s 3\n", "core-utils"),
		fmt.Sprintf("    %-24s 1", "api"),
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("output missing aligned row %q:\n%s", want, plain)
		}
	}
}

func TestFormatExplainHuman_NoOverlap(t *testing.T) {
	got := formatExplainHuman(&suggest.ScopeResult{Source: suggest.SourceNone})
	if !strings.Contains(got, "No scopes found") || !strings.Contains(got, "No historical scope overlaps") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestFormatCacheEntriesHuman(t *testing.T) {
	if got := formatCacheEntriesHuman(nil); got != "Cache is empty" {
		t.Errorf("empty cache = %q", got)
	}

	got := formatCacheEntriesHuman([]storage.ScopeCacheEntry{{
		RepoPath:   "/src/project",
		HeadCommit: "0123456789abcdef0123",
		ScopeCount: 4,
		FileCount:  12,
		UpdatedAt:  time.Now(),
	}})
	for _, part := range []string{"1 cached repositories", "/src/project", "Head: 0123456789ab\n", "Scopes: 4, Files: 12"} {
		if !strings.Contains(got, part) {
			t.Errorf("output missing %q:\n%s", part, got)
		}
	}
}

func TestFormatCacheActionHuman(t *testing.T) {
	got := formatCacheActionHuman(&cacheActionResponse{
		Message: "Cache saved",
		Entry:   &storage.ScopeCacheEntry{ScopeCount: 2, FileCount: 3, HeadCommit: "abc"},
	})
	want := "Cache saved\n  2 scopes, 3 files at abc"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestComputeDiff(t *testing.T) {
	current := map[string]interface{}{
		"backend": "cli",
		"cache":   map[string]interface{}{"enabled": true, "path": "/tmp/c.db"},
		"logging": map[string]interface{}{"level": "warn"},
	}
	defaults := map[string]interface{}{
		"backend": "gogit",
		"cache":   map[string]interface{}{"enabled": true, "path": ""},
		"logging": map[string]interface{}{"level": "warn"},
	}

	diff := computeDiff(current, defaults)
	if diff["backend"] != "cli" {
		t.Errorf("backend diff = %v", diff["backend"])
	}
	cache, ok := diff["cache"].(map[string]interface{})
	if !ok || len(cache) != 1 || cache["path"] != "/tmp/c.db" {
		t.Errorf("cache diff = %v", diff["cache"])
	}
	if _, ok := diff["logging"]; ok {
		t.Error("unchanged section should be omitted")
	}
}

func TestSupportedEnvVarsDocumented(t *testing.T) {
	for _, v := range supportedEnvVars() {
		if v.Desc == "" {
			t.Errorf("%s has no description", v.Name)
		}
	}
}

func TestOutputFormatJSONShorthand(t *testing.T) {
	orig := formatFlag
	defer func() { formatFlag = orig }()

	formatFlag = "yaml"
	if got := outputFormat(true); got != FormatJSON {
		t.Errorf("outputFormat(true) = %q", got)
	}
	if got := outputFormat(false); got != FormatYAML {
		t.Errorf("outputFormat(false) = %q", got)
	}
}
