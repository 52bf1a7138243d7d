// Package testutil provides helpers shared by tests: golden-file comparison
// and scratch git repositories.
package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// updateGolden rewrites golden files instead of comparing.
// Use: go test ./cmd/cch -run TestGolden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// CompareGolden compares got against the file at goldenPath, failing with a
// diff on mismatch. got is compared with exactly one trailing newline.
func CompareGolden(t *testing.T, goldenPath string, got []byte) {
	t.Helper()

	normalized := append(bytes.TrimRight(got, "\n"), '\n')

	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("Failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, normalized, 0o644); err != nil {
			t.Fatalf("Failed to write golden file: %v", err)
		}
		t.Logf("Updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test -run %s -update",
				goldenPath, normalized, t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}
	expected = bytes.ReplaceAll(expected, []byte("\r\n"), []byte("\n"))

	if !bytes.Equal(normalized, expected) {
		t.Fatalf("Golden mismatch for %s:\n%s\n\nRun with -update to refresh:\n  go test -run %s -update",
			goldenPath, unifiedDiff(string(expected), string(normalized), goldenPath), t.Name())
	}
}

// unifiedDiff produces a line-by-line diff; good enough for short outputs.
func unifiedDiff(expected, got, path string) string {
	var buf bytes.Buffer

	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	n := max(len(expectedLines), len(gotLines))
	for i := 0; i < n; i++ {
		var exp, act string
		haveExp, haveAct := i < len(expectedLines), i < len(gotLines)
		if haveExp {
			exp = expectedLines[i]
		}
		if haveAct {
			act = gotLines[i]
		}
		if haveExp && haveAct && exp == act {
			fmt.Fprintf(&buf, " %s\n", exp)
			continue
		}
		if haveExp {
			fmt.Fprintf(&buf, "-%s\n", exp)
		}
		if haveAct {
			fmt.Fprintf(&buf, "+%s\n", act)
		}
	}
	return buf.String()
}
