package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"cch/internal/scopes"
	"cch/internal/storage"
	"cch/internal/suggest"
	"cch/internal/version"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

var (
	nameColor = color.New(color.FgCyan, color.Bold)
	warnColor = color.New(color.FgRed, color.Bold)

	// useColor is decided once; tests switch it off.
	useColor = isTerminal(os.Stdout)
)

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paintName(name string) string {
	if !useColor {
		return name
	}
	return nameColor.Sprint(name)
}

func errorPrefix() string {
	if !isTerminal(os.Stderr) {
		return "Error:"
	}
	return warnColor.Sprint("Error:")
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case []scopes.Scope:
		return formatEntriesHuman(v), nil
	case *suggest.ScopeResult:
		return formatExplainHuman(v), nil
	case []storage.ScopeCacheEntry:
		return formatCacheEntriesHuman(v), nil
	case *cacheActionResponse:
		return formatCacheActionHuman(v), nil
	case version.Build:
		return version.Full(), nil
	default:
		return formatJSON(resp)
	}
}

// formatEntriesHuman prints one "name: description" line per entry.
func formatEntriesHuman(entries []scopes.Scope) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(paintName(e.Name))
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	return b.String()
}

func formatExplainHuman(r *suggest.ScopeResult) string {
	var b strings.Builder

	if len(r.Scopes) == 0 {
		b.WriteString("No scopes found\n")
	} else {
		b.WriteString(formatEntriesHuman(r.Scopes))
		b.WriteString("\n")
	}
	b.WriteString("\n" + strings.Repeat("─", 50) + "\n")

	fmt.Fprintf(&b, "Index source: %s\n", r.Source)
	if r.Stats != nil {
		fmt.Fprintf(&b, "History: %d commits, %d scoped, %d unreadable, %d parents skipped\n",
			r.Stats.CommitsVisited, r.Stats.ScopedCommits, r.Stats.UnreadableCommits, r.Stats.SkippedParents)
	}
	fmt.Fprintf(&b, "Staged files: %d\n", len(r.Staged))

	if len(r.Ranking) == 0 {
		b.WriteString("No historical scope overlaps the staged files")
		return b.String()
	}
	b.WriteString("Overlap with staged files:\n")
	for i, m := range r.Ranking {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		// Pad before painting; escape codes would count toward the width.
		fmt.Fprintf(&b, "  %s %s %d\n", marker, paintName(fmt.Sprintf("%-24s", m.Scope.Name)), m.Overlap)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCacheEntriesHuman(entries []storage.ScopeCacheEntry) string {
	if len(entries) == 0 {
		return "Cache is empty"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d cached repositories\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "%s\n", paintName(e.RepoPath))
		fmt.Fprintf(&b, "  Head: %s\n", shortID(e.HeadCommit))
		fmt.Fprintf(&b, "  Scopes: %d, Files: %d\n", e.ScopeCount, e.FileCount)
		fmt.Fprintf(&b, "  Updated: %s\n", e.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCacheActionHuman(r *cacheActionResponse) string {
	var b strings.Builder
	b.WriteString(r.Message)
	if r.Entry != nil {
		fmt.Fprintf(&b, "\n  %d scopes, %d files at %s", r.Entry.ScopeCount, r.Entry.FileCount, shortID(r.Entry.HeadCommit))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// printResponse writes resp to stdout or exits on a formatting error.
func printResponse(resp interface{}, format OutputFormat) {
	output, err := FormatResponse(resp, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	if output != "" {
		fmt.Println(output)
	}
}

// printEntries prints a type or scope list; JSON and YAML always get an array.
func printEntries(entries []scopes.Scope, format OutputFormat) {
	if entries == nil {
		entries = []scopes.Scope{}
	}
	printResponse(entries, format)
}
