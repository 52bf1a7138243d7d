package main

import (
	"github.com/spf13/cobra"

	"cch/internal/committypes"
	"cch/internal/version"
)

var (
	repoPathFlag string
	verboseFlag  int
	quietFlag    bool
	formatFlag   string
	backendFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "cch",
	Short: "cch - conventional commit helper",
	Long: `cch suggests conventional commit types and scopes for the pending commit.

Scopes come from the project's .dev/conventional-commit-helper.toml and from
the scopes used in the repository's history. The scope whose past commits
touched most of the currently staged files is listed first.

Run without a command to print the default commit types.`,
	Version:      version.Info(),
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	Run:          runRoot,
}

func init() {
	rootCmd.SetVersionTemplate("cch version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoPathFlag, "repo-path", ".",
		"Path inside the non-bare git repository")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v",
		"Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false,
		"Suppress all logging")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", string(FormatHuman),
		"Output format (human, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "",
		"Git backend: gogit or cli (default from config)")
}

// runRoot prints the built-in commit types; it needs no repository.
func runRoot(cmd *cobra.Command, args []string) {
	logger := newLogger(nil)
	logger.Debug("No command given, printing default types")
	printEntries(committypes.Defaults(), OutputFormat(formatFlag))
}
