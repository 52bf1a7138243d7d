package main

import (
	"github.com/spf13/cobra"
)

var (
	scopeJSON    bool
	scopeExplain bool
	scopeNoCache bool
)

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Show commit scopes",
	Long: `Print the scopes for the pending commit.

Configured scopes and scopes seen in history are merged and sorted; the
historical scope whose commits touched most of the staged files comes first.

Examples:
  cch scope               # one "name: description" per line
  cch scope --explain     # also show where the list came from
  cch scope --no-cache    # walk history even when a cache entry exists`,
	Args: cobra.NoArgs,
	Run:  runScope,
}

func init() {
	scopeCmd.Flags().BoolVar(&scopeJSON, "json", false, "Shorthand for --format json")
	scopeCmd.Flags().BoolVar(&scopeExplain, "explain", false, "Show index source, history stats and overlap ranking")
	scopeCmd.Flags().BoolVar(&scopeNoCache, "no-cache", false, "Ignore the scope cache")
	rootCmd.AddCommand(scopeCmd)
}

func runScope(cmd *cobra.Command, args []string) {
	ctx, cancel := newContext()
	defer cancel()

	s := mustOpenSession(ctx, !scopeNoCache)
	result, err := s.service.Scopes(ctx)
	if err != nil {
		exitWithError(err)
	}

	if scopeExplain {
		printResponse(result, outputFormat(scopeJSON))
		return
	}
	printEntries(result.Scopes, outputFormat(scopeJSON))
}
