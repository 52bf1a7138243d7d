package main

import (
	"github.com/spf13/cobra"
)

var typeJSON bool

var typeCmd = &cobra.Command{
	Use:   "type",
	Short: "Show commit types",
	Long: `Print the commit types declared in the project's [types] table, or the
built-in conventional commit types when the project declares none.`,
	Args: cobra.NoArgs,
	Run:  runType,
}

func init() {
	typeCmd.Flags().BoolVar(&typeJSON, "json", false, "Shorthand for --format json")
	rootCmd.AddCommand(typeCmd)
}

func runType(cmd *cobra.Command, args []string) {
	ctx, cancel := newContext()
	defer cancel()

	s := mustOpenSession(ctx, false)
	types, err := s.service.Types(ctx)
	if err != nil {
		exitWithError(err)
	}
	printEntries(types, outputFormat(typeJSON))
}

// outputFormat honours a per-command --json shorthand.
func outputFormat(jsonFlag bool) OutputFormat {
	if jsonFlag {
		return FormatJSON
	}
	return OutputFormat(formatFlag)
}
