package main

import (
	"github.com/spf13/cobra"

	"cch/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printResponse(version.Current(), OutputFormat(formatFlag))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
