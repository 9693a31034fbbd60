package commands

import (
	"github.com/spf13/cobra"
)

var (
	// outputFormat controls output format (text, json).
	outputFormat string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "actorctl",
	Short: "actorctl drives and inspects actorcore runtimes",
	Long: `actorctl is a demonstration and diagnostic CLI for the actorcore
runtime. It spawns the reference actors under internal/examples in-process,
exercises them with Tell/Ask traffic, and can render the repository's
design documents for review.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(docCmd)
}
