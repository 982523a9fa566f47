// Package cli implements the guild command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "guild",
	Short: "Guild — local gig-work marketplace engine",
	Long: `Guild runs the Digital Guild marketplace engine: jobs, workers,
trust passports, subsidized AI incentives, and AI-backed worker
recommendations — all on a local store, no accounts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
