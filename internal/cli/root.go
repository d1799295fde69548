// Package cli provides the Cobra command structure for gohtmlrewrite.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gohtmlrewrite/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gohtmlrewrite command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gohtmlrewrite",
		Short: "A streaming, quirks-tolerant HTML rewriting engine",
		Long: `gohtmlrewrite is a streaming HTML rewriting engine written in Go.

It tokenizes real-world HTML the way browsers do, including unclosed tags,
IE conditional comments, and stray markup, and streams the document through
a chain of filters that can inspect and mutate it before it is serialized.
Well-formed input survives a pass through the engine byte for byte.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newRewriteCommand())
	rootCmd.AddCommand(newFiltersCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
