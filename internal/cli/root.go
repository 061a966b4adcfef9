// Package cli provides the Cobra command structure for fmtlift.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fmtlift/internal/configloader"
	"github.com/yaklabco/fmtlift/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root fmtlift command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "fmtlift",
		Short: "A fast, conservative normalizer for Rust format strings",
		Long: `fmtlift normalizes format strings in Rust source trees.

It rewrites formatting macro calls (println!, format!, write! and friends)
so that expressions embedded in template placeholders move into the
explicit argument list, leaving plain {} placeholders behind. Any call
site that cannot be rewritten safely is left exactly as written. Safety
comes from conservative scanning, check and dry-run modes, and optional
backups.

` + environmentHelp(),
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

	// Flag parse failures are usage errors, on every subcommand.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %s", ErrUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newFixCommand(info))
	rootCmd.AddCommand(newCallsCommand())
	rootCmd.AddCommand(newVocabCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// environmentHelp renders the supported environment variables as a help
// section, in a stable order.
func environmentHelp() string {
	vars := configloader.ListEnvVars()

	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Environment variables:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, name, vars[name])
	}
	return strings.TrimRight(b.String(), "\n")
}
