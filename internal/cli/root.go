// Package cli provides the Cobra command structure for apdl2py.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/apdltools/apdl2py/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root apdl2py command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "apdl2py",
		Short: "Convert ANSYS APDL scripts to PyMAPDL python scripts",
		Long: `apdl2py converts ANSYS MAPDL macro scripts (APDL) into python scripts
driving a PyMAPDL session.

Recognized commands become mapdl method calls, macros become python
functions, and raw data blocks are replayed inside non_interactive
contexts. Markdown files with fenced apdl code blocks are supported as
literate input decks.`,
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
	rootCmd.AddCommand(newConvertCommand(&configPath, &color))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
