// Package main is the entry point for the apdl2py CLI.
package main

import (
	"os"

	"github.com/apdltools/apdl2py/internal/cli"
	"github.com/apdltools/apdl2py/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
		return 1
	}

	return 0
}
