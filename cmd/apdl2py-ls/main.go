// Package main is the entry point for the apdl2py language server, a
// proxy that lets python tooling power diagnostics for markdown APDL
// decks.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/apdltools/apdl2py/internal/lsp/server"
)

// getLogFile returns a log file for the lsp server to write to.
//
// During development (-debug flag) uses persistent log for easy access.
func getLogFile(debug bool) (*os.File, error) {
	if debug {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		logDir := filepath.Join(homeDir, ".apdl2py")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, err
		}
		return os.OpenFile(filepath.Join(logDir, "apdl2py-ls.log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	}

	return os.CreateTemp("", "apdl2py-ls-*.log")
}

func main() {
	var debug bool
	var pylspPath string
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&pylspPath, "pylsp", "", "Path to the pylsp binary (default: autodetect)")
	flag.Parse()

	logFile, err := getLogFile(debug)
	if err != nil {
		log.Error("failed to setup logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	// LSP traffic owns stdout, so logs go to stderr and the log file.
	logger := log.NewWithOptions(io.MultiWriter(os.Stderr, logFile), log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	log.SetDefault(logger)

	log.Info("starting apdl2py-ls", "logfile", logFile.Name())

	ctx := context.Background()

	opts := server.DefaultServerOptions
	opts.PyLSPath = pylspPath

	s, err := server.NewServer(opts)
	if err != nil {
		log.Error("failed to create server", "error", err)
		return
	}

	<-jsonrpc2.NewConn(
		ctx,
		jsonrpc2.NewBufferedStream(server.NewStdRWC(), jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(s.Handle),
	).DisconnectNotify()
}
