package rostersim

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/matchday/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging initialises the global logger. When logFile is set, entries
// go to both stdout and the file.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWriter(w, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the roster simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Matchday Roster Simulator
=========================

Generates a synthetic player pool and balances it into groups and matchups.

Usage:
  go run ./cmd/roster-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of participants to generate (default 23)
  -inactive int
        Participants generated as inactive (default 0)
  -group-size int
        Starters per group; 0 uses the service default (default 0)
  -preset string
        Weight preset: reference or official (default: service default)
  -local
        Balance in-process without a running service
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Write the generated pool to this JSON file
  -log string
        Also write logs to this file
  -verbose
        Print every group roster
  -help
        Show this help message

Examples:
  # Balance a league night in-process
  go run ./cmd/roster-sim -local -players 23

  # Balance against a running service with the official weights
  go run ./cmd/roster-sim -url http://localhost:9080 -players 40 -group-size 4 -preset official
`)
}
