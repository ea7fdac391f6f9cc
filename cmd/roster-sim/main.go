package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/matchday/internal/rostersim"
)

// Default configuration constants.
const (
	defaultPlayers    = 23
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players    = flag.Int("players", defaultPlayers, "Number of participants to generate")
		inactive   = flag.Int("inactive", 0, "Participants generated as inactive")
		groupSize  = flag.Int("group-size", 0, "Starters per group; 0 uses the service default")
		preset     = flag.String("preset", "", "Weight preset: reference or official")
		local      = flag.Bool("local", false, "Balance in-process without a running service")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the generated pool to this JSON file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Print every group roster")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rostersim.ShowHelp()
		return
	}

	if err := rostersim.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &rostersim.Config{
		BaseURL:    *baseURL,
		Players:    *players,
		Inactive:   *inactive,
		GroupSize:  *groupSize,
		Preset:     *preset,
		Local:      *local,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if _, err := rostersim.Run(ctx, config, os.Stdout); err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
