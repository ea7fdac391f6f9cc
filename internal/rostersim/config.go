// Package rostersim generates synthetic player pools and balances them,
// either in-process or against a running balancer service.
package rostersim

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Players    int           // Number of participants to generate
	GroupSize  int           // Starters per group; zero uses the service default
	Preset     string        // Weight preset name sent with the request
	Inactive   int           // Participants generated with active=false
	Local      bool          // Balance in-process instead of over HTTP
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional file for the generated pool
	LogFile    string        // Optional log file
	Verbose    bool          // Print every slot of every group
}

// Stats holds simulation statistics.
type Stats struct {
	Generated   int
	Submitted   int
	Groups      int
	Matchups    int
	Bench       int
	Unpaired    bool
	Iterations  int
	StdDev      float64
	MaxGap      float64
	RunID       string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	BalanceTime time.Duration
}
