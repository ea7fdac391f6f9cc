package rostersim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	service "github.com/okian/matchday/internal/app"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run generates a pool, balances it and writes a report to out.
func Run(ctx context.Context, config *Config, out io.Writer) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting roster simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.Players),
		logger.Int("groupSize", config.GroupSize),
		logger.String("preset", config.Preset),
		logger.Bool("local", config.Local),
		logger.Duration("timeout", config.Timeout),
	)

	pool := GenerateParticipants(config.Players)
	for i := 0; i < config.Inactive && i < len(pool); i++ {
		pool[i].Active = false
	}
	stats.Generated = len(pool)

	if config.OutputFile != "" {
		if err := savePool(config.OutputFile, pool); err != nil {
			log.Warn(ctx, "failed to save pool to file", logger.Error(err))
		}
	}

	active := make([]string, 0, len(pool))
	for _, p := range pool {
		if p.Active {
			active = append(active, p.Name)
		}
	}
	stats.Submitted = len(active)

	began := time.Now()
	resp, err := balance(ctx, config, pool)
	if err != nil {
		return stats, fmt.Errorf("balance: %w", err)
	}
	stats.BalanceTime = time.Since(began)

	if err := verifyResult(active, resp); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	stats.RunID = resp.RunID
	stats.Groups = len(resp.Groups)
	stats.Matchups = len(resp.Matchups)
	stats.Unpaired = resp.Unpaired != nil
	stats.Iterations = resp.Diagnostics.Iterations
	stats.StdDev = resp.Diagnostics.StdDev
	stats.MaxGap = maxGap(resp)
	for _, g := range resp.Groups {
		stats.Bench += len(g.Bench())
	}

	if err := writeReport(out, resp, config.Verbose); err != nil {
		return stats, fmt.Errorf("write report: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// balance sends the pool to the service, or to an in-process one in local mode.
func balance(ctx context.Context, config *Config, pool []model.Participant) (types.BalanceResponse, error) {
	if config.Local {
		in := types.BalanceInput{GroupSize: config.GroupSize, Preset: config.Preset}
		for _, p := range pool {
			if p.Active {
				in.Participants = append(in.Participants, p)
			}
		}
		return service.New(service.WithMaxParticipants(max(len(pool), 2))).Balance(ctx, in)
	}

	client := NewClient(config.BaseURL, config.Timeout)
	if err := client.CheckHealth(ctx); err != nil {
		return types.BalanceResponse{}, fmt.Errorf("service health check failed: %w", err)
	}

	req := types.BalanceRequest{GroupSize: config.GroupSize, Preset: config.Preset}
	for _, p := range pool {
		req.Participants = append(req.Participants, types.FromParticipant(p))
	}
	return client.Balance(ctx, req)
}

func writeReport(out io.Writer, resp types.BalanceResponse, verbose bool) error {
	d := resp.Diagnostics
	fmt.Fprintf(out, "run %s: %d groups, %d matchups, %d iterations, %d starter swaps, %d bench swaps, stddev %.4f\n\n",
		resp.RunID, d.TeamCount, len(resp.Matchups), d.Iterations, d.StarterSwaps, d.BenchSwaps, d.StdDev)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOME\tSTRENGTH\tAWAY\tSTRENGTH\tGAP")
	for _, m := range resp.Matchups {
		fmt.Fprintf(tw, "%s\t%.3f\t%s\t%.3f\t%.3f\n", m.Home.Name, m.Home.Strength, m.Away.Name, m.Away.Strength, m.Differential)
	}
	if resp.Unpaired != nil {
		fmt.Fprintf(tw, "%s\t%.3f\t(bye)\t\t\n", resp.Unpaired.Name, resp.Unpaired.Strength)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !verbose {
		return nil
	}
	for _, g := range resp.Groups {
		fmt.Fprintf(out, "\n%s (strength %.3f)\n", g.Name, g.Strength)
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, s := range g.Slots {
			role := "starter"
			if s.IsBench {
				role = "bench"
			}
			fmt.Fprintf(tw, "  %s\t%.3f\t%s\n", s.Participant.Name, s.Score, role)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// savePool writes the generated participants to filename as JSON.
func savePool(filename string, pool []model.Participant) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	wire := make([]types.ParticipantInput, len(pool))
	for i, p := range pool {
		wire[i] = types.FromParticipant(p)
	}
	raw, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pool: %w", err)
	}
	if err := os.WriteFile(filename, raw, filePermission); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}
	return nil
}

// displayFinalStats logs the simulation statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.String("runID", stats.RunID),
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("groups", stats.Groups),
		logger.Int("matchups", stats.Matchups),
		logger.Int("bench", stats.Bench),
		logger.Bool("unpaired", stats.Unpaired),
		logger.Int("iterations", stats.Iterations),
		logger.Float64("stdDev", stats.StdDev),
		logger.Float64("maxGap", stats.MaxGap),
		logger.Duration("balanceTime", stats.BalanceTime),
		logger.Duration("duration", stats.Duration),
	)
}
