// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchday/internal/domain/balancer"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/partition"
	"github.com/okian/matchday/internal/domain/scoring"
	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultGroupSize       = 5
	defaultMaxParticipants = 500
)

// CustomPreset names the default vector when it comes from explicit weights.
const CustomPreset = "custom"

// Service implements the API dependencies for the roster balancer.
type Service struct {
	mu sync.RWMutex

	balancer *balancer.Balancer

	// Configuration
	defaultGroupSize int
	maxParticipants  int
	maxIterations    int
	convergence      float64
	defaultWeights   model.WeightVector
	defaultPreset    string
	newRunID         func() string

	// State
	started       bool
	runs          int64
	failures      int64
	insufficient  int64
	participants  int64
	lastRunID     string
	lastRunAt     time.Time
	lastStdDev    float64
	lastTeamCount int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultGroupSize sets the group size used when a request omits one.
func WithDefaultGroupSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultGroupSize = n
		}
	}
}

// WithMaxParticipants caps the pool size of a single request.
func WithMaxParticipants(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.maxParticipants = n
		}
	}
}

// WithMaxIterations caps the local-search rounds of each run.
func WithMaxIterations(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxIterations = n
		}
	}
}

// WithConvergenceThreshold sets the strength deviation that ends the search early.
func WithConvergenceThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold >= 0 {
			s.convergence = threshold
		}
	}
}

// WithDefaultPreset selects a registered preset as the default weight vector.
// Unknown names are ignored.
func WithDefaultPreset(name string) Option {
	return func(s *Service) {
		if w, err := scoring.Preset(name); err == nil {
			s.defaultWeights = w
			s.defaultPreset = name
		}
	}
}

// WithDefaultWeights sets an explicit default weight vector.
func WithDefaultWeights(w model.WeightVector) Option {
	return func(s *Service) {
		if len(w) > 0 {
			s.defaultWeights = w.Clone()
			s.defaultPreset = CustomPreset
		}
	}
}

// WithRunIDGenerator replaces the uuid run id source.
func WithRunIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultGroupSize: defaultGroupSize,
		maxParticipants:  defaultMaxParticipants,
		maxIterations:    partition.DefaultMaxIterations,
		convergence:      partition.DefaultConvergenceThreshold,
		defaultWeights:   scoring.ReferenceWeights(),
		defaultPreset:    scoring.PresetReference,
		newRunID:         uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.balancer = balancer.New(
		balancer.WithDefaultWeights(s.defaultWeights),
		balancer.WithMaxIterations(s.maxIterations),
		balancer.WithConvergenceThreshold(s.convergence),
	)

	return s
}

// Start marks the service ready to take requests.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "roster balancer started",
		logger.Int("defaultGroupSize", s.defaultGroupSize),
		logger.String("defaultPreset", s.defaultPreset),
		logger.Int("maxIterations", s.maxIterations),
		logger.Float64("convergenceThreshold", s.convergence),
		logger.Int("maxParticipants", s.maxParticipants),
	)
	return nil
}

// Stop marks the service stopped. Balance keeps working for in-flight callers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	l := s.logger
	if l == nil {
		l = logger.Get()
	}
	l.Info(context.Background(), "roster balancer stopped",
		logger.Int64("runs", s.runs),
		logger.Int64("failures", s.failures),
	)
}

// MaxParticipants returns the configured pool size cap.
func (s *Service) MaxParticipants() int { return s.maxParticipants }

// Balance validates the input, runs the balancer and records the outcome.
func (s *Service) Balance(ctx context.Context, in types.BalanceInput) (types.BalanceResponse, error) {
	start := time.Now()
	runID := s.newRunID()
	log := s.log().With(logger.String("runID", runID))

	req, err := s.buildRequest(in)
	if err != nil {
		s.recordFailure(metrics.OutcomeInvalid, len(in.Participants))
		log.Debug(ctx, "rejected balance request", logger.Error(err))
		return types.BalanceResponse{}, err
	}

	res, err := s.balancer.Balance(req)
	if err != nil {
		outcome := metrics.OutcomeInvalid
		if errors.Is(err, partition.ErrInsufficientPlayers) {
			outcome = metrics.OutcomeInsufficient
		}
		s.recordFailure(outcome, len(req.Participants))
		log.Warn(ctx, "balance failed",
			logger.Int("participants", len(req.Participants)),
			logger.Int("groupSize", req.GroupSize),
			logger.Error(err),
		)
		return types.BalanceResponse{}, err
	}

	took := time.Since(start)
	s.recordSuccess(runID, len(req.Participants), res)
	metrics.RecordRun(metrics.RunStats{
		Duration:     took,
		PoolSize:     len(req.Participants),
		TeamCount:    res.Diagnostics.TeamCount,
		Iterations:   res.Diagnostics.Iterations,
		StarterSwaps: res.Diagnostics.StarterSwaps,
		BenchSwaps:   res.Diagnostics.BenchSwaps,
		StdDev:       res.Diagnostics.StdDev,
		Converged:    res.Diagnostics.Converged,
		Unpaired:     res.Unpaired != nil,
	})
	log.Info(ctx, "balanced roster",
		logger.Int("participants", len(req.Participants)),
		logger.Int("groups", res.Diagnostics.TeamCount),
		logger.Int("matchups", len(res.Matchups)),
		logger.Int("iterations", res.Diagnostics.Iterations),
		logger.Float64("stdDev", res.Diagnostics.StdDev),
		logger.Bool("unpaired", res.Unpaired != nil),
		logger.Duration("took", took),
	)

	return types.NewBalanceResponse(runID, res), nil
}

func (s *Service) buildRequest(in types.BalanceInput) (balancer.Request, error) {
	if len(in.Participants) > s.maxParticipants {
		return balancer.Request{}, fmt.Errorf("%w: %d submitted, limit is %d",
			types.ErrTooManyParticipants, len(in.Participants), s.maxParticipants)
	}

	groupSize := in.GroupSize
	if groupSize == 0 {
		groupSize = s.defaultGroupSize
	}
	if groupSize < 1 {
		return balancer.Request{}, fmt.Errorf("%w: group_size must be at least 1", types.ErrInvalidRequest)
	}

	seen := make(map[string]struct{}, len(in.Participants))
	for _, p := range in.Participants {
		if err := p.Validate(); err != nil {
			return balancer.Request{}, fmt.Errorf("%w: %w", types.ErrInvalidRequest, err)
		}
		if _, dup := seen[p.Name]; dup {
			return balancer.Request{}, fmt.Errorf("%w: %q", types.ErrDuplicateName, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	weights := in.Weights
	if len(weights) == 0 && in.Preset != "" {
		w, err := scoring.Preset(in.Preset)
		if err != nil {
			return balancer.Request{}, fmt.Errorf("%w: %w", types.ErrInvalidRequest, err)
		}
		weights = w
	}
	if err := weights.Validate(); err != nil {
		return balancer.Request{}, fmt.Errorf("%w: %w", types.ErrInvalidRequest, err)
	}

	return balancer.Request{
		Participants: in.Participants,
		GroupSize:    groupSize,
		Weights:      weights,
	}, nil
}

// Presets lists the registered weight vectors and the default preset name.
func (s *Service) Presets() types.PresetsResponse {
	out := types.PresetsResponse{
		Default: s.defaultPreset,
		Presets: make(map[string]map[string]float64),
	}
	for _, name := range scoring.PresetNames() {
		w, _ := scoring.Preset(name)
		out.Presets[name] = weightsToWire(w)
	}
	if s.defaultPreset == CustomPreset {
		out.Presets[CustomPreset] = weightsToWire(s.defaultWeights)
	}
	return out
}

func weightsToWire(w model.WeightVector) map[string]float64 {
	m := make(map[string]float64, len(w))
	for k, v := range w {
		m[string(k)] = v
	}
	return m
}

func (s *Service) recordSuccess(runID string, pool int, res model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.participants += int64(pool)
	s.lastRunID = runID
	s.lastRunAt = time.Now()
	s.lastStdDev = res.Diagnostics.StdDev
	s.lastTeamCount = res.Diagnostics.TeamCount
}

func (s *Service) recordFailure(outcome string, pool int) {
	s.mu.Lock()
	s.failures++
	if outcome == metrics.OutcomeInsufficient {
		s.insufficient++
	}
	s.mu.Unlock()
	metrics.RecordRunFailure(outcome, pool)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":              s.started,
		"runs":                 s.runs,
		"failures":             s.failures,
		"insufficientPlayers":  s.insufficient,
		"participantsBalanced": s.participants,
		"defaultGroupSize":     s.defaultGroupSize,
		"defaultPreset":        s.defaultPreset,
		"maxIterations":        s.maxIterations,
		"convergenceThreshold": s.convergence,
		"maxParticipants":      s.maxParticipants,
	}

	if s.runs > 0 {
		stats["lastRunID"] = s.lastRunID
		stats["lastRunAt"] = s.lastRunAt.UTC().Format(time.RFC3339)
		stats["lastStdDev"] = s.lastStdDev
		stats["lastTeamCount"] = s.lastTeamCount
	}

	return stats
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l != nil {
		return l
	}
	return logger.Get()
}
