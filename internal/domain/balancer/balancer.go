// Package balancer runs the scoring, partitioning and matchmaking stages
// that turn a pool of rated participants into balanced matchups.
package balancer

import (
	"fmt"
	"strings"

	"github.com/okian/matchday/internal/domain/matchup"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/partition"
	"github.com/okian/matchday/internal/domain/scoring"
)

// Request is the input of one balancing run.
type Request struct {
	Participants []model.Participant
	GroupSize    int
	// Weights overrides the default weight vector when non-empty.
	Weights model.WeightVector
}

// Option applies a configuration option to the Balancer.
type Option func(*Balancer)

// WithDefaultWeights sets the vector used when a request carries none.
func WithDefaultWeights(w model.WeightVector) Option {
	return func(b *Balancer) {
		if len(w) > 0 {
			b.defaultWeights = w.Clone()
		}
	}
}

// WithMaxIterations caps the local-search rounds of each run.
func WithMaxIterations(n int) Option {
	return func(b *Balancer) {
		if n >= 0 {
			b.maxIterations = n
		}
	}
}

// WithConvergenceThreshold sets the strength deviation that ends the search early.
func WithConvergenceThreshold(threshold float64) Option {
	return func(b *Balancer) {
		if threshold >= 0 {
			b.convergence = threshold
		}
	}
}

// Balancer is stateless between runs and safe for concurrent use.
type Balancer struct {
	defaultWeights model.WeightVector
	maxIterations  int
	convergence    float64
}

// New creates a Balancer using the reference weights by default.
func New(opts ...Option) *Balancer {
	b := &Balancer{
		defaultWeights: scoring.ReferenceWeights(),
		maxIterations:  partition.DefaultMaxIterations,
		convergence:    partition.DefaultConvergenceThreshold,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// DefaultWeights returns a copy of the vector used for requests without weights.
func (b *Balancer) DefaultWeights() model.WeightVector {
	return b.defaultWeights.Clone()
}

// Balance scores the pool, partitions it into groups and pairs the groups.
// The only failure for a valid group size is partition.ErrInsufficientPlayers.
func (b *Balancer) Balance(req Request) (model.Result, error) {
	weights := b.defaultWeights
	if len(req.Weights) > 0 {
		weights = req.Weights
	}

	p := partition.New(
		partition.WithScorer(scoring.NewWeightedScorer(scoring.WithWeights(weights))),
		partition.WithMaxIterations(b.maxIterations),
		partition.WithConvergenceThreshold(b.convergence),
	)
	out, err := p.Partition(req.Participants, req.GroupSize)
	if err != nil {
		return model.Result{}, fmt.Errorf("partition: %w", err)
	}

	groups := labelGroups(out.Groups)
	pairing := matchup.Pair(groups, partition.Strength)

	return model.Result{
		Groups:   groups,
		Matchups: pairing.Matchups,
		Unpaired: pairing.Unpaired,
		Diagnostics: model.Diagnostics{
			TeamCount:    out.TeamCount,
			Iterations:   out.Iterations,
			StarterSwaps: out.StarterSwaps,
			BenchSwaps:   out.BenchSwaps,
			StdDev:       out.StdDev,
			Converged:    out.Converged,
		},
	}, nil
}

// labelGroups names each group after its top starter. Repeated names get a
// numeric suffix; the counts live only for this call.
func labelGroups(groups []model.Group) []model.Group {
	used := make(map[string]int, len(groups))
	for i := range groups {
		base := fmt.Sprintf("Team %d", i+1)
		if len(groups[i].Slots) > 0 {
			if top := strings.TrimSpace(groups[i].Slots[0].Participant.Name); top != "" {
				base = "Team " + top
			}
		}
		used[base]++
		name := base
		if n := used[base]; n > 1 {
			name = fmt.Sprintf("%s (%d)", base, n)
		}
		groups[i].Name = name
	}
	return groups
}
