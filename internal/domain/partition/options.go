// Package partition splits a pool of participants into balanced groups.
package partition

import "github.com/okian/matchday/internal/domain/scoring"

// Option applies a configuration option to the Partitioner.
type Option func(*Partitioner)

// WithScorer sets the scorer used to rank participants.
func WithScorer(s scoring.Scorer) Option {
	return func(p *Partitioner) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithMaxIterations caps the number of local-search rounds.
func WithMaxIterations(n int) Option {
	return func(p *Partitioner) {
		if n >= 0 {
			p.maxIterations = n
		}
	}
}

// WithConvergenceThreshold sets the strength standard deviation below which
// the local search stops early.
func WithConvergenceThreshold(threshold float64) Option {
	return func(p *Partitioner) {
		if threshold >= 0 {
			p.convergence = threshold
		}
	}
}
