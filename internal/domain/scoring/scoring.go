// Package scoring computes a scalar strength score from participant ratings.
package scoring

import (
	"github.com/okian/matchday/internal/domain/model"
)

// Scorer computes the strength score of a participant.
type Scorer interface {
	Score(p model.Participant) float64
}

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithWeights sets the weight vector. Empty vectors are ignored.
func WithWeights(w model.WeightVector) Option {
	return func(s *WeightedScorer) {
		if len(w) > 0 {
			// Copy to avoid external modifications
			s.weights = w.Clone()
		}
	}
}

// WithMidpoint sets the rating substituted for a missing attribute.
func WithMidpoint(m float64) Option {
	return func(s *WeightedScorer) {
		if m >= model.MinRating && m <= model.MaxRating {
			s.midpoint = m
		}
	}
}

// WeightedScorer implements Scorer as a weighted sum of ratings.
type WeightedScorer struct {
	weights  model.WeightVector
	midpoint float64
}

// NewWeightedScorer creates a scorer using the reference weights unless
// overridden by options.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		weights:  ReferenceWeights(),
		midpoint: model.MidpointRating,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score returns Σ rating × weight. A missing rating counts as the midpoint.
func (s *WeightedScorer) Score(p model.Participant) float64 {
	return weightedSum(p, s.weights, s.midpoint)
}

// Weights returns a copy of the scorer's weight vector.
func (s *WeightedScorer) Weights() model.WeightVector {
	return s.weights.Clone()
}

// Score computes the weighted score of p under w, substituting the default
// midpoint for missing ratings.
func Score(p model.Participant, w model.WeightVector) float64 {
	return weightedSum(p, w, model.MidpointRating)
}

func weightedSum(p model.Participant, w model.WeightVector, midpoint float64) float64 {
	var total float64
	for _, attr := range model.Attributes {
		v, ok := p.Ratings[attr]
		if !ok {
			v = midpoint
		}
		total += v * w[attr]
	}
	return total
}
