// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"strings"
)

// Attribute names one of the seven rated skills of a participant.
type Attribute string

// Rated attributes.
const (
	Scoring     Attribute = "scoring"
	Defense     Attribute = "defense"
	Rebounding  Attribute = "rebounding"
	Playmaking  Attribute = "playmaking"
	Stamina     Attribute = "stamina"
	Physicality Attribute = "physicality"
	Intangibles Attribute = "intangibles"
)

// Attributes lists every rated attribute in a fixed order. Score sums iterate
// this slice so results do not depend on map iteration order.
var Attributes = [...]Attribute{
	Scoring,
	Defense,
	Rebounding,
	Playmaking,
	Stamina,
	Physicality,
	Intangibles,
}

// Rating bounds.
const (
	MinRating      = 1.0
	MaxRating      = 10.0
	MidpointRating = 5.0
)

// MaxWeight bounds a single attribute weight so scores and their spread stay finite.
const MaxWeight = 1e6

// Validation errors.
var (
	ErrEmptyName        = errors.New("participant name is empty")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrRatingOutOfRange = errors.New("rating out of range")
	ErrNegativeWeight   = errors.New("negative weight")
	ErrWeightOutOfRange = errors.New("weight out of range")
)

// Known reports whether a is one of the rated attributes.
func (a Attribute) Known() bool {
	for _, known := range Attributes {
		if a == known {
			return true
		}
	}
	return false
}

// Participant is a rated player submitted for assignment.
type Participant struct {
	Name    string                `json:"name"`
	Ratings map[Attribute]float64 `json:"ratings"`
	Active  bool                  `json:"active"`
}

// Rating returns the rating for attr and whether it was present.
func (p Participant) Rating(attr Attribute) (float64, bool) {
	v, ok := p.Ratings[attr]
	return v, ok
}

// Clone returns a copy of p that shares no memory with it.
func (p Participant) Clone() Participant {
	p.Ratings = maps.Clone(p.Ratings)
	return p
}

// Validate checks the name and rating bounds. Missing attributes are allowed.
func (p Participant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	for attr, v := range p.Ratings {
		if !attr.Known() {
			return fmt.Errorf("%s: %w %q", p.Name, ErrUnknownAttribute, attr)
		}
		if math.IsNaN(v) || v < MinRating || v > MaxRating {
			return fmt.Errorf("%s: %w: %s=%g", p.Name, ErrRatingOutOfRange, attr, v)
		}
	}
	return nil
}

// WeightVector maps each attribute to a non-negative weight. Weights are
// expected to sum to 1.0 but this is not enforced.
type WeightVector map[Attribute]float64

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	var total float64
	for _, attr := range Attributes {
		total += w[attr]
	}
	return total
}

// Clone returns an independent copy of w.
func (w WeightVector) Clone() WeightVector {
	return maps.Clone(w)
}

// Validate rejects unknown attributes, negative weights, and weights that
// are not finite or exceed MaxWeight.
func (w WeightVector) Validate() error {
	for attr, v := range w {
		if !attr.Known() {
			return fmt.Errorf("%w %q", ErrUnknownAttribute, attr)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s=%g", ErrNegativeWeight, attr, v)
		}
		if math.IsNaN(v) || v > MaxWeight {
			return fmt.Errorf("%w: %s=%g, max %g", ErrWeightOutOfRange, attr, v, MaxWeight)
		}
	}
	return nil
}
