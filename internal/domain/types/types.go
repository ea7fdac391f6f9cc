// Package types contains the JSON wire shapes shared by the HTTP API and its clients.
package types

import (
	"strings"

	"github.com/okian/matchday/internal/domain/model"
)

// ParticipantInput is a participant as submitted over the wire.
// Active is a pointer so an omitted flag can be told apart from false.
type ParticipantInput struct {
	Name    string             `json:"name"`
	Ratings map[string]float64 `json:"ratings"`
	Active  *bool              `json:"active,omitempty"`
}

// IsActive reports whether the participant should take part. Only an
// explicit false excludes it.
func (p ParticipantInput) IsActive() bool {
	return p.Active == nil || *p.Active
}

// ToModel converts the input into a domain participant. Attribute keys are
// lower-cased; validation is left to model.Participant.Validate.
func (p ParticipantInput) ToModel() model.Participant {
	ratings := make(map[model.Attribute]float64, len(p.Ratings))
	for k, v := range p.Ratings {
		ratings[model.Attribute(strings.ToLower(strings.TrimSpace(k)))] = v
	}
	return model.Participant{
		Name:    strings.TrimSpace(p.Name),
		Ratings: ratings,
		Active:  p.IsActive(),
	}
}

// FromParticipant converts a domain participant into its wire form.
func FromParticipant(p model.Participant) ParticipantInput {
	ratings := make(map[string]float64, len(p.Ratings))
	for k, v := range p.Ratings {
		ratings[string(k)] = v
	}
	active := p.Active
	return ParticipantInput{Name: p.Name, Ratings: ratings, Active: &active}
}

// BalanceRequest is the body of POST /balance.
type BalanceRequest struct {
	Participants []ParticipantInput `json:"participants"`
	GroupSize    int                `json:"group_size,omitempty"`
	Weights      map[string]float64 `json:"weights,omitempty"`
	Preset       string             `json:"preset,omitempty"`
}

// WeightVector converts the request weights, or nil when none were sent.
func (r BalanceRequest) WeightVector() model.WeightVector {
	if len(r.Weights) == 0 {
		return nil
	}
	w := make(model.WeightVector, len(r.Weights))
	for k, v := range r.Weights {
		w[model.Attribute(strings.ToLower(strings.TrimSpace(k)))] = v
	}
	return w
}

// BalanceResponse is the body returned by a successful POST /balance.
type BalanceResponse struct {
	RunID       string            `json:"run_id"`
	Groups      []model.Group     `json:"groups"`
	Matchups    []model.Matchup   `json:"matchups"`
	Unpaired    *model.Group      `json:"unpaired_group,omitempty"`
	Diagnostics model.Diagnostics `json:"diagnostics"`
}

// NewBalanceResponse wraps a run result with its id.
func NewBalanceResponse(runID string, r model.Result) BalanceResponse {
	return BalanceResponse{
		RunID:       runID,
		Groups:      r.Groups,
		Matchups:    r.Matchups,
		Unpaired:    r.Unpaired,
		Diagnostics: r.Diagnostics,
	}
}

// PresetsResponse is the body of GET /presets.
type PresetsResponse struct {
	Default string                        `json:"default"`
	Presets map[string]map[string]float64 `json:"presets"`
}

// BalanceInput is one balancing request in domain terms.
type BalanceInput struct {
	Participants []model.Participant
	// GroupSize falls back to the configured default when zero.
	GroupSize int
	// Weights wins over Preset when both are set.
	Weights model.WeightVector
	Preset  string
}
