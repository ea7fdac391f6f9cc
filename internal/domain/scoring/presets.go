package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/matchday/internal/domain/model"
)

// Preset names.
const (
	PresetReference = "reference"
	PresetOfficial  = "official"
)

// ErrUnknownPreset is returned for preset names that are not registered.
var ErrUnknownPreset = errors.New("unknown weight preset")

// ReferenceWeights is the default vector used by the team generator.
func ReferenceWeights() model.WeightVector {
	return model.WeightVector{
		model.Scoring:     0.25,
		model.Defense:     0.20,
		model.Rebounding:  0.15,
		model.Playmaking:  0.15,
		model.Stamina:     0.10,
		model.Physicality: 0.10,
		model.Intangibles: 0.05,
	}
}

// OfficialWeights is the vector used for the published player rating.
func OfficialWeights() model.WeightVector {
	return model.WeightVector{
		model.Scoring:     0.30,
		model.Defense:     0.15,
		model.Rebounding:  0.15,
		model.Playmaking:  0.10,
		model.Stamina:     0.10,
		model.Physicality: 0.15,
		model.Intangibles: 0.05,
	}
}

var presets = map[string]func() model.WeightVector{
	PresetReference: ReferenceWeights,
	PresetOfficial:  OfficialWeights,
}

// Preset returns a fresh copy of the named weight vector. Names are matched
// case-insensitively; an empty name selects the reference preset.
func Preset(name string) (model.WeightVector, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = PresetReference
	}
	fn, ok := presets[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return fn(), nil
}

// PresetNames returns the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
