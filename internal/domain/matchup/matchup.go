// Package matchup pairs groups into head-to-head matchups of similar strength.
package matchup

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/matchday/internal/domain/model"
)

// StrengthFunc rates a group. Higher is stronger.
type StrengthFunc func(model.Group) float64

// Pairing is the output of Pair. Unpaired is set only for an odd group count.
type Pairing struct {
	Matchups []model.Matchup
	Unpaired *model.Group
}

type rated struct {
	group    model.Group
	strength float64
}

// Pair matches groups by strength. Exactly four groups are matched by trying
// all three pairings and keeping the one with the smallest summed
// differential; any other count is matched greedily, strongest first, each
// with its nearest remaining rival. The input slice is not modified.
func Pair(groups []model.Group, strength StrengthFunc) Pairing {
	pool := make([]rated, len(groups))
	for i, g := range groups {
		pool[i] = rated{group: g, strength: strength(g)}
	}
	slices.SortStableFunc(pool, func(a, b rated) int {
		return cmp.Compare(b.strength, a.strength)
	})

	if len(pool) == 4 {
		return Pairing{Matchups: pairFour(pool)}
	}
	return pairGreedy(pool)
}

// fourWay lists the three perfect matchings of four sorted entries.
var fourWay = [3][2][2]int{
	{{0, 1}, {2, 3}},
	{{0, 2}, {1, 3}},
	{{0, 3}, {1, 2}},
}

func pairFour(pool []rated) []model.Matchup {
	best, bestTotal := 0, math.Inf(1)
	for i, option := range fourWay {
		var total float64
		for _, pair := range option {
			total += math.Abs(pool[pair[0]].strength - pool[pair[1]].strength)
		}
		if total < bestTotal {
			best, bestTotal = i, total
		}
	}

	out := make([]model.Matchup, 0, 2)
	for _, pair := range fourWay[best] {
		out = append(out, newMatchup(pool[pair[0]], pool[pair[1]]))
	}
	return out
}

func pairGreedy(pool []rated) Pairing {
	var p Pairing
	remaining := slices.Clone(pool)
	for len(remaining) >= 2 {
		top := remaining[0]
		nearest := 1
		for j := 2; j < len(remaining); j++ {
			if math.Abs(top.strength-remaining[j].strength) < math.Abs(top.strength-remaining[nearest].strength) {
				nearest = j
			}
		}
		p.Matchups = append(p.Matchups, newMatchup(top, remaining[nearest]))
		remaining = slices.Delete(remaining, nearest, nearest+1)
		remaining = remaining[1:]
	}
	if len(remaining) == 1 {
		g := remaining[0].group
		p.Unpaired = &g
	}
	return p
}

// newMatchup builds a matchup with the stronger group as home.
func newMatchup(a, b rated) model.Matchup {
	if b.strength > a.strength {
		a, b = b, a
	}
	return model.Matchup{
		Home:         a.group,
		Away:         b.group,
		Differential: a.strength - b.strength,
	}
}
