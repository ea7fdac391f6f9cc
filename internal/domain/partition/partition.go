package partition

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/scoring"
)

// Local-search defaults used when no option overrides them.
const (
	DefaultMaxIterations        = 30
	DefaultConvergenceThreshold = 0.05
)

const (
	minTeams = 2

	starterWeight = 0.9
	benchWeight   = 0.1

	// improvementEpsilon keeps rounding noise from being taken as an improvement.
	improvementEpsilon = 1e-12
)

// Outcome is the result of partitioning a pool.
type Outcome struct {
	Groups       []model.Group
	TeamCount    int
	Iterations   int
	StarterSwaps int
	BenchSwaps   int
	StdDev       float64
	Converged    bool
}

// Partitioner distributes participants into balanced groups.
// It keeps no state between calls and is safe for concurrent use.
type Partitioner struct {
	scorer        scoring.Scorer
	maxIterations int
	convergence   float64
}

// New creates a Partitioner with the reference scorer unless overridden.
func New(opts ...Option) *Partitioner {
	p := &Partitioner{
		scorer:        scoring.NewWeightedScorer(),
		maxIterations: DefaultMaxIterations,
		convergence:   DefaultConvergenceThreshold,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// TeamCount returns the number of groups built from a pool: the number of
// full groups rounded down to an even count, never fewer than two.
func TeamCount(poolSize, groupSize int) int {
	if groupSize < 1 {
		return minTeams
	}
	possible := poolSize / groupSize
	return max(minTeams, possible-possible%2)
}

// Strength weighs the starter average at 90% and the bench average at 10%.
// A group without bench scores zero for the bench part.
func Strength(g model.Group) float64 {
	return strength(g.Starters(), g.Bench())
}

// Partition splits participants into an even number of groups of groupSize
// starters, with any remaining participants spread over the bench.
// The input slice and its participants are not modified.
func (p *Partitioner) Partition(participants []model.Participant, groupSize int) (Outcome, error) {
	if groupSize < 1 {
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidGroupSize, groupSize)
	}
	// Dividing the pool keeps huge group sizes from overflowing.
	if len(participants)/minTeams < groupSize {
		return Outcome{}, fmt.Errorf("%w: have %d, need at least %d for groups of %d",
			ErrInsufficientPlayers, len(participants), uint64(groupSize)*minTeams, groupSize)
	}

	pool := p.rank(participants)
	teamCount := TeamCount(len(pool), groupSize)
	starters := teamCount * groupSize

	teams := seed(pool[:starters], teamCount, groupSize)
	distributeBench(teams, pool[starters:])

	out := p.balance(teams)
	out.TeamCount = teamCount
	out.Groups = finalize(teams, groupSize)
	return out, nil
}

// rank scores private copies of the participants and orders them by score
// descending. Equal scores keep their input order.
func (p *Partitioner) rank(participants []model.Participant) []model.Slot {
	pool := make([]model.Slot, len(participants))
	for i, pt := range participants {
		pool[i] = model.Slot{
			Participant: pt.Clone(),
			Score:       p.scorer.Score(pt),
		}
	}
	slices.SortStableFunc(pool, byScoreDesc)
	return pool
}

func byScoreDesc(a, b model.Slot) int {
	return cmp.Compare(b.Score, a.Score)
}

// team is the working form of a group while the run is in progress.
type team struct {
	starters []model.Slot
	bench    []model.Slot
}

func (t *team) strength() float64 {
	return strength(t.starters, t.bench)
}

func (t *team) total() float64 {
	return sum(t.starters) + sum(t.bench)
}

// seed deals the starter candidates in snake order: forward on even rounds,
// reverse on odd rounds.
func seed(candidates []model.Slot, teamCount, groupSize int) []*team {
	teams := make([]*team, teamCount)
	for i := range teams {
		teams[i] = &team{starters: make([]model.Slot, 0, groupSize)}
	}
	for i, s := range candidates {
		t := teams[snakeIndex(i, teamCount)]
		t.starters = append(t.starters, s)
	}
	return teams
}

func snakeIndex(i, teamCount int) int {
	round, pos := i/teamCount, i%teamCount
	if round%2 == 1 {
		return teamCount - 1 - pos
	}
	return pos
}

// distributeBench hands each remaining participant, best first, to the team
// with the lowest total score at that moment.
func distributeBench(teams []*team, bench []model.Slot) {
	for _, s := range bench {
		s.IsBench = true
		weakest := 0
		lowest := teams[0].total()
		for i := 1; i < len(teams); i++ {
			if total := teams[i].total(); total < lowest {
				weakest, lowest = i, total
			}
		}
		teams[weakest].bench = append(teams[weakest].bench, s)
	}
}

// balance runs the first-improvement hill climb between the strongest and
// weakest team until converged, stuck, or out of iterations.
func (p *Partitioner) balance(teams []*team) Outcome {
	var out Outcome
	strengths := make([]float64, len(teams))

	for out.Iterations < p.maxIterations {
		for i, t := range teams {
			strengths[i] = t.strength()
		}
		current := stdDev(strengths)
		if current < p.convergence {
			break
		}
		out.Iterations++

		hi, lo := extremes(strengths)
		if hi == lo {
			break
		}
		if trySwap(teams, strengths, current, hi, lo, starterSlots) {
			out.StarterSwaps++
			continue
		}
		if trySwap(teams, strengths, current, hi, lo, benchSlots) {
			out.BenchSwaps++
			continue
		}
		break
	}

	for i, t := range teams {
		strengths[i] = t.strength()
	}
	out.StdDev = stdDev(strengths)
	out.Converged = out.StdDev < p.convergence
	return out
}

func starterSlots(t *team) []model.Slot { return t.starters }
func benchSlots(t *team) []model.Slot   { return t.bench }

// trySwap exchanges slots between teams hi and lo in place, keeping the first
// exchange that lowers the strength deviation below current. strengths is
// updated on success and left as it was otherwise.
func trySwap(teams []*team, strengths []float64, current float64, hi, lo int, slots func(*team) []model.Slot) bool {
	a, b := slots(teams[hi]), slots(teams[lo])
	prevHi, prevLo := strengths[hi], strengths[lo]

	for i := range a {
		for j := range b {
			a[i], b[j] = b[j], a[i]
			strengths[hi], strengths[lo] = teams[hi].strength(), teams[lo].strength()
			if stdDev(strengths) < current-improvementEpsilon {
				return true
			}
			a[i], b[j] = b[j], a[i]
		}
	}

	strengths[hi], strengths[lo] = prevHi, prevLo
	return false
}

// finalize orders each team by score and relabels the top groupSize as
// starters and the rest as bench.
func finalize(teams []*team, groupSize int) []model.Group {
	groups := make([]model.Group, len(teams))
	for i, t := range teams {
		slots := make([]model.Slot, 0, len(t.starters)+len(t.bench))
		slots = append(slots, t.starters...)
		slots = append(slots, t.bench...)
		slices.SortStableFunc(slots, byScoreDesc)
		for j := range slots {
			slots[j].IsBench = j >= groupSize
		}

		g := model.Group{Index: i, Slots: slots}
		g.Strength = Strength(g)
		groups[i] = g
	}
	return groups
}

func strength(starters, bench []model.Slot) float64 {
	return starterWeight*mean(starters) + benchWeight*mean(bench)
}

func sum(slots []model.Slot) float64 {
	var total float64
	for _, s := range slots {
		total += s.Score
	}
	return total
}

func mean(slots []model.Slot) float64 {
	if len(slots) == 0 {
		return 0
	}
	return sum(slots) / float64(len(slots))
}

// stdDev returns the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	avg := total / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - avg
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// extremes returns the indexes of the strongest and weakest values. Ties go
// to the lowest index.
func extremes(values []float64) (hi, lo int) {
	for i, v := range values {
		if v > values[hi] {
			hi = i
		}
		if v < values[lo] {
			lo = i
		}
	}
	return hi, lo
}
