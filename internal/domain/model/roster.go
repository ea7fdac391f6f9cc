package model

// Slot is a participant placed in a group for the duration of one run.
type Slot struct {
	Participant Participant `json:"participant"`
	Score       float64     `json:"score"`
	IsBench     bool        `json:"is_bench"`
}

// Group is one team produced by a run. Slots are ordered by score descending.
type Group struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Slots    []Slot  `json:"slots"`
	Strength float64 `json:"strength"`
}

// Starters returns the non-bench slots in order.
func (g Group) Starters() []Slot {
	out := make([]Slot, 0, len(g.Slots))
	for _, s := range g.Slots {
		if !s.IsBench {
			out = append(out, s)
		}
	}
	return out
}

// Bench returns the bench slots in order.
func (g Group) Bench() []Slot {
	out := make([]Slot, 0, len(g.Slots))
	for _, s := range g.Slots {
		if s.IsBench {
			out = append(out, s)
		}
	}
	return out
}

// TotalScore sums every slot score, starters and bench alike.
func (g Group) TotalScore() float64 {
	var total float64
	for _, s := range g.Slots {
		total += s.Score
	}
	return total
}

// Len returns the number of participants in the group.
func (g Group) Len() int { return len(g.Slots) }

// Matchup pairs two groups head to head. Home is the stronger side.
type Matchup struct {
	Home         Group   `json:"home"`
	Away         Group   `json:"away"`
	Differential float64 `json:"differential"`
}

// Diagnostics describes how a run went.
type Diagnostics struct {
	TeamCount    int     `json:"team_count"`
	Iterations   int     `json:"iterations"`
	StarterSwaps int     `json:"starter_swaps"`
	BenchSwaps   int     `json:"bench_swaps"`
	StdDev       float64 `json:"std_dev"`
	Converged    bool    `json:"converged"`
}

// Result is the output of one balancing run.
type Result struct {
	Groups      []Group     `json:"groups"`
	Matchups    []Matchup   `json:"matchups"`
	Unpaired    *Group      `json:"unpaired_group,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}
