package partition_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/partition"
	"github.com/okian/matchday/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// scoringOnly makes a participant's score equal to its scoring rating.
var scoringOnly = scoring.NewWeightedScorer(scoring.WithWeights(model.WeightVector{model.Scoring: 1}))

func pool(scores ...float64) []model.Participant {
	out := make([]model.Participant, len(scores))
	for i, s := range scores {
		out[i] = model.Participant{
			Name:    fmt.Sprintf("p%02d", i),
			Ratings: map[model.Attribute]float64{model.Scoring: s},
			Active:  true,
		}
	}
	return out
}

func scoresOf(slots []model.Slot) []float64 {
	out := make([]float64, len(slots))
	for i, s := range slots {
		out[i] = s.Score
	}
	return out
}

func randomPool(rng *rand.Rand, n int) []model.Participant {
	out := make([]model.Participant, n)
	for i := range out {
		ratings := make(map[model.Attribute]float64, len(model.Attributes))
		for _, attr := range model.Attributes {
			// Leave some attributes out to exercise midpoint substitution.
			if rng.Intn(10) == 0 {
				continue
			}
			ratings[attr] = float64(1 + rng.Intn(10))
		}
		out[i] = model.Participant{Name: fmt.Sprintf("r%03d", i), Ratings: ratings, Active: true}
	}
	return out
}

func TestDefaults(t *testing.T) {
	Convey("Given the local-search defaults", t, func() {
		So(partition.DefaultMaxIterations, ShouldEqual, 30)
		So(partition.DefaultConvergenceThreshold, ShouldEqual, 0.05)
	})
}

func TestTeamCount(t *testing.T) {
	Convey("Given pool and group sizes", t, func() {
		So(partition.TeamCount(8, 2), ShouldEqual, 4)
		So(partition.TeamCount(5, 2), ShouldEqual, 2)
		So(partition.TeamCount(10, 2), ShouldEqual, 4)
		So(partition.TeamCount(15, 5), ShouldEqual, 2)
		So(partition.TeamCount(23, 5), ShouldEqual, 4)
		So(partition.TeamCount(4, 3), ShouldEqual, 2)
		So(partition.TeamCount(0, 0), ShouldEqual, 2)
	})
}

func TestPartition_Errors(t *testing.T) {
	Convey("Given a partitioner", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly))

		Convey("When the pool cannot fill two groups", func() {
			_, err := p.Partition(pool(9, 8, 7), 2)

			Convey("Then it reports insufficient players", func() {
				So(errors.Is(err, partition.ErrInsufficientPlayers), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "need at least 4")
			})
		})

		Convey("When the pool is empty", func() {
			_, err := p.Partition(nil, 1)
			So(errors.Is(err, partition.ErrInsufficientPlayers), ShouldBeTrue)
		})

		Convey("When the group size is too large to double", func() {
			_, err := p.Partition(pool(9, 8), 1<<62)

			Convey("Then it reports insufficient players instead of panicking", func() {
				So(errors.Is(err, partition.ErrInsufficientPlayers), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "need at least 9223372036854775808")
			})
		})

		Convey("When the pool is one short of two groups", func() {
			_, err := p.Partition(pool(9, 8, 7, 6, 5), 3)
			So(errors.Is(err, partition.ErrInsufficientPlayers), ShouldBeTrue)
		})

		Convey("When the group size is zero", func() {
			_, err := p.Partition(pool(9, 8, 7, 6), 0)
			So(errors.Is(err, partition.ErrInvalidGroupSize), ShouldBeTrue)
		})
	})
}

func TestPartition_SnakeDraft(t *testing.T) {
	Convey("Given eight participants scored 10 down to 3 and groups of two", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly))
		out, err := p.Partition(pool(10, 9, 8, 7, 6, 5, 4, 3), 2)
		So(err, ShouldBeNil)

		Convey("Then four groups are seeded in snake order", func() {
			So(out.TeamCount, ShouldEqual, 4)
			So(len(out.Groups), ShouldEqual, 4)
			So(scoresOf(out.Groups[0].Slots), ShouldResemble, []float64{10, 3})
			So(scoresOf(out.Groups[1].Slots), ShouldResemble, []float64{9, 4})
			So(scoresOf(out.Groups[2].Slots), ShouldResemble, []float64{8, 5})
			So(scoresOf(out.Groups[3].Slots), ShouldResemble, []float64{7, 6})
		})

		Convey("And the groups are perfectly balanced without any swap", func() {
			for _, g := range out.Groups {
				So(g.Strength, ShouldAlmostEqual, out.Groups[0].Strength, 1e-12)
				So(len(g.Bench()), ShouldEqual, 0)
			}
			So(out.StdDev, ShouldAlmostEqual, 0, 1e-12)
			So(out.Iterations, ShouldEqual, 0)
			So(out.StarterSwaps+out.BenchSwaps, ShouldEqual, 0)
			So(out.Converged, ShouldBeTrue)
		})
	})
}

func TestPartition_Bench(t *testing.T) {
	Convey("Given five participants and groups of two", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly))
		out, err := p.Partition(pool(10, 8, 6, 5, 1), 2)
		So(err, ShouldBeNil)

		Convey("Then two groups are formed", func() {
			So(len(out.Groups), ShouldEqual, 2)
			So(scoresOf(out.Groups[0].Starters()), ShouldResemble, []float64{10, 5})
			So(scoresOf(out.Groups[1].Starters()), ShouldResemble, []float64{8, 6})
		})

		Convey("And the bench player joins the group with the lower total", func() {
			So(len(out.Groups[0].Bench()), ShouldEqual, 0)
			So(scoresOf(out.Groups[1].Bench()), ShouldResemble, []float64{1})
		})

		Convey("And strength weighs starters at 90% and bench at 10%", func() {
			So(out.Groups[0].Strength, ShouldAlmostEqual, 0.9*7.5, 1e-9)
			So(out.Groups[1].Strength, ShouldAlmostEqual, 0.9*7+0.1*1, 1e-9)
		})

		Convey("And the search stops when no swap helps", func() {
			So(out.Iterations, ShouldEqual, 1)
			So(out.StarterSwaps, ShouldEqual, 0)
			So(out.BenchSwaps, ShouldEqual, 0)
			So(out.Converged, ShouldBeFalse)
		})
	})

	Convey("Given ten participants, groups of two and the search disabled", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly), partition.WithMaxIterations(0))
		out, err := p.Partition(pool(10, 9, 8, 7, 6, 5, 4, 3, 2, 1), 2)
		So(err, ShouldBeNil)

		Convey("Then the group count is rounded down to four", func() {
			So(len(out.Groups), ShouldEqual, 4)
			for _, g := range out.Groups {
				So(len(g.Starters()), ShouldEqual, 2)
			}
		})

		Convey("And tied totals send each bench player to the lowest index", func() {
			So(scoresOf(out.Groups[0].Bench()), ShouldResemble, []float64{2})
			So(scoresOf(out.Groups[1].Bench()), ShouldResemble, []float64{1})
			So(len(out.Groups[2].Bench()), ShouldEqual, 0)
			So(len(out.Groups[3].Bench()), ShouldEqual, 0)
		})
	})
}

func TestPartition_LocalSearch(t *testing.T) {
	Convey("Given six participants where the snake draft is lopsided", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly))
		out, err := p.Partition(pool(10, 9, 8, 7, 6, 1), 3)
		So(err, ShouldBeNil)

		Convey("Then first-improvement starter swaps narrow the gap", func() {
			So(out.StarterSwaps, ShouldEqual, 2)
			So(out.BenchSwaps, ShouldEqual, 0)
			So(out.Iterations, ShouldEqual, 3)
			So(out.Groups[0].TotalScore(), ShouldEqual, 21.0)
			So(out.Groups[1].TotalScore(), ShouldEqual, 20.0)
			So(out.StdDev, ShouldAlmostEqual, 0.15, 1e-9)
		})
	})

	Convey("Given a pool whose starters are level but whose bench is not", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly))
		out, err := p.Partition(pool(10, 9, 8, 7, 6, 5, 4), 2)
		So(err, ShouldBeNil)

		Convey("Then a single bench exchange evens the groups", func() {
			So(out.StarterSwaps, ShouldEqual, 0)
			So(out.BenchSwaps, ShouldEqual, 1)
			So(out.Iterations, ShouldEqual, 1)
			So(out.Groups[0].TotalScore(), ShouldEqual, 22.0)
			So(out.Groups[1].TotalScore(), ShouldEqual, 27.0)
			So(out.Groups[0].Strength, ShouldAlmostEqual, 0.9*8.5+0.1*5, 1e-9)
			So(out.Groups[1].Strength, ShouldAlmostEqual, 0.9*8.5+0.1*5, 1e-9)
			So(out.StdDev, ShouldAlmostEqual, 0, 1e-12)
			So(out.Converged, ShouldBeTrue)
		})

		Convey("And finalization relabels starters and bench by score", func() {
			So(scoresOf(out.Groups[0].Starters()), ShouldResemble, []float64{10, 7})
			So(scoresOf(out.Groups[0].Bench()), ShouldResemble, []float64{5})
			So(scoresOf(out.Groups[1].Starters()), ShouldResemble, []float64{9, 8})
			So(scoresOf(out.Groups[1].Bench()), ShouldResemble, []float64{6, 4})
			for _, g := range out.Groups {
				for i, s := range g.Slots {
					So(s.IsBench, ShouldEqual, i >= 2)
				}
			}
		})
	})

	Convey("Given the same bench pool with the search disabled", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly), partition.WithMaxIterations(0))
		out, err := p.Partition(pool(10, 9, 8, 7, 6, 5, 4), 2)
		So(err, ShouldBeNil)

		Convey("Then the bench stays where the greedy pass put it", func() {
			So(scoresOf(out.Groups[0].Bench()), ShouldResemble, []float64{6})
			So(scoresOf(out.Groups[1].Bench()), ShouldResemble, []float64{5, 4})
			So(out.StdDev, ShouldAlmostEqual, 0.075, 1e-9)
			So(out.Converged, ShouldBeFalse)
		})
	})

	Convey("Given the same pool with the search disabled", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly), partition.WithMaxIterations(0))
		out, err := p.Partition(pool(10, 9, 8, 7, 6, 1), 3)
		So(err, ShouldBeNil)

		Convey("Then the snake draft is returned untouched", func() {
			So(scoresOf(out.Groups[0].Slots), ShouldResemble, []float64{10, 7, 6})
			So(scoresOf(out.Groups[1].Slots), ShouldResemble, []float64{9, 8, 1})
			So(out.Iterations, ShouldEqual, 0)
		})
	})

	Convey("Given a loose convergence threshold", t, func() {
		p := partition.New(partition.WithScorer(scoringOnly), partition.WithConvergenceThreshold(1))
		out, err := p.Partition(pool(10, 9, 8, 7, 6, 1), 3)
		So(err, ShouldBeNil)

		Convey("Then the search stops before swapping", func() {
			So(out.Iterations, ShouldEqual, 0)
			So(out.Converged, ShouldBeTrue)
		})
	})
}

func TestPartition_Invariants(t *testing.T) {
	Convey("Given random pools", t, func() {
		rng := rand.New(rand.NewSource(7))
		p := partition.New()

		for round := 0; round < 40; round++ {
			n := 2 + rng.Intn(40)
			groupSize := 1 + rng.Intn(6)
			participants := randomPool(rng, n)

			out, err := p.Partition(participants, groupSize)
			if n < 2*groupSize {
				So(errors.Is(err, partition.ErrInsufficientPlayers), ShouldBeTrue)
				continue
			}
			So(err, ShouldBeNil)

			So(len(out.Groups), ShouldBeGreaterThanOrEqualTo, 2)
			So(len(out.Groups)%2, ShouldEqual, 0)
			So(out.Iterations, ShouldBeLessThanOrEqualTo, 30)

			seen := make(map[string]int)
			total := 0
			for _, g := range out.Groups {
				So(len(g.Starters()), ShouldBeLessThanOrEqualTo, groupSize)
				for i, s := range g.Slots {
					seen[s.Participant.Name]++
					if i > 0 {
						So(s.Score, ShouldBeLessThanOrEqualTo, g.Slots[i-1].Score)
					}
				}
				total += g.Len()
			}
			So(total, ShouldEqual, n)
			So(len(seen), ShouldEqual, n)
			for _, count := range seen {
				So(count, ShouldEqual, 1)
			}

			again, err := p.Partition(participants, groupSize)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, out)
		}
	})
}

func TestPartition_DoesNotMutateInput(t *testing.T) {
	Convey("Given a caller-owned pool", t, func() {
		participants := pool(3, 9, 1, 7, 5, 8)
		participants[0].Ratings = map[model.Attribute]float64{model.Scoring: 3}

		p := partition.New(partition.WithScorer(scoringOnly))
		out, err := p.Partition(participants, 2)
		So(err, ShouldBeNil)

		Convey("Then the input order and ratings are unchanged", func() {
			So(participants[0].Name, ShouldEqual, "p00")
			So(participants[1].Name, ShouldEqual, "p01")
			So(len(participants[0].Ratings), ShouldEqual, 1)
		})

		Convey("And result ratings do not alias the input", func() {
			for _, g := range out.Groups {
				for _, s := range g.Slots {
					s.Participant.Ratings[model.Defense] = 1
				}
			}
			for _, pt := range participants {
				_, ok := pt.Ratings[model.Defense]
				So(ok, ShouldBeFalse)
			}
		})
	})
}
