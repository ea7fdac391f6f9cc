package scoring_test

import (
	"errors"
	"testing"

	"github.com/okian/matchday/internal/domain/model"
	scoring "github.com/okian/matchday/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func uniform(name string, v float64) model.Participant {
	ratings := make(map[model.Attribute]float64, len(model.Attributes))
	for _, attr := range model.Attributes {
		ratings[attr] = v
	}
	return model.Participant{Name: name, Ratings: ratings, Active: true}
}

func TestScore(t *testing.T) {
	Convey("Given the reference weights", t, func() {
		w := scoring.ReferenceWeights()

		Convey("When every rating is 8", func() {
			p := uniform("ann", 8)

			Convey("Then the score is 8 because the weights sum to one", func() {
				So(scoring.Score(p, w), ShouldAlmostEqual, 8.0, 1e-9)
			})
		})

		Convey("When only scoring is rated", func() {
			p := model.Participant{Name: "bo", Ratings: map[model.Attribute]float64{model.Scoring: 10}}

			Convey("Then missing ratings count as the midpoint", func() {
				// 10*0.25 + 5*0.75
				So(scoring.Score(p, w), ShouldAlmostEqual, 6.25, 1e-9)
			})
		})

		Convey("When the participant has no ratings at all", func() {
			p := model.Participant{Name: "cy"}

			Convey("Then the score is the midpoint", func() {
				So(scoring.Score(p, w), ShouldAlmostEqual, model.MidpointRating, 1e-9)
			})
		})

		Convey("When ratings differ per attribute", func() {
			p := model.Participant{Name: "di", Ratings: map[model.Attribute]float64{
				model.Scoring:     10,
				model.Defense:     2,
				model.Rebounding:  4,
				model.Playmaking:  6,
				model.Stamina:     8,
				model.Physicality: 1,
				model.Intangibles: 9,
			}}

			Convey("Then each rating is multiplied by its weight", func() {
				want := 10*0.25 + 2*0.20 + 4*0.15 + 6*0.15 + 8*0.10 + 1*0.10 + 9*0.05
				So(scoring.Score(p, w), ShouldAlmostEqual, want, 1e-9)
			})

			Convey("And the official preset weighs them differently", func() {
				want := 10*0.30 + 2*0.15 + 4*0.15 + 6*0.10 + 8*0.10 + 1*0.15 + 9*0.05
				So(scoring.Score(p, scoring.OfficialWeights()), ShouldAlmostEqual, want, 1e-9)
			})
		})

		Convey("When scoring does not change the participant", func() {
			p := model.Participant{Name: "ed", Ratings: map[model.Attribute]float64{model.Defense: 3}}
			_ = scoring.Score(p, w)

			Convey("Then no midpoint is written back", func() {
				So(len(p.Ratings), ShouldEqual, 1)
			})
		})
	})
}

func TestWeightedScorer(t *testing.T) {
	Convey("Given a weighted scorer", t, func() {
		Convey("When created with defaults", func() {
			s := scoring.NewWeightedScorer()

			Convey("Then it uses the reference weights", func() {
				So(s.Weights(), ShouldResemble, scoring.ReferenceWeights())
			})
		})

		Convey("When created with custom weights", func() {
			w := model.WeightVector{model.Scoring: 1}
			s := scoring.NewWeightedScorer(scoring.WithWeights(w))
			w[model.Scoring] = 0

			Convey("Then later edits to the caller's map have no effect", func() {
				So(s.Score(uniform("fi", 7)), ShouldEqual, 7.0)
			})
		})

		Convey("When created with empty weights", func() {
			s := scoring.NewWeightedScorer(scoring.WithWeights(model.WeightVector{}))

			Convey("Then the reference weights are kept", func() {
				So(s.Weights(), ShouldResemble, scoring.ReferenceWeights())
			})
		})

		Convey("When a custom midpoint is set", func() {
			s := scoring.NewWeightedScorer(
				scoring.WithWeights(model.WeightVector{model.Stamina: 1}),
				scoring.WithMidpoint(3),
			)

			Convey("Then missing ratings use it", func() {
				So(s.Score(model.Participant{Name: "gu"}), ShouldEqual, 3.0)
			})
		})

		Convey("When an out-of-range midpoint is set", func() {
			s := scoring.NewWeightedScorer(
				scoring.WithWeights(model.WeightVector{model.Stamina: 1}),
				scoring.WithMidpoint(42),
			)

			Convey("Then it is ignored", func() {
				So(s.Score(model.Participant{Name: "ha"}), ShouldEqual, model.MidpointRating)
			})
		})
	})
}

func TestPresets(t *testing.T) {
	Convey("Given the registered presets", t, func() {
		Convey("Then both sum to one", func() {
			So(scoring.ReferenceWeights().Sum(), ShouldAlmostEqual, 1.0, 1e-9)
			So(scoring.OfficialWeights().Sum(), ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("When resolving names", func() {
			ref, err := scoring.Preset("")
			So(err, ShouldBeNil)
			So(ref, ShouldResemble, scoring.ReferenceWeights())

			off, err := scoring.Preset(" Official ")
			So(err, ShouldBeNil)
			So(off, ShouldResemble, scoring.OfficialWeights())

			_, err = scoring.Preset("legacy")
			So(errors.Is(err, scoring.ErrUnknownPreset), ShouldBeTrue)
		})

		Convey("When a returned preset is modified", func() {
			w, _ := scoring.Preset(scoring.PresetReference)
			w[model.Scoring] = 99

			Convey("Then the registry is untouched", func() {
				So(scoring.ReferenceWeights()[model.Scoring], ShouldEqual, 0.25)
			})
		})

		Convey("Then names are listed in order", func() {
			So(scoring.PresetNames(), ShouldResemble, []string{"official", "reference"})
		})
	})
}
