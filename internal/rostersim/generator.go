package rostersim

import (
	"crypto/rand"
	"math"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/matchday/internal/domain/model"
)

const randomFloatDivisor = 1000000

// tier is a band of ratings a generated player is drawn from.
type tier struct {
	min, span float64
}

// Tiers are picked uniformly; average players appear twice so they dominate.
var tiers = []tier{
	{min: 4, span: 3},   // average
	{min: 4, span: 3},   // average
	{min: 6.5, span: 2}, // strong
	{min: 8.5, span: 1.5},
	{min: 2, span: 2.5}, // weak
	{min: 1, span: 9},   // anything
}

// missingChance is the share of attributes left unrated.
const missingChance = 0.1

// getRandomFloat returns a random float64 in [0, 1) using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// GenerateParticipants creates n active participants with unique names.
// Each player draws a tier and rates every attribute within it, rounded to
// half points. A few attributes are left out so the midpoint default is used.
func GenerateParticipants(n int) []model.Participant {
	out := make([]model.Participant, n)
	for i := range out {
		t := tiers[randomIndex(len(tiers))]
		ratings := make(map[model.Attribute]float64, len(model.Attributes))
		for _, attr := range model.Attributes {
			if getRandomFloat() < missingChance {
				continue
			}
			ratings[attr] = clampRating(math.Round((t.min+getRandomFloat()*t.span)*2) / 2)
		}
		out[i] = model.Participant{
			Name:    "player-" + uuid.NewString()[:8],
			Ratings: ratings,
			Active:  true,
		}
	}
	return out
}

func clampRating(v float64) float64 {
	return math.Min(model.MaxRating, math.Max(model.MinRating, v))
}
