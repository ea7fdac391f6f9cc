package rostersim

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/matchday/internal/domain/types"
)

// Verification errors.
var (
	ErrPlayerMissing    = errors.New("player missing from every group")
	ErrPlayerRepeated   = errors.New("player placed more than once")
	ErrUnexpectedPlayer = errors.New("unexpected player in result")
	ErrGroupReused      = errors.New("group appears in more than one matchup")
	ErrGroupUnmatched   = errors.New("group neither matched nor reported unpaired")
)

// verifyResult checks that every submitted name lands in exactly one group
// and every group is used by at most one matchup.
func verifyResult(submitted []string, resp types.BalanceResponse) error {
	want := make(map[string]bool, len(submitted))
	for _, name := range submitted {
		want[name] = true
	}

	placed := make(map[string]int, len(submitted))
	for _, g := range resp.Groups {
		for _, s := range g.Slots {
			name := s.Participant.Name
			if !want[name] {
				return fmt.Errorf("%w: %s", ErrUnexpectedPlayer, name)
			}
			placed[name]++
			if placed[name] > 1 {
				return fmt.Errorf("%w: %s", ErrPlayerRepeated, name)
			}
		}
	}
	for _, name := range submitted {
		if placed[name] == 0 {
			return fmt.Errorf("%w: %s", ErrPlayerMissing, name)
		}
	}

	used := make(map[int]int, len(resp.Groups))
	for _, m := range resp.Matchups {
		used[m.Home.Index]++
		used[m.Away.Index]++
	}
	if resp.Unpaired != nil {
		used[resp.Unpaired.Index]++
	}
	for _, g := range resp.Groups {
		switch used[g.Index] {
		case 1:
		case 0:
			return fmt.Errorf("%w: %s", ErrGroupUnmatched, g.Name)
		default:
			return fmt.Errorf("%w: %s", ErrGroupReused, g.Name)
		}
	}
	return nil
}

// maxGap returns the largest strength difference within a matchup.
func maxGap(resp types.BalanceResponse) float64 {
	var gap float64
	for _, m := range resp.Matchups {
		gap = math.Max(gap, m.Differential)
	}
	return gap
}
