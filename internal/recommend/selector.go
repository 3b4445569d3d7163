package recommend

import "github.com/yungbote/threepicks-backend/internal/types"

// PickTieredThree runs the three sequential greedy picks — Popular, Acclaimed,
// Wildcard — each maximizing its tier score minus the feedback penalty, with
// the diversity term pulling later tiers away from earlier picks (weighted
// 1.5x on the wildcard tier, whose whole point is to diverge). If any tier
// comes up short the remaining slots are backfilled from the global ranking.
// Output preserves tier order; the first pick is the highlight.
//
// Ties resolve to the first maximal candidate in input order, so the result
// is deterministic for a fixed candidate list.
func PickTieredThree(candidates []types.Movie, state types.UserState, feedback []*types.FeedbackEntry) []types.Movie {
	if len(candidates) == 0 {
		return nil
	}

	penalties := ComputePenalties(feedback, state)
	moodKey := DetectMoodKey(state.MoodText)

	available := make([]types.Movie, len(candidates))
	copy(available, candidates)

	var picks []types.Movie

	popular, ok := pickBest(available, func(m types.Movie) float64 {
		return PopularScore(m) - PenaltyScore(m, penalties)
	})
	if ok {
		picks = append(picks, popular)
		available = removeByID(available, popular.ID)
	}

	acclaimed, ok := pickBest(available, func(m types.Movie) float64 {
		return AcclaimedScore(m) + DiversityScore(m, picks) - PenaltyScore(m, penalties)
	})
	if ok {
		picks = append(picks, acclaimed)
		available = removeByID(available, acclaimed.ID)
	}

	wildcard, ok := pickBest(available, func(m types.Movie) float64 {
		return WildcardScore(m, moodKey) + 1.5*DiversityScore(m, picks) - PenaltyScore(m, penalties)
	})
	if ok {
		picks = append(picks, wildcard)
	}

	if len(picks) < 3 {
		used := make(map[int64]bool, len(picks))
		for _, m := range picks {
			used[m.ID] = true
		}
		for _, m := range RankCandidates(candidates, state, feedback) {
			if used[m.ID] {
				continue
			}
			picks = append(picks, m)
			used[m.ID] = true
			if len(picks) == 3 {
				break
			}
		}
	}

	if len(picks) > 3 {
		picks = picks[:3]
	}
	return picks
}

// pickBest returns the first maximal candidate in input order. The strict
// comparison is what makes tie-breaks deterministic.
func pickBest(candidates []types.Movie, score func(types.Movie) float64) (types.Movie, bool) {
	if len(candidates) == 0 {
		return types.Movie{}, false
	}
	best := candidates[0]
	bestScore := score(best)
	for _, m := range candidates[1:] {
		if s := score(m); s > bestScore {
			best = m
			bestScore = s
		}
	}
	return best, true
}

func removeByID(movies []types.Movie, id int64) []types.Movie {
	out := movies[:0]
	for _, m := range movies {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
