package recommend

import (
	"math"
	"sort"
	"strconv"

	"github.com/yungbote/threepicks-backend/internal/types"
)

// PopularScore rewards mainstream visibility with diminishing returns; log1p
// keeps runaway popularity values from dominating.
func PopularScore(m types.Movie) float64 {
	return 0.6*math.Log1p(m.Popularity) +
		0.25*math.Log1p(float64(m.VoteCount)) +
		0.15*(m.VoteAverage/10)
}

// AcclaimedScore favors rating over volume. The quality gate keeps a
// high-rating, tiny-sample movie from winning the acclaimed tier.
func AcclaimedScore(m types.Movie) float64 {
	qualityGate := 0.2
	if m.VoteCount >= 300 {
		qualityGate = 0.8
	}
	return 0.7*(m.VoteAverage/10) +
		0.3*math.Log1p(float64(m.VoteCount)) +
		qualityGate
}

// WildcardScore skews toward under-the-radar titles: the inverse-popularity
// term rewards obscurity. Unless the user asked for "Weird", candidates below
// the vetting floor are hard-rejected.
func WildcardScore(m types.Movie, moodKey string) float64 {
	if moodKey != MoodWeird && (m.VoteCount < 120 || m.VoteAverage < 5.5) {
		return -5.0
	}
	return 0.45*(m.VoteAverage/10) +
		0.25*math.Log1p(float64(m.VoteCount)) +
		0.3*(1/(1+math.Log1p(m.Popularity)))
}

// DiversityScore accumulates a penalty/bonus against every already-picked
// movie: −0.45 per shared genre id, −0.35 for a shared release decade, +0.2
// otherwise. Zero when nothing has been picked yet.
func DiversityScore(m types.Movie, picked []types.Movie) float64 {
	if len(picked) == 0 {
		return 0
	}
	genres := make(map[int64]bool, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		genres[id] = true
	}
	movieDecade, hasDecade := decade(m.ReleaseDate)

	score := 0.0
	for _, chosen := range picked {
		for _, id := range chosen.GenreIDs {
			if genres[id] {
				score -= 0.45
			}
		}
		if chosenDecade, ok := decade(chosen.ReleaseDate); hasDecade && ok && movieDecade == chosenDecade {
			score -= 0.35
		} else {
			score += 0.2
		}
	}
	return score
}

// RankCandidates is the backfill ordering: a blend of runtime fit, rating and
// popularity, minus the feedback penalty, best first. Equal scores preserve
// input order so ranking stays deterministic for a fixed candidate list.
func RankCandidates(candidates []types.Movie, state types.UserState, feedback []*types.FeedbackEntry) []types.Movie {
	target := state.TimeAvailable
	penalties := ComputePenalties(feedback, state)

	type scored struct {
		score float64
		movie types.Movie
	}
	items := make([]scored, 0, len(candidates))
	for _, m := range candidates {
		runtime := target
		if m.Runtime != nil {
			runtime = *m.Runtime
		}
		runtimeFit := 1 - math.Min(math.Abs(float64(runtime-target))/float64(target), 1)
		score := 0.4*runtimeFit + 0.3*(m.VoteAverage/10) + 0.3*math.Log1p(m.Popularity)
		score -= PenaltyScore(m, penalties)
		items = append(items, scored{score: score, movie: m})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

	out := make([]types.Movie, 0, len(items))
	for _, it := range items {
		out = append(out, it.movie)
	}
	return out
}

// decade returns the release decade (e.g. 1990) parsed from a YYYY-MM-DD
// release date, or false when the date is missing or malformed.
func decade(releaseDate string) (int, bool) {
	if len(releaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0, false
	}
	return year - year%10, true
}
