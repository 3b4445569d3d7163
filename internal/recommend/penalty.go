package recommend

import (
	"strings"

	"github.com/yungbote/threepicks-backend/internal/types"
)

// GenrePenalties maps genre id to accumulated negative-feedback weight.
// Derived fresh per request; never persisted.
type GenrePenalties map[int64]float64

const (
	penaltyWindow   = 20
	penaltyPerEntry = 0.15
)

// ComputePenalties scans the most recent entries (feedback ordered oldest to
// newest) and accumulates a weight per genre id for every qualifying "no":
// same energy level, and a mood-word overlap with the current mood text
// (an empty mood text matches everything). Repeated negative feedback for a
// genre compounds.
func ComputePenalties(feedback []*types.FeedbackEntry, state types.UserState) GenrePenalties {
	penalties := GenrePenalties{}
	moodWords := wordSet(state.MoodText)

	start := 0
	if len(feedback) > penaltyWindow {
		start = len(feedback) - penaltyWindow
	}
	for _, entry := range feedback[start:] {
		if entry == nil || entry.Result != types.FeedbackResultNo {
			continue
		}
		if entry.Energy != state.Energy {
			continue
		}
		if len(moodWords) > 0 && !intersects(moodWords, wordSet(entry.MoodText)) {
			continue
		}
		for _, genreID := range entry.GenreIDs {
			penalties[genreID] += penaltyPerEntry
		}
	}
	return penalties
}

// PenaltyScore sums the penalty weights over a candidate's genre ids.
func PenaltyScore(m types.Movie, penalties GenrePenalties) float64 {
	total := 0.0
	for _, genreID := range m.GenreIDs {
		total += penalties[genreID]
	}
	return total
}

func wordSet(text string) map[string]bool {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func intersects(a, b map[string]bool) bool {
	for w := range a {
		if b[w] {
			return true
		}
	}
	return false
}
