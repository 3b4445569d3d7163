package recommend

import (
	"fmt"
	"unicode/utf8"

	"github.com/yungbote/threepicks-backend/internal/types"
)

// MaxReasonLength bounds every reason string shown to the user, counted in
// characters, not bytes — reasons may come back in any catalog language.
const MaxReasonLength = 140

var tierLabels = []string{"Popular pick", "Critically acclaimed pick", "Wild card pick"}

// TemplateReasons emits the heuristic one-liner per pick, in tier order,
// referencing the tier label, the primary genre and the runtime. Always
// available; the unconditional fallback when the reasoning service is absent
// or misbehaves.
func TemplateReasons(picks []types.Movie, state types.UserState) map[int64]string {
	reasons := make(map[int64]string, len(picks))
	for idx, m := range picks {
		label := "Tonight's pick"
		if idx < len(tierLabels) {
			label = tierLabels[idx]
		}
		genre := "good"
		if len(m.Genres) > 0 {
			genre = m.Genres[0]
		}
		runtime := state.TimeAvailable
		if m.Runtime != nil {
			runtime = *m.Runtime
		}
		reason := fmt.Sprintf("%s: %s choice that fits tonight in about %d min.", label, genre, runtime)
		reasons[m.ID] = TruncateReason(reason)
	}
	return reasons
}

func TruncateReason(reason string) string {
	if utf8.RuneCountInString(reason) <= MaxReasonLength {
		return reason
	}
	return string([]rune(reason)[:MaxReasonLength])
}

// IsTieredOrder reports whether three picks look like a Popular/Acclaimed/
// Wildcard triad: the first holds its popularity lead, the second its rating
// lead, and the third diverges from the first two. Diagnostic only.
func IsTieredOrder(picks []types.Movie) bool {
	if len(picks) != 3 {
		return false
	}
	popular, acclaimed, wildcard := picks[0], picks[1], picks[2]

	popOK := PopularScore(popular) >= PopularScore(acclaimed)*0.8
	acclaimedOK := AcclaimedScore(acclaimed) >= AcclaimedScore(popular)*0.9
	wildcardDiverse := DiversityScore(wildcard, []types.Movie{popular, acclaimed}) >= -0.8
	return popOK && acclaimedOK && wildcardDiverse
}
