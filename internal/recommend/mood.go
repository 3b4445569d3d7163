package recommend

import (
	"strings"

	"github.com/yungbote/threepicks-backend/internal/types"
)

// MoodWeird relaxes the wildcard vetting floor: a user explicitly asking for
// "Weird" accepts low-vote, low-rating picks.
const MoodWeird = "Weird"

type moodMapping struct {
	key    string
	genres []string
}

// Ordered on purpose: DetectMoodKey returns the first key whose name appears
// in the mood text, so the table order is part of the contract.
var moodTable = []moodMapping{
	{"Comfort", []string{"Comedy", "Family"}},
	{"Laugh", []string{"Comedy"}},
	{"Thrill", []string{"Thriller", "Action"}},
	{"Cry", []string{"Drama", "Romance"}},
	{MoodWeird, []string{"Mystery", "Science Fiction"}},
}

// DetectMoodKey matches a mood-table key as a case-insensitive substring of
// the free-text mood input. No match returns "".
func DetectMoodKey(moodText string) string {
	if moodText == "" {
		return ""
	}
	lowered := strings.ToLower(moodText)
	for _, m := range moodTable {
		if strings.Contains(lowered, strings.ToLower(m.key)) {
			return m.key
		}
	}
	return ""
}

func moodGenreNames(moodKey string) []string {
	for _, m := range moodTable {
		if m.key == moodKey {
			return m.genres
		}
	}
	return nil
}

// DiscoverFilter narrows the catalog discovery query before scoring sees any
// candidate.
type DiscoverFilter struct {
	RuntimeLTE    int
	WithGenres    []int64
	WithoutGenres []int64
}

// BuildDiscoverFilter derives discovery constraints from the user state: a
// runtime ceiling of time+10 (clamped to the available time when the user is
// drained or asked for shorter runtimes), mood genres when the mood text maps
// to the table, and no Horror for a "Dead" energy night.
func BuildDiscoverFilter(state types.UserState, genres types.GenreMap) DiscoverFilter {
	filter := DiscoverFilter{RuntimeLTE: state.TimeAvailable + 10}
	if state.Energy == types.EnergyDead || state.TightenRuntime {
		filter.RuntimeLTE = state.TimeAvailable
	}

	moodKey := DetectMoodKey(state.MoodText)
	for _, name := range moodGenreNames(moodKey) {
		if id, ok := genres.NameToID[name]; ok && id != 0 {
			filter.WithGenres = append(filter.WithGenres, id)
		}
	}

	if state.Energy == types.EnergyDead {
		if id, ok := genres.NameToID["Horror"]; ok && id != 0 {
			filter.WithoutGenres = append(filter.WithoutGenres, id)
		}
	}
	return filter
}
