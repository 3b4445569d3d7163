package types

// Selection is the outcome of one recommendation request: exactly three
// distinct picks in tier order (Popular, Acclaimed, Wildcard), one reason per
// pick, the highlight id (always the first pick), and the size of the
// candidate pool the picks were drawn from. Discarded after presentation.
type Selection struct {
	Picks          []Movie          `json:"picks"`
	Reasons        map[int64]string `json:"reasons"`
	HighlightID    int64            `json:"highlight_id"`
	CandidateCount int              `json:"candidate_count"`
}

func (s Selection) IsZero() bool {
	return len(s.Picks) == 0
}
