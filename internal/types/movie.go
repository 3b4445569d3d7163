package types

// Movie is a catalog candidate for the current request. Fetched once per
// selection and never mutated by the scoring or selection code.
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Runtime     *int     `json:"runtime,omitempty"`
	Genres      []string `json:"genres"`
	GenreIDs    []int64  `json:"genre_ids"`
	Popularity  float64  `json:"popularity"`
	VoteAverage float64  `json:"vote_average"`
	VoteCount   int64    `json:"vote_count"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"poster_path,omitempty"`
}

// Year returns the four-digit release year, or "" when unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}
