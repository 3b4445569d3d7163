package types

// GenreMap is the catalog genre taxonomy for one language, fetched per
// request (and cached by the catalog client).
type GenreMap struct {
	NameToID map[string]int64 `json:"name_to_id"`
	IDToName map[int64]string `json:"id_to_name"`
}
