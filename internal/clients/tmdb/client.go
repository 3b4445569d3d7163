package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/threepicks-backend/internal/platform/cache"
	"github.com/yungbote/threepicks-backend/internal/platform/envutil"
	"github.com/yungbote/threepicks-backend/internal/platform/httpx"
	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/recommend"
	"github.com/yungbote/threepicks-backend/internal/types"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"

	genreMapTTL = time.Hour
	discoverTTL = 30 * time.Minute
	detailsTTL  = 30 * time.Minute
	videosTTL   = 30 * time.Minute
)

// Error is a catalog transport or status failure. Any *Error means the
// catalog was unavailable for that call; callers surface it as a "try again"
// condition rather than retrying internally.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("tmdb %s: status %d", e.Op, e.StatusCode)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	cache      cache.Cache
	group      singleflight.Group
}

// NewClient reads TMDB_API_KEY (required), TMDB_BASE_URL,
// TMDB_TIMEOUT_SECONDS and TMDB_MAX_RETRIES. A nil cache disables caching,
// which tests rely on for deterministic bypass.
func NewClient(log *logger.Logger, c cache.Cache) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(os.Getenv("TMDB_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing TMDB_API_KEY")
	}

	timeoutSec := envutil.Int("TMDB_TIMEOUT_SECONDS", 10)
	maxRetries := envutil.Int("TMDB_MAX_RETRIES", 2)
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		log:        log.With("service", "TMDBClient"),
		baseURL:    strings.TrimRight(envutil.Str("TMDB_BASE_URL", defaultBaseURL), "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
		cache:      c,
	}, nil
}

// GenreMap fetches the genre taxonomy for a language.
func (c *Client) GenreMap(ctx context.Context, language string) (types.GenreMap, error) {
	var out types.GenreMap
	key := "genres:" + language
	err := c.cached(ctx, key, genreMapTTL, &out, func() (any, error) {
		var raw struct {
			Genres []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"genres"`
		}
		if err := c.get(ctx, "/genre/movie/list", url.Values{"language": {language}}, &raw); err != nil {
			return nil, err
		}
		gm := types.GenreMap{
			NameToID: make(map[string]int64, len(raw.Genres)),
			IDToName: make(map[int64]string, len(raw.Genres)),
		}
		for _, g := range raw.Genres {
			gm.NameToID[g.Name] = g.ID
			gm.IDToName[g.ID] = g.Name
		}
		return gm, nil
	})
	return out, err
}

// Discover runs one discovery query. Rows carry genre ids but no genre names
// or runtime; MovieDetails fills those in.
func (c *Client) Discover(ctx context.Context, language string, filter recommend.DiscoverFilter, sortBy string, voteCountGTE int) ([]types.Movie, error) {
	params := url.Values{
		"language":       {language},
		"include_adult":  {"false"},
		"sort_by":        {sortBy},
		"vote_count.gte": {strconv.Itoa(voteCountGTE)},
	}
	if filter.RuntimeLTE > 0 {
		params.Set("with_runtime.lte", strconv.Itoa(filter.RuntimeLTE))
	}
	if len(filter.WithGenres) > 0 {
		params.Set("with_genres", joinIDs(filter.WithGenres))
	}
	if len(filter.WithoutGenres) > 0 {
		params.Set("without_genres", joinIDs(filter.WithoutGenres))
	}

	var out []types.Movie
	key := "discover:" + language + ":" + params.Encode()
	err := c.cached(ctx, key, discoverTTL, &out, func() (any, error) {
		var raw struct {
			Results []struct {
				ID          int64   `json:"id"`
				Title       string  `json:"title"`
				ReleaseDate string  `json:"release_date"`
				GenreIDs    []int64 `json:"genre_ids"`
				Popularity  float64 `json:"popularity"`
				VoteAverage float64 `json:"vote_average"`
				VoteCount   int64   `json:"vote_count"`
				Overview    string  `json:"overview"`
				PosterPath  string  `json:"poster_path"`
			} `json:"results"`
		}
		if err := c.get(ctx, "/discover/movie", params, &raw); err != nil {
			return nil, err
		}
		movies := make([]types.Movie, 0, len(raw.Results))
		for _, r := range raw.Results {
			movies = append(movies, types.Movie{
				ID:          r.ID,
				Title:       r.Title,
				ReleaseDate: r.ReleaseDate,
				GenreIDs:    r.GenreIDs,
				Popularity:  r.Popularity,
				VoteAverage: r.VoteAverage,
				VoteCount:   r.VoteCount,
				Overview:    r.Overview,
				PosterPath:  r.PosterPath,
			})
		}
		return movies, nil
	})
	return out, err
}

// MovieDetails fetches the full record for one movie. A 404 returns
// (nil, nil): an absent movie is skipped, never a batch failure.
func (c *Client) MovieDetails(ctx context.Context, id int64, language string) (*types.Movie, error) {
	var out *types.Movie
	key := fmt.Sprintf("details:%d:%s", id, language)
	err := c.cached(ctx, key, detailsTTL, &out, func() (any, error) {
		var raw struct {
			ID          int64   `json:"id"`
			Title       string  `json:"title"`
			ReleaseDate string  `json:"release_date"`
			Runtime     *int    `json:"runtime"`
			Overview    string  `json:"overview"`
			PosterPath  string  `json:"poster_path"`
			Popularity  float64 `json:"popularity"`
			VoteAverage float64 `json:"vote_average"`
			VoteCount   int64   `json:"vote_count"`
			Genres      []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"genres"`
		}
		err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), url.Values{"language": {language}}, &raw)
		if err != nil {
			var tmdbErr *Error
			if errors.As(err, &tmdbErr) && tmdbErr.StatusCode == http.StatusNotFound {
				return (*types.Movie)(nil), nil
			}
			return nil, err
		}
		m := &types.Movie{
			ID:          raw.ID,
			Title:       raw.Title,
			ReleaseDate: raw.ReleaseDate,
			Runtime:     raw.Runtime,
			Overview:    raw.Overview,
			PosterPath:  raw.PosterPath,
			Popularity:  raw.Popularity,
			VoteAverage: raw.VoteAverage,
			VoteCount:   raw.VoteCount,
		}
		for _, g := range raw.Genres {
			m.Genres = append(m.Genres, g.Name)
			m.GenreIDs = append(m.GenreIDs, g.ID)
		}
		return m, nil
	})
	return out, err
}

type video struct {
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// TrailerURL returns the best YouTube trailer link for a movie, preferring
// "official" trailers, or "" when none is found. Catalog failures degrade to
// "" — a missing trailer never fails a picks response.
func (c *Client) TrailerURL(ctx context.Context, id int64, language string) string {
	var videos []video
	key := fmt.Sprintf("videos:%d:%s", id, language)
	err := c.cached(ctx, key, videosTTL, &videos, func() (any, error) {
		var raw struct {
			Results []video `json:"results"`
		}
		if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/videos", url.Values{"language": {language}}, &raw); err != nil {
			return nil, err
		}
		return raw.Results, nil
	})
	if err != nil {
		c.log.Debug("Trailer lookup failed", "tmdb_id", id, "error", err.Error())
		return ""
	}

	trailers := videos[:0:0]
	for _, v := range videos {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			trailers = append(trailers, v)
		}
	}
	if len(trailers) == 0 {
		return ""
	}
	sort.SliceStable(trailers, func(i, j int) bool {
		return isOfficial(trailers[i]) && !isOfficial(trailers[j])
	})
	if trailers[0].Key == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + trailers[0].Key
}

func isOfficial(v video) bool {
	return strings.Contains(strings.ToLower(v.Name), "official")
}

// PosterURL resolves a poster path against the image CDN, or "" when absent.
func PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return imageBaseURL + posterPath
}

// cached serves from cache when possible, collapses concurrent identical
// misses through singleflight, and stores the fresh value with the given TTL.
// Values round-trip through JSON so cached and fresh reads decode the same.
func (c *Client) cached(ctx context.Context, key string, ttl time.Duration, dest any, fetch func() (any, error)) error {
	if c.cache != nil {
		if err := c.cache.GetJSON(ctx, key, dest); err == nil {
			return nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		return fetch()
	})
	if err != nil {
		return err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}
	if c.cache != nil {
		if cacheErr := c.cache.SetJSON(ctx, key, v, ttl); cacheErr != nil {
			c.log.Warn("Cache write failed", "key", key, "error", cacheErr.Error())
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.getOnce(ctx, path, params)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return &Error{Op: path, Err: fmt.Errorf("decode: %w", uErr)}
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 5*time.Second))
		c.log.Warn("TMDB request retrying",
			"path", path,
			"attempt", attempt+1,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return &Error{Op: path, Err: fmt.Errorf("unreachable retry loop")}
}

func (c *Client) getOnce(ctx context.Context, path string, params url.Values) (*http.Response, []byte, error) {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, &Error{Op: path, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &Error{Op: path, Err: err}
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, &Error{Op: path, Err: readErr}
	}
	if resp.StatusCode != http.StatusOK {
		return resp, raw, &Error{Op: path, StatusCode: resp.StatusCode}
	}
	return resp, raw, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// IsUnavailable reports whether err is a catalog transport/status failure.
func IsUnavailable(err error) bool {
	var tmdbErr *Error
	return errors.As(err, &tmdbErr)
}
