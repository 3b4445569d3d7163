package services

import (
	"context"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/recommend"
	"github.com/yungbote/threepicks-backend/internal/types"
)

// Catalog is the slice of the TMDB client the pool builder consumes.
type Catalog interface {
	GenreMap(ctx context.Context, language string) (types.GenreMap, error)
	Discover(ctx context.Context, language string, filter recommend.DiscoverFilter, sortBy string, voteCountGTE int) ([]types.Movie, error)
	MovieDetails(ctx context.Context, id int64, language string) (*types.Movie, error)
}

type CatalogService interface {
	BuildPool(ctx context.Context, state types.UserState, seen []int64) ([]types.Movie, error)
}

const (
	maxPoolSize        = 60
	popularVoteFloor   = 200
	acclaimedVoteFloor = 400

	sortByPopularity  = "popularity.desc"
	sortByVoteAverage = "vote_average.desc"
)

type catalogService struct {
	log     *logger.Logger
	catalog Catalog
}

func NewCatalogService(log *logger.Logger, catalog Catalog) CatalogService {
	return &catalogService{
		log:     log.With("service", "CatalogService"),
		catalog: catalog,
	}
}

// BuildPool assembles the candidate pool for one request: two discovery
// queries (popularity-sorted and rating-sorted) merged and deduplicated in
// order, already-seen ids dropped, then a detail fetch per movie. A movie
// whose details are absent or failing is skipped — a partial pool beats a
// failed request. Capped at 60 candidates.
func (s *catalogService) BuildPool(ctx context.Context, state types.UserState, seen []int64) ([]types.Movie, error) {
	genres, err := s.catalog.GenreMap(ctx, state.Language)
	if err != nil {
		return nil, err
	}
	filter := recommend.BuildDiscoverFilter(state, genres)

	popularPool, err := s.catalog.Discover(ctx, state.Language, filter, sortByPopularity, popularVoteFloor)
	if err != nil {
		return nil, err
	}
	acclaimedPool, err := s.catalog.Discover(ctx, state.Language, filter, sortByVoteAverage, acclaimedVoteFloor)
	if err != nil {
		return nil, err
	}

	merged := make([]types.Movie, 0, len(popularPool)+len(acclaimedPool))
	inMerged := make(map[int64]bool)
	for _, m := range append(popularPool, acclaimedPool...) {
		if inMerged[m.ID] {
			continue
		}
		inMerged[m.ID] = true
		merged = append(merged, m)
	}

	seenSet := make(map[int64]bool, len(seen))
	for _, id := range seen {
		seenSet[id] = true
	}

	candidates := make([]types.Movie, 0, maxPoolSize)
	for _, m := range merged {
		if seenSet[m.ID] {
			continue
		}
		details, err := s.catalog.MovieDetails(ctx, m.ID, state.Language)
		if err != nil {
			s.log.Debug("Skipping candidate, detail fetch failed", "tmdb_id", m.ID, "error", err.Error())
			continue
		}
		if details == nil {
			continue
		}
		candidates = append(candidates, *details)
		if len(candidates) >= maxPoolSize {
			break
		}
	}

	return candidates, nil
}
