package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/threepicks-backend/internal/recommend"
	"github.com/yungbote/threepicks-backend/internal/types"
)

type fakeCatalog struct {
	genres    types.GenreMap
	genresErr error

	popular      []types.Movie
	acclaimed    []types.Movie
	discoverErr  error
	detailErr    map[int64]error
	missing      map[int64]bool
	lastFilters  []recommend.DiscoverFilter
	detailsCalls int
}

func (f *fakeCatalog) GenreMap(ctx context.Context, language string) (types.GenreMap, error) {
	if f.genresErr != nil {
		return types.GenreMap{}, f.genresErr
	}
	return f.genres, nil
}

func (f *fakeCatalog) Discover(ctx context.Context, language string, filter recommend.DiscoverFilter, sortBy string, voteCountGTE int) ([]types.Movie, error) {
	f.lastFilters = append(f.lastFilters, filter)
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	if sortBy == sortByPopularity {
		return f.popular, nil
	}
	return f.acclaimed, nil
}

func (f *fakeCatalog) MovieDetails(ctx context.Context, id int64, language string) (*types.Movie, error) {
	f.detailsCalls++
	if err, ok := f.detailErr[id]; ok {
		return nil, err
	}
	if f.missing[id] {
		return nil, nil
	}
	m := testMovie(id, 50, 7.0, 1000, []int64{18}, "2010-01-01")
	m.Runtime = new(int)
	*m.Runtime = 105
	return &m, nil
}

func emptyGenres() types.GenreMap {
	return types.GenreMap{NameToID: map[string]int64{"Horror": 27}, IDToName: map[int64]string{27: "Horror"}}
}

func TestBuildPool_MergesAndDeduplicatesInOrder(t *testing.T) {
	catalog := &fakeCatalog{
		genres:    emptyGenres(),
		popular:   []types.Movie{testMovie(1, 0, 0, 0, nil, ""), testMovie(2, 0, 0, 0, nil, "")},
		acclaimed: []types.Movie{testMovie(2, 0, 0, 0, nil, ""), testMovie(3, 0, 0, 0, nil, "")},
	}
	svc := NewCatalogService(testLogger(t), catalog)

	pool, err := svc.BuildPool(context.Background(), testState(), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pool) != 3 || pool[0].ID != 1 || pool[1].ID != 2 || pool[2].ID != 3 {
		t.Fatalf("unexpected merged pool: %v", poolIDs(pool))
	}
}

func TestBuildPool_DropsSeenMovies(t *testing.T) {
	catalog := &fakeCatalog{
		genres:  emptyGenres(),
		popular: []types.Movie{testMovie(1, 0, 0, 0, nil, ""), testMovie(2, 0, 0, 0, nil, ""), testMovie(3, 0, 0, 0, nil, "")},
	}
	svc := NewCatalogService(testLogger(t), catalog)

	pool, err := svc.BuildPool(context.Background(), testState(), []int64{2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, m := range pool {
		if m.ID == 2 {
			t.Fatalf("seen movie leaked into the pool")
		}
	}
}

func TestBuildPool_SkipsFailingAndMissingDetails(t *testing.T) {
	catalog := &fakeCatalog{
		genres: emptyGenres(),
		popular: []types.Movie{
			testMovie(1, 0, 0, 0, nil, ""),
			testMovie(2, 0, 0, 0, nil, ""),
			testMovie(3, 0, 0, 0, nil, ""),
		},
		detailErr: map[int64]error{1: errors.New("status 500")},
		missing:   map[int64]bool{2: true},
	}
	svc := NewCatalogService(testLogger(t), catalog)

	pool, err := svc.BuildPool(context.Background(), testState(), nil)
	if err != nil {
		t.Fatalf("expected partial pool, got %v", err)
	}
	if len(pool) != 1 || pool[0].ID != 3 {
		t.Fatalf("unexpected pool: %v", poolIDs(pool))
	}
}

func TestBuildPool_CapsAtSixty(t *testing.T) {
	var popular []types.Movie
	for i := 0; i < maxPoolSize+20; i++ {
		popular = append(popular, testMovie(int64(i+1), 0, 0, 0, nil, ""))
	}
	catalog := &fakeCatalog{genres: emptyGenres(), popular: popular}
	svc := NewCatalogService(testLogger(t), catalog)

	pool, err := svc.BuildPool(context.Background(), testState(), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pool) != maxPoolSize {
		t.Fatalf("expected %d candidates, got %d", maxPoolSize, len(pool))
	}
	// Detail fetches stop once the cap is reached.
	if catalog.detailsCalls != maxPoolSize {
		t.Fatalf("expected %d detail calls, got %d", maxPoolSize, catalog.detailsCalls)
	}
}

func TestBuildPool_GenreMapErrorPropagates(t *testing.T) {
	upstream := errors.New("status 503")
	svc := NewCatalogService(testLogger(t), &fakeCatalog{genresErr: upstream})

	if _, err := svc.BuildPool(context.Background(), testState(), nil); !errors.Is(err, upstream) {
		t.Fatalf("expected genre map error, got %v", err)
	}
}

func TestBuildPool_DiscoverErrorPropagates(t *testing.T) {
	upstream := errors.New("status 503")
	svc := NewCatalogService(testLogger(t), &fakeCatalog{genres: emptyGenres(), discoverErr: upstream})

	if _, err := svc.BuildPool(context.Background(), testState(), nil); !errors.Is(err, upstream) {
		t.Fatalf("expected discover error, got %v", err)
	}
}

func TestBuildPool_DeadEnergyFilterReachesDiscover(t *testing.T) {
	catalog := &fakeCatalog{genres: emptyGenres()}
	svc := NewCatalogService(testLogger(t), catalog)

	state := testState()
	state.Energy = types.EnergyDead
	if _, err := svc.BuildPool(context.Background(), state, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(catalog.lastFilters) != 2 {
		t.Fatalf("expected two discovery queries, got %d", len(catalog.lastFilters))
	}
	for _, filter := range catalog.lastFilters {
		if filter.RuntimeLTE != state.TimeAvailable {
			t.Fatalf("expected runtime clamp for drained users, got %d", filter.RuntimeLTE)
		}
		if len(filter.WithoutGenres) != 1 || filter.WithoutGenres[0] != 27 {
			t.Fatalf("expected Horror excluded, got %v", filter.WithoutGenres)
		}
	}
}

func poolIDs(pool []types.Movie) []int64 {
	out := make([]int64, 0, len(pool))
	for _, m := range pool {
		out = append(out, m.ID)
	}
	return out
}
