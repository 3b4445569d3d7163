package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func testMovie(id int64, pop, rating float64, votes int64, genreIDs []int64, release string) types.Movie {
	return types.Movie{
		ID:          id,
		Title:       "m",
		ReleaseDate: release,
		Popularity:  pop,
		VoteAverage: rating,
		VoteCount:   votes,
		GenreIDs:    genreIDs,
	}
}

// testPool is large enough that every tier has an obvious winner.
func testPool() []types.Movie {
	return []types.Movie{
		testMovie(1, 900, 7.2, 15000, []int64{28, 12}, "2019-06-01"),
		testMovie(2, 40, 8.8, 4000, []int64{18}, "1994-03-01"),
		testMovie(3, 3, 7.6, 450, []int64{9648}, "2007-09-01"),
		testMovie(4, 80, 6.4, 900, []int64{35}, "2015-01-01"),
	}
}

type fakeCatalogService struct {
	pool []types.Movie
	err  error

	calls     int
	lastState types.UserState
	lastSeen  []int64
}

func (f *fakeCatalogService) BuildPool(ctx context.Context, state types.UserState, seen []int64) ([]types.Movie, error) {
	f.calls++
	f.lastState = state
	f.lastSeen = seen
	if f.err != nil {
		return nil, f.err
	}
	return f.pool, nil
}

type fakeFeedbackRepo struct {
	entries   []*types.FeedbackEntry
	readErr   error
	appendErr error

	appended  []*types.FeedbackEntry
	lastLimit int
}

func (f *fakeFeedbackRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.FeedbackEntry) (*types.FeedbackEntry, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.appended = append(f.appended, entry)
	return entry, nil
}

func (f *fakeFeedbackRepo) RecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.FeedbackEntry, error) {
	f.lastLimit = limit
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.entries, nil
}

type fakeEventRepo struct {
	createErr error
	events    []*types.UserEvent
}

func (f *fakeEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.UserEvent) ([]*types.UserEvent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.events = append(f.events, events...)
	return events, nil
}

func (f *fakeEventRepo) kinds() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

type fakeReasonClient struct {
	ids     []int64
	reasons map[int64]string
	err     error

	calls          int
	lastCandidates []types.Movie
}

func (f *fakeReasonClient) PickThree(ctx context.Context, state types.UserState, candidates []types.Movie) ([]int64, map[int64]string, error) {
	f.calls++
	f.lastCandidates = candidates
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.ids, f.reasons, nil
}
