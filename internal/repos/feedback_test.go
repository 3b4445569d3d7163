package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/types"
)

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.FeedbackEntry{}, &types.UserEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return db, log
}

func seedUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := &types.User{ID: uuid.New(), DisplayName: "t"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func entryAt(userID uuid.UUID, tmdbID int64, createdAt time.Time) *types.FeedbackEntry {
	return &types.FeedbackEntry{
		ID:        uuid.New(),
		UserID:    userID,
		TMDBID:    tmdbID,
		Energy:    types.EnergyOkay,
		Result:    types.FeedbackResultNo,
		GenreIDs:  []int64{18},
		CreatedAt: createdAt,
	}
}

func TestFeedbackRepo_AppendAndRead(t *testing.T) {
	db, log := testDB(t)
	repo := NewFeedbackRepo(db, log)
	userID := seedUser(t, db)
	ctx := context.Background()

	saved, err := repo.Append(ctx, nil, entryAt(userID, 550, time.Now()))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if saved.TMDBID != 550 {
		t.Fatalf("unexpected entry: %+v", saved)
	}

	got, err := repo.RecentByUser(ctx, nil, userID, 20)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].TMDBID != 550 {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if len(got[0].GenreIDs) != 1 || got[0].GenreIDs[0] != 18 {
		t.Fatalf("genre ids did not survive the round trip: %v", got[0].GenreIDs)
	}
}

func TestFeedbackRepo_RecentByUserOrdersOldestFirst(t *testing.T) {
	db, log := testDB(t)
	repo := NewFeedbackRepo(db, log)
	userID := seedUser(t, db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		if _, err := repo.Append(ctx, nil, entryAt(userID, int64(i+1), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.RecentByUser(ctx, nil, userID, 3)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected the 3 newest entries, got %d", len(got))
	}
	// The 3 newest (3,4,5) come back oldest first.
	for i, want := range []int64{3, 4, 5} {
		if got[i].TMDBID != want {
			t.Fatalf("slot %d: got %d, want %d", i, got[i].TMDBID, want)
		}
	}
}

func TestFeedbackRepo_RecentByUserScopesToUser(t *testing.T) {
	db, log := testDB(t)
	repo := NewFeedbackRepo(db, log)
	ctx := context.Background()

	alice := seedUser(t, db)
	bob := seedUser(t, db)
	if _, err := repo.Append(ctx, nil, entryAt(alice, 1, time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := repo.Append(ctx, nil, entryAt(bob, 2, time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.RecentByUser(ctx, nil, alice, 20)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].TMDBID != 1 {
		t.Fatalf("expected only alice's entry, got %+v", got)
	}
}

func TestFeedbackRepo_NilUserReturnsEmpty(t *testing.T) {
	db, log := testDB(t)
	repo := NewFeedbackRepo(db, log)

	got, err := repo.RecentByUser(context.Background(), nil, uuid.Nil, 20)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries for the nil user, got %d", len(got))
	}
}

func TestUserEventRepo_CreateBatch(t *testing.T) {
	db, log := testDB(t)
	repo := NewUserEventRepo(db, log)
	userID := seedUser(t, db)

	events := []*types.UserEvent{
		{ID: uuid.New(), UserID: userID, Kind: types.EventKindSearch, Payload: []byte(`{"candidates":12}`)},
		{ID: uuid.New(), UserID: userID, Kind: types.EventKindPick, Payload: []byte(`{"picked_ids":[1,2,3]}`)},
	}
	if _, err := repo.Create(context.Background(), nil, events); err != nil {
		t.Fatalf("create: %v", err)
	}

	var count int64
	if err := db.Model(&types.UserEvent{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 events, got %d", count)
	}
}

func TestUserRepo_GetByIDMissingIsNil(t *testing.T) {
	db, log := testDB(t)
	repo := NewUserRepo(db, log)

	got, err := repo.GetByID(context.Background(), nil, uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown user, got %+v", got)
	}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	db, log := testDB(t)
	repo := NewUserRepo(db, log)
	ctx := context.Background()

	created, err := repo.Create(ctx, nil, &types.User{ID: uuid.New(), DisplayName: "movie night"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.DisplayName != "movie night" {
		t.Fatalf("unexpected user: %+v", got)
	}
}
