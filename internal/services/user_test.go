package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/threepicks-backend/internal/types"
)

type fakeUserRepo struct {
	existing  *types.User
	getErr    error
	createErr error

	created []*types.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.existing, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, user)
	return user, nil
}

func TestEnsureUser_CreatesWhenMissing(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(testLogger(t), repo)

	id := uuid.New()
	if err := svc.EnsureUser(context.Background(), id); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].ID != id {
		t.Fatalf("expected one user created with id %s, got %+v", id, repo.created)
	}
}

func TestEnsureUser_SkipsExisting(t *testing.T) {
	id := uuid.New()
	repo := &fakeUserRepo{existing: &types.User{ID: id}}
	svc := NewUserService(testLogger(t), repo)

	if err := svc.EnsureUser(context.Background(), id); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no create for an existing user, got %d", len(repo.created))
	}
}

func TestEnsureUser_NilIDIsNoop(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(testLogger(t), repo)

	if err := svc.EnsureUser(context.Background(), uuid.Nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("nil id must not create a user")
	}
}

func TestEnsureUser_PropagatesRepoErrors(t *testing.T) {
	readErr := errors.New("connection refused")
	svc := NewUserService(testLogger(t), &fakeUserRepo{getErr: readErr})
	if err := svc.EnsureUser(context.Background(), uuid.New()); !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}

	createErr := errors.New("unique violation")
	svc = NewUserService(testLogger(t), &fakeUserRepo{createErr: createErr})
	if err := svc.EnsureUser(context.Background(), uuid.New()); !errors.Is(err, createErr) {
		t.Fatalf("expected create error, got %v", err)
	}
}
