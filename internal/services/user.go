package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/repos"
	"github.com/yungbote/threepicks-backend/internal/types"
)

// UserService provisions user rows for ids minted by the front proxy, so
// feedback and event rows always have a user to hang off.
type UserService interface {
	// EnsureUser creates the user row on first sight. Idempotent.
	EnsureUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) EnsureUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}

	existing, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if _, err := s.userRepo.Create(ctx, nil, &types.User{ID: userID}); err != nil {
		return err
	}
	s.log.Info("Provisioned first-seen user", "user_id", userID)
	return nil
}
