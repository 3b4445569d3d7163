package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/repos"
	"github.com/yungbote/threepicks-backend/internal/types"
)

type FeedbackInput struct {
	TMDBID        int64        `json:"tmdb_id"`
	MoodText      string       `json:"mood_text"`
	TimeAvailable int          `json:"time_available"`
	Energy        types.Energy `json:"energy"`
	Result        string       `json:"result"`
	GenreIDs      []int64      `json:"genre_ids"`
}

func (in FeedbackInput) Validate() error {
	if in.TMDBID <= 0 {
		return fmt.Errorf("tmdb_id required")
	}
	if in.Result != types.FeedbackResultYes && in.Result != types.FeedbackResultNo {
		return fmt.Errorf("result must be %q or %q, got %q", types.FeedbackResultYes, types.FeedbackResultNo, in.Result)
	}
	if !in.Energy.Valid() {
		return fmt.Errorf("energy must be one of Dead, Okay, Ready, got %q", in.Energy)
	}
	return nil
}

type FeedbackService interface {
	Save(ctx context.Context, userID uuid.UUID, input FeedbackInput) error
}

type feedbackService struct {
	log          *logger.Logger
	feedbackRepo repos.FeedbackRepo
	eventRepo    repos.UserEventRepo
}

func NewFeedbackService(log *logger.Logger, feedbackRepo repos.FeedbackRepo, eventRepo repos.UserEventRepo) FeedbackService {
	return &feedbackService{
		log:          log.With("service", "FeedbackService"),
		feedbackRepo: feedbackRepo,
		eventRepo:    eventRepo,
	}
}

func (s *feedbackService) Save(ctx context.Context, userID uuid.UUID, input FeedbackInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	entry := &types.FeedbackEntry{
		UserID:        userID,
		TMDBID:        input.TMDBID,
		MoodText:      input.MoodText,
		TimeAvailable: input.TimeAvailable,
		Energy:        input.Energy,
		Result:        input.Result,
		GenreIDs:      datatypes.NewJSONSlice(input.GenreIDs),
	}
	if _, err := s.feedbackRepo.Append(ctx, nil, entry); err != nil {
		return err
	}

	recordEvent(ctx, s.eventRepo, s.log, userID, types.EventKindFeedback, map[string]any{
		"tmdb_id": input.TMDBID,
		"result":  input.Result,
	})
	return nil
}
