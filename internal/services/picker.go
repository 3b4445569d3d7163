package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/recommend"
	"github.com/yungbote/threepicks-backend/internal/repos"
	"github.com/yungbote/threepicks-backend/internal/types"
)

// ErrInsufficientCandidates means fewer than 3 usable candidates survived
// filtering and detail fetches. Surfaced to the user as "adjust your
// filters"; checked before selection ever runs.
var ErrInsufficientCandidates = errors.New("fewer than 3 usable candidates")

const (
	// maxSelectionInput caps what either selection path sees, for reasoning
	// cost and latency.
	maxSelectionInput = 30

	// feedbackWindow is how much history the penalty computation reads.
	feedbackWindow = 20

	minimumCandidates = 3
)

type PickerService interface {
	// Recommend runs the whole flow for one user action: pool building,
	// precondition check, feedback read, selection, event logging.
	Recommend(ctx context.Context, userID uuid.UUID, state types.UserState, seen []int64) (types.Selection, error)

	// Select picks exactly 3 from the given candidates. Empty input yields a
	// zero Selection (callers pre-check the 3-candidate minimum). Otherwise
	// it always succeeds: the heuristic path is the unconditional safety net
	// behind the reasoning service.
	Select(ctx context.Context, candidates []types.Movie, state types.UserState, feedback []*types.FeedbackEntry) (types.Selection, error)
}

type pickerService struct {
	log          *logger.Logger
	catalog      CatalogService
	feedbackRepo repos.FeedbackRepo
	eventRepo    repos.UserEventRepo
	reasoner     ReasonClient // nil means heuristic-only
}

func NewPickerService(log *logger.Logger, catalog CatalogService, feedbackRepo repos.FeedbackRepo, eventRepo repos.UserEventRepo, reasoner ReasonClient) PickerService {
	return &pickerService{
		log:          log.With("service", "PickerService"),
		catalog:      catalog,
		feedbackRepo: feedbackRepo,
		eventRepo:    eventRepo,
		reasoner:     reasoner,
	}
}

func (s *pickerService) Recommend(ctx context.Context, userID uuid.UUID, state types.UserState, seen []int64) (types.Selection, error) {
	pool, err := s.catalog.BuildPool(ctx, state, seen)
	if err != nil {
		return types.Selection{}, err
	}

	recordEvent(ctx, s.eventRepo, s.log, userID, types.EventKindSearch, map[string]any{
		"mood_text":      state.MoodText,
		"energy":         state.Energy,
		"time_available": state.TimeAvailable,
		"candidates":     len(pool),
	})

	if len(pool) < minimumCandidates {
		return types.Selection{}, ErrInsufficientCandidates
	}

	feedback, err := s.feedbackRepo.RecentByUser(ctx, nil, userID, feedbackWindow)
	if err != nil {
		// Feedback only sharpens scoring; a read failure never blocks picks.
		s.log.Warn("Feedback read failed, selecting without penalties", "user_id", userID, "error", err.Error())
		feedback = nil
	}

	poolSize := len(pool)
	if len(pool) > maxSelectionInput {
		pool = pool[:maxSelectionInput]
	}

	selection, err := s.Select(ctx, pool, state, feedback)
	if err != nil {
		return types.Selection{}, err
	}
	selection.CandidateCount = poolSize

	pickedIDs := make([]int64, 0, len(selection.Picks))
	for _, m := range selection.Picks {
		pickedIDs = append(pickedIDs, m.ID)
	}
	recordEvent(ctx, s.eventRepo, s.log, userID, types.EventKindPick, map[string]any{
		"picked_ids":   pickedIDs,
		"highlight_id": selection.HighlightID,
	})

	return selection, nil
}

func (s *pickerService) Select(ctx context.Context, candidates []types.Movie, state types.UserState, feedback []*types.FeedbackEntry) (types.Selection, error) {
	if len(candidates) == 0 {
		return types.Selection{}, nil
	}

	if s.reasoner != nil {
		ids, reasons, err := s.reasoner.PickThree(ctx, state, candidates)
		if err == nil {
			return types.Selection{
				Picks:       orderPicks(candidates, ids),
				Reasons:     reasons,
				HighlightID: ids[0],
			}, nil
		}
		var reasoningErr *ReasoningError
		if !errors.As(err, &reasoningErr) {
			return types.Selection{}, err
		}
		// Discard the attempt entirely and start the heuristic path from
		// scratch — never merge AI and heuristic results.
		s.log.Warn("Reasoning service failed, using heuristic picks", "error", err.Error())
	}

	picks := recommend.PickTieredThree(candidates, state, feedback)
	if len(picks) == 0 {
		return types.Selection{}, nil
	}
	return types.Selection{
		Picks:       picks,
		Reasons:     recommend.TemplateReasons(picks, state),
		HighlightID: picks[0].ID,
	}, nil
}

// orderPicks resolves validated ids back to full candidates, preserving the
// reasoning service's ordering.
func orderPicks(candidates []types.Movie, ids []int64) []types.Movie {
	byID := make(map[int64]types.Movie, len(candidates))
	for _, m := range candidates {
		byID[m.ID] = m
	}
	picks := make([]types.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			picks = append(picks, m)
		}
	}
	return picks
}
