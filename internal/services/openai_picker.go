package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/platform/openai"
	"github.com/yungbote/threepicks-backend/internal/recommend"
	"github.com/yungbote/threepicks-backend/internal/types"
)

// ReasoningError marks a recoverable reasoning-service failure: transport,
// timeout, or a response that violates the selection contract. The picker
// discards the attempt and reruns the heuristic path. Anything else coming
// out of the reason client is a programming error and propagates.
type ReasoningError struct {
	Reason string
	Err    error
}

func (e *ReasoningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reasoning service: %s: %v", e.Reason, e.Err)
	}
	return "reasoning service: " + e.Reason
}

func (e *ReasoningError) Unwrap() error { return e.Err }

// ReasonClient produces three picks with natural-language reasons from an
// external reasoning service.
type ReasonClient interface {
	PickThree(ctx context.Context, state types.UserState, candidates []types.Movie) ([]int64, map[int64]string, error)
}

const reasonSystemPrompt = "You are a movie curator. Select exactly 3 movies from the provided " +
	"candidate list. Never invent titles or IDs. Respond ONLY with JSON."

const overviewLimit = 240

type openAIPicker struct {
	log *logger.Logger
	ai  openai.Client
}

func NewOpenAIPicker(log *logger.Logger, ai openai.Client) ReasonClient {
	return &openAIPicker{
		log: log.With("service", "OpenAIPicker"),
		ai:  ai,
	}
}

// candidateProjection is the compact feature view submitted to the reasoning
// service; full records stay server-side.
type candidateProjection struct {
	TMDBID      int64    `json:"tmdb_id"`
	Title       string   `json:"title"`
	Year        string   `json:"year"`
	Runtime     *int     `json:"runtime"`
	Genres      []string `json:"genres"`
	Overview    string   `json:"overview"`
	Popularity  float64  `json:"popularity"`
	VoteAverage float64  `json:"vote_average"`
	VoteCount   int64    `json:"vote_count"`
}

func (p *openAIPicker) PickThree(ctx context.Context, state types.UserState, candidates []types.Movie) ([]int64, map[int64]string, error) {
	projections := make([]candidateProjection, 0, len(candidates))
	for _, m := range candidates {
		overview := m.Overview
		if utf8.RuneCountInString(overview) > overviewLimit {
			overview = string([]rune(overview)[:overviewLimit])
		}
		projections = append(projections, candidateProjection{
			TMDBID:      m.ID,
			Title:       m.Title,
			Year:        m.Year(),
			Runtime:     m.Runtime,
			Genres:      m.Genres,
			Overview:    overview,
			Popularity:  m.Popularity,
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
		})
	}

	userMessage, err := json.Marshal(map[string]any{
		"user_state": state,
		"candidates": projections,
	})
	if err != nil {
		return nil, nil, err
	}

	payload, err := p.ai.GenerateJSON(ctx, reasonSystemPrompt, string(userMessage), "movie_selection", selectionSchema())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		return nil, nil, &ReasoningError{Reason: "request failed", Err: err}
	}

	ids, reasons, err := validateSelection(payload, candidates)
	if err != nil {
		p.log.Warn("Reasoning response rejected", "error", err.Error())
		return nil, nil, err
	}
	return ids, reasons, nil
}

func selectionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"selected_ids": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "integer"},
				"minItems": 3,
				"maxItems": 3,
			},
			"reasons": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
		"required":             []string{"selected_ids", "reasons"},
		"additionalProperties": false,
	}
}

// validateSelection enforces the reasoning-service contract structurally:
// exactly 3 unique ids drawn from the submitted candidates, and one
// non-empty reason per id, at most 140 characters. Every violation is a
// *ReasoningError — the response is discarded whole, never partially used.
func validateSelection(payload map[string]any, candidates []types.Movie) ([]int64, map[int64]string, error) {
	candidateIDs := make(map[int64]bool, len(candidates))
	for _, m := range candidates {
		candidateIDs[m.ID] = true
	}

	rawIDs, ok := payload["selected_ids"].([]any)
	if !ok {
		return nil, nil, &ReasoningError{Reason: "selected_ids missing or not an array"}
	}
	if len(rawIDs) != 3 {
		return nil, nil, &ReasoningError{Reason: fmt.Sprintf("expected 3 selected ids, got %d", len(rawIDs))}
	}

	ids := make([]int64, 0, 3)
	unique := make(map[int64]bool, 3)
	for _, raw := range rawIDs {
		id, ok := toInt64(raw)
		if !ok {
			return nil, nil, &ReasoningError{Reason: "selected id is not an integer"}
		}
		if !candidateIDs[id] {
			return nil, nil, &ReasoningError{Reason: fmt.Sprintf("unknown movie id %d", id)}
		}
		if unique[id] {
			return nil, nil, &ReasoningError{Reason: fmt.Sprintf("duplicate movie id %d", id)}
		}
		unique[id] = true
		ids = append(ids, id)
	}

	rawReasons, ok := payload["reasons"].(map[string]any)
	if !ok {
		return nil, nil, &ReasoningError{Reason: "reasons missing or not an object"}
	}
	reasons := make(map[int64]string, 3)
	for _, id := range ids {
		raw, ok := rawReasons[strconv.FormatInt(id, 10)]
		if !ok {
			return nil, nil, &ReasoningError{Reason: fmt.Sprintf("missing reason for id %d", id)}
		}
		reason, ok := raw.(string)
		if !ok || reason == "" {
			return nil, nil, &ReasoningError{Reason: fmt.Sprintf("empty or non-string reason for id %d", id)}
		}
		if utf8.RuneCountInString(reason) > recommend.MaxReasonLength {
			return nil, nil, &ReasoningError{Reason: fmt.Sprintf("reason for id %d exceeds %d characters", id, recommend.MaxReasonLength)}
		}
		reasons[id] = reason
	}

	return ids, reasons, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
