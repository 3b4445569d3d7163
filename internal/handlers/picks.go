package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/threepicks-backend/internal/clients/tmdb"
	"github.com/yungbote/threepicks-backend/internal/middleware"
	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/services"
	"github.com/yungbote/threepicks-backend/internal/types"
)

// TrailerSource resolves a best-effort trailer link per pick. A miss is "".
type TrailerSource interface {
	TrailerURL(ctx context.Context, id int64, language string) string
}

type PicksHandler struct {
	log      *logger.Logger
	picker   services.PickerService
	trailers TrailerSource
}

func NewPicksHandler(log *logger.Logger, picker services.PickerService, trailers TrailerSource) *PicksHandler {
	return &PicksHandler{
		log:      log.With("handler", "PicksHandler"),
		picker:   picker,
		trailers: trailers,
	}
}

type picksRequest struct {
	MoodText       string       `json:"mood_text"`
	TimeAvailable  int          `json:"time_available"`
	Energy         types.Energy `json:"energy"`
	Language       string       `json:"language"`
	TightenRuntime bool         `json:"tighten_runtime"`
	SeenIDs        []int64      `json:"seen_ids"`
}

type pickView struct {
	types.Movie
	Reason      string `json:"reason"`
	Recommended bool   `json:"recommended"`
	PosterURL   string `json:"poster_url,omitempty"`
	TrailerURL  string `json:"trailer_url,omitempty"`
}

type picksResponse struct {
	Picks          []pickView `json:"picks"`
	HighlightID    int64      `json:"highlight_id"`
	CandidateCount int        `json:"candidate_count"`
}

// POST /api/picks
func (h *PicksHandler) GetPicks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req picksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	state := types.UserState{
		MoodText:       req.MoodText,
		TimeAvailable:  req.TimeAvailable,
		Energy:         req.Energy,
		Language:       req.Language,
		TightenRuntime: req.TightenRuntime,
	}
	if state.Language == "" {
		state.Language = "en-US"
	}
	if err := state.Validate(); err != nil {
		respondBadRequest(c, err)
		return
	}

	selection, err := h.picker.Recommend(c.Request.Context(), userID, state, req.SeenIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := picksResponse{
		Picks:          make([]pickView, 0, len(selection.Picks)),
		HighlightID:    selection.HighlightID,
		CandidateCount: selection.CandidateCount,
	}
	for _, m := range selection.Picks {
		view := pickView{
			Movie:       m,
			Reason:      selection.Reasons[m.ID],
			Recommended: m.ID == selection.HighlightID,
			PosterURL:   tmdb.PosterURL(m.PosterPath),
		}
		if h.trailers != nil {
			view.TrailerURL = h.trailers.TrailerURL(c.Request.Context(), m.ID, state.Language)
		}
		resp.Picks = append(resp.Picks, view)
	}

	c.JSON(http.StatusOK, resp)
}
