package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/threepicks-backend/internal/middleware"
	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/services"
)

type FeedbackHandler struct {
	log      *logger.Logger
	feedback services.FeedbackService
}

func NewFeedbackHandler(log *logger.Logger, feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		log:      log.With("handler", "FeedbackHandler"),
		feedback: feedback,
	}
}

// POST /api/feedback
func (h *FeedbackHandler) SaveFeedback(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input services.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.feedback.Save(c.Request.Context(), userID, input); err != nil {
		if validationErr := input.Validate(); validationErr != nil {
			respondBadRequest(c, validationErr)
			return
		}
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
