package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/threepicks-backend/internal/clients/tmdb"
	"github.com/yungbote/threepicks-backend/internal/platform/apierr"
	"github.com/yungbote/threepicks-backend/internal/services"
)

// respondError maps service errors onto the two user-visible failure modes
// plus generic API errors. Everything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case tmdb.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "catalog_unavailable",
			"message": "Could not reach the movie catalog. Please try again.",
		})
	case errors.Is(err, services.ErrInsufficientCandidates):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "insufficient_candidates",
			"message": "Not enough movies matched your filters. Try adjusting them.",
		})
	default:
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) && apiErr.Status != 0 {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Code, "message": apiErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "Something went wrong."})
	}
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
}
