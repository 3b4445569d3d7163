package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
)

const userIDKey = "user_id"

// UserProvisioner creates the backing user row for a first-seen id.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, userID uuid.UUID) error
}

type UserMiddleware struct {
	log   *logger.Logger
	users UserProvisioner
}

func NewUserMiddleware(log *logger.Logger, users UserProvisioner) *UserMiddleware {
	return &UserMiddleware{
		log:   log.With("middleware", "UserMiddleware"),
		users: users,
	}
}

// RequireUser trusts the authenticating proxy in front of this service and
// reads the caller identity from X-User-ID. Requests without a valid uuid
// are rejected. Valid ids get their user row provisioned on first sight;
// provisioning is best-effort and never blocks the request.
func (m *UserMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID"})
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-User-ID"})
			return
		}
		if m.users != nil {
			if err := m.users.EnsureUser(c.Request.Context(), userID); err != nil {
				m.log.Warn("User provisioning failed", "user_id", userID, "error", err.Error())
			}
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireUser.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
