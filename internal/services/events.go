package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/repos"
	"github.com/yungbote/threepicks-backend/internal/types"
)

// recordEvent writes one activity-log row, fire-and-forget: a failed write is
// logged and swallowed, never surfaced to the request.
func recordEvent(ctx context.Context, eventRepo repos.UserEventRepo, log *logger.Logger, userID uuid.UUID, kind string, payload map[string]any) {
	if eventRepo == nil || userID == uuid.Nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Warn("Event payload marshal failed", "kind", kind, "error", err.Error())
		return
	}
	_, err = eventRepo.Create(ctx, nil, []*types.UserEvent{{
		UserID:  userID,
		Kind:    kind,
		Payload: datatypes.JSON(raw),
	}})
	if err != nil {
		log.Warn("Event write failed", "kind", kind, "user_id", userID, "error", err.Error())
	}
}
