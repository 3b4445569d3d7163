package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserEvent is a fire-and-forget activity log row (search / pick / feedback).
// Written by the orchestrating layer; never read by the selection core.
type UserEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind      string         `gorm:"column:kind;not null" json:"kind"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (UserEvent) TableName() string { return "user_event" }

const (
	EventKindSearch   = "search"
	EventKindPick     = "pick"
	EventKindFeedback = "feedback"
)
