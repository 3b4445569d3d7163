package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeedbackEntry is one "did movie X fit mood Y" answer. Append-only; the
// penalty computation reads the most recent entries per user, oldest first.
type FeedbackEntry struct {
	ID            uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID                  `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User                      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TMDBID        int64                      `gorm:"column:tmdb_id;not null" json:"tmdb_id"`
	MoodText      string                     `gorm:"column:mood_text" json:"mood_text"`
	TimeAvailable int                        `gorm:"column:time_available" json:"time_available"`
	Energy        Energy                     `gorm:"column:energy" json:"energy"`
	Result        string                     `gorm:"column:result;not null" json:"result"`
	GenreIDs      datatypes.JSONSlice[int64] `gorm:"column:genre_ids" json:"genre_ids"`
	CreatedAt     time.Time                  `gorm:"not null;default:now();index" json:"created_at"`
	DeletedAt     gorm.DeletedAt             `gorm:"index" json:"deleted_at,omitempty"`
}

func (FeedbackEntry) TableName() string { return "feedback_entry" }

const (
	FeedbackResultYes = "yes"
	FeedbackResultNo  = "no"
)
