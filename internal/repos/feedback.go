package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/threepicks-backend/internal/platform/logger"
	"github.com/yungbote/threepicks-backend/internal/types"
)

type FeedbackRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.FeedbackEntry) (*types.FeedbackEntry, error)
	RecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.FeedbackEntry, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (r *feedbackRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.FeedbackEntry) (*types.FeedbackEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if entry == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// RecentByUser returns the newest entries for a user, ordered oldest to
// newest so penalty computation can read them in insertion order.
func (r *feedbackRepo) RecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.FeedbackEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FeedbackEntry
	if userID == uuid.Nil {
		return results, nil
	}
	if limit <= 0 {
		limit = 20
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}
