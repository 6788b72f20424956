package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type NotificationBatchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, batch *types.NotificationBatch) (*types.NotificationBatch, error)
	Save(ctx context.Context, tx *gorm.DB, batch *types.NotificationBatch) error
}

type notificationBatchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationBatchRepo(db *gorm.DB, baseLog *logger.Logger) NotificationBatchRepo {
	return &notificationBatchRepo{db: db, log: baseLog.With("repo", "NotificationBatchRepo")}
}

func (nbr *notificationBatchRepo) Create(ctx context.Context, tx *gorm.DB, batch *types.NotificationBatch) (*types.NotificationBatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = nbr.db
	}
	if err := transaction.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func (nbr *notificationBatchRepo) Save(ctx context.Context, tx *gorm.DB, batch *types.NotificationBatch) error {
	transaction := tx
	if transaction == nil {
		transaction = nbr.db
	}
	return transaction.WithContext(ctx).Save(batch).Error
}
