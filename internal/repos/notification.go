package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type NotificationFilter struct {
	Status   types.NotificationStatus
	Priority string
	Limit    int
}

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) (*types.Notification, error)
	GetForRecipient(ctx context.Context, tx *gorm.DB, notificationID, recipientID uuid.UUID) (*types.Notification, error)
	ListByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, filter NotificationFilter, now time.Time) ([]*types.Notification, error)
	UnreadCount(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, now time.Time) (int64, error)
	MarkAllRead(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, now time.Time) (int64, error)
	Save(ctx context.Context, tx *gorm.DB, notification *types.Notification) error
	// DeleteExpiredOrStale removes notifications past their expiry, plus
	// read/archived notifications created before cutoff. Unread, unexpired
	// rows are never touched.
	DeleteExpiredOrStale(ctx context.Context, tx *gorm.DB, now, cutoff time.Time) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if err := transaction.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (nr *notificationRepo) GetForRecipient(ctx context.Context, tx *gorm.DB, notificationID, recipientID uuid.UUID) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var result types.Notification
	if err := transaction.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (nr *notificationRepo) ListByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, filter NotificationFilter, now time.Time) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	query := transaction.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Where("expires_at IS NULL OR expires_at > ?", now)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	var results []*types.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *notificationRepo) UnreadCount(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, types.NotificationUnread).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (nr *notificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, types.NotificationUnread).
		Updates(map[string]any{
			"status":  types.NotificationRead,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

func (nr *notificationRepo) Save(ctx context.Context, tx *gorm.DB, notification *types.Notification) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).Save(notification).Error
}

func (nr *notificationRepo) DeleteExpiredOrStale(ctx context.Context, tx *gorm.DB, now, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	result := transaction.WithContext(ctx).
		Where("expires_at < ?", now).
		Or("created_at < ? AND status IN ?", cutoff, []types.NotificationStatus{types.NotificationRead, types.NotificationArchived}).
		Delete(&types.Notification{})
	return result.RowsAffected, result.Error
}
