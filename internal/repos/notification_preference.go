package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type NotificationPreferenceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, prefs *types.NotificationPreference) (*types.NotificationPreference, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.NotificationPreference, error)
	Save(ctx context.Context, tx *gorm.DB, prefs *types.NotificationPreference) error
}

type notificationPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) NotificationPreferenceRepo {
	return &notificationPreferenceRepo{db: db, log: baseLog.With("repo", "NotificationPreferenceRepo")}
}

func (npr *notificationPreferenceRepo) Create(ctx context.Context, tx *gorm.DB, prefs *types.NotificationPreference) (*types.NotificationPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = npr.db
	}
	if err := transaction.WithContext(ctx).Create(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

func (npr *notificationPreferenceRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.NotificationPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = npr.db
	}
	var result types.NotificationPreference
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (npr *notificationPreferenceRepo) Save(ctx context.Context, tx *gorm.DB, prefs *types.NotificationPreference) error {
	transaction := tx
	if transaction == nil {
		transaction = npr.db
	}
	return transaction.WithContext(ctx).Save(prefs).Error
}
