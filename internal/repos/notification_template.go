package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type NotificationTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, templates []*types.NotificationTemplate) ([]*types.NotificationTemplate, error)
	GetActiveByName(ctx context.Context, tx *gorm.DB, name string) (*types.NotificationTemplate, error)
	NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error)
}

type notificationTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationTemplateRepo(db *gorm.DB, baseLog *logger.Logger) NotificationTemplateRepo {
	return &notificationTemplateRepo{db: db, log: baseLog.With("repo", "NotificationTemplateRepo")}
}

func (ntr *notificationTemplateRepo) Create(ctx context.Context, tx *gorm.DB, templates []*types.NotificationTemplate) ([]*types.NotificationTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = ntr.db
	}
	if len(templates) == 0 {
		return []*types.NotificationTemplate{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (ntr *notificationTemplateRepo) GetActiveByName(ctx context.Context, tx *gorm.DB, name string) (*types.NotificationTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = ntr.db
	}
	var result types.NotificationTemplate
	if err := transaction.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ntr *notificationTemplateRepo) NameExists(ctx context.Context, tx *gorm.DB, name string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ntr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.NotificationTemplate{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
