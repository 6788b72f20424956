package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type OrderItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.OrderItem) ([]*types.OrderItem, error)
	GetForOrder(ctx context.Context, tx *gorm.DB, orderID, itemID uuid.UUID) (*types.OrderItem, error)
	ListByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.OrderItem, error)
	Delete(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error
}

type orderItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderItemRepo(db *gorm.DB, baseLog *logger.Logger) OrderItemRepo {
	return &orderItemRepo{db: db, log: baseLog.With("repo", "OrderItemRepo")}
}

func (oir *orderItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.OrderItem) ([]*types.OrderItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = oir.db
	}
	if len(items) == 0 {
		return []*types.OrderItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (oir *orderItemRepo) GetForOrder(ctx context.Context, tx *gorm.DB, orderID, itemID uuid.UUID) (*types.OrderItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = oir.db
	}
	var result types.OrderItem
	if err := transaction.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (oir *orderItemRepo) ListByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.OrderItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = oir.db
	}
	var results []*types.OrderItem
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (oir *orderItemRepo) Delete(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = oir.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&types.OrderItem{}).Error
}
