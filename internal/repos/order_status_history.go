package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

// OrderStatusHistoryRepo only appends and reads. There is deliberately no
// update or delete: history rows are immutable audit records.
type OrderStatusHistoryRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.OrderStatusHistory) (*types.OrderStatusHistory, error)
	ListByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.OrderStatusHistory, error)
}

type orderStatusHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderStatusHistoryRepo(db *gorm.DB, baseLog *logger.Logger) OrderStatusHistoryRepo {
	return &orderStatusHistoryRepo{db: db, log: baseLog.With("repo", "OrderStatusHistoryRepo")}
}

func (hr *orderStatusHistoryRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.OrderStatusHistory) (*types.OrderStatusHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (hr *orderStatusHistoryRepo) ListByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*types.OrderStatusHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	var results []*types.OrderStatusHistory
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
