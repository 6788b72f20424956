package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error)
	GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error)
	// GetByIDLocked fetches the order row with a write lock so that
	// concurrent item mutations against the same order serialize.
	GetByIDLocked(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error)
	ListByShop(ctx context.Context, tx *gorm.DB, shopID uuid.UUID, status types.OrderStatus) ([]*types.Order, error)
	ListByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) ([]*types.Order, error)
	UpdateTotals(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, subtotal, total decimal.Decimal) error
	Save(ctx context.Context, tx *gorm.DB, order *types.Order) error
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (or *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if err := transaction.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (or *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var result types.Order
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (or *orderRepo) GetByIDLocked(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	query := transaction.WithContext(ctx)
	// sqlite has no FOR UPDATE and serializes writers on its own
	if transaction.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var result types.Order
	if err := query.
		Where("id = ?", orderID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (or *orderRepo) ListByShop(ctx context.Context, tx *gorm.DB, shopID uuid.UUID, status types.OrderStatus) ([]*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	query := transaction.WithContext(ctx).
		Preload("Items").
		Where("shop_id = ?", shopID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var results []*types.Order
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *orderRepo) ListByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) ([]*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.Order
	if err := transaction.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *orderRepo) UpdateTotals(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, subtotal, total decimal.Decimal) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"subtotal":     subtotal,
			"total_amount": total,
		}).Error
}

func (or *orderRepo) Save(ctx context.Context, tx *gorm.DB, order *types.Order) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).Save(order).Error
}
