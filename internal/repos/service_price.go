package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type ServicePriceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, prices []*types.ServicePrice) ([]*types.ServicePrice, error)
	// GetActiveForShop fetches an active price reference scoped to the shop.
	// A price belonging to another shop is reported as not found.
	GetActiveForShop(ctx context.Context, tx *gorm.DB, priceID, shopID uuid.UUID) (*types.ServicePrice, error)
}

type servicePriceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewServicePriceRepo(db *gorm.DB, baseLog *logger.Logger) ServicePriceRepo {
	return &servicePriceRepo{db: db, log: baseLog.With("repo", "ServicePriceRepo")}
}

func (spr *servicePriceRepo) Create(ctx context.Context, tx *gorm.DB, prices []*types.ServicePrice) ([]*types.ServicePrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = spr.db
	}
	if len(prices) == 0 {
		return []*types.ServicePrice{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (spr *servicePriceRepo) GetActiveForShop(ctx context.Context, tx *gorm.DB, priceID, shopID uuid.UUID) (*types.ServicePrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = spr.db
	}
	var result types.ServicePrice
	if err := transaction.WithContext(ctx).
		Where("id = ? AND shop_id = ? AND is_active = ?", priceID, shopID, true).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
