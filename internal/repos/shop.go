package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type ShopRepo interface {
	Create(ctx context.Context, tx *gorm.DB, shops []*types.Shop) ([]*types.Shop, error)
	GetByID(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) (*types.Shop, error)
	// CustomerIDs returns the distinct customers who have placed at least one
	// order at the shop. Used for shop-derived batch notification targeting.
	CustomerIDs(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) ([]uuid.UUID, error)
}

type shopRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShopRepo(db *gorm.DB, baseLog *logger.Logger) ShopRepo {
	return &shopRepo{db: db, log: baseLog.With("repo", "ShopRepo")}
}

func (sr *shopRepo) Create(ctx context.Context, tx *gorm.DB, shops []*types.Shop) ([]*types.Shop, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(shops) == 0 {
		return []*types.Shop{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (sr *shopRepo) GetByID(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) (*types.Shop, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Shop
	if err := transaction.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", shopID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *shopRepo) CustomerIDs(ctx context.Context, tx *gorm.DB, shopID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Order{}).
		Distinct("customer_id").
		Where("shop_id = ?", shopID).
		Pluck("customer_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
