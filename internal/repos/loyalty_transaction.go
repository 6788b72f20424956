package repos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

// LoyaltyTransactionRepo is append-only: the ledger is never rewritten.
type LoyaltyTransactionRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.LoyaltyTransaction) (*types.LoyaltyTransaction, error)
	ListByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) ([]*types.LoyaltyTransaction, error)
	// SumByCustomer derives the balance of record from the ledger.
	SumByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (int, error)
}

type loyaltyTransactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoyaltyTransactionRepo(db *gorm.DB, baseLog *logger.Logger) LoyaltyTransactionRepo {
	return &loyaltyTransactionRepo{db: db, log: baseLog.With("repo", "LoyaltyTransactionRepo")}
}

func (ltr *loyaltyTransactionRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.LoyaltyTransaction) (*types.LoyaltyTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = ltr.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (ltr *loyaltyTransactionRepo) ListByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) ([]*types.LoyaltyTransaction, error) {
	transaction := tx
	if transaction == nil {
		transaction = ltr.db
	}
	var results []*types.LoyaltyTransaction
	if err := transaction.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ltr *loyaltyTransactionRepo) SumByCustomer(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = ltr.db
	}
	var sum sql.NullInt64
	if err := transaction.WithContext(ctx).
		Model(&types.LoyaltyTransaction{}).
		Where("customer_id = ?", customerID).
		Select("SUM(points)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return int(sum.Int64), nil
}
