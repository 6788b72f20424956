package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type CustomerProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profile *types.CustomerProfile) (*types.CustomerProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.CustomerProfile, error)
	Save(ctx context.Context, tx *gorm.DB, profile *types.CustomerProfile) error
	// Credit unconditionally adds points to the cached balance.
	Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int) error
	// Debit subtracts points only if the cached balance covers them, in a
	// single conditional update. Returns true when the debit applied. This is
	// what makes concurrent redemptions race-safe: the balance check and the
	// decrement are one statement.
	Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int) (bool, error)
}

type customerProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerProfileRepo(db *gorm.DB, baseLog *logger.Logger) CustomerProfileRepo {
	return &customerProfileRepo{db: db, log: baseLog.With("repo", "CustomerProfileRepo")}
}

func (cpr *customerProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *types.CustomerProfile) (*types.CustomerProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}
	if err := transaction.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (cpr *customerProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.CustomerProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}
	var result types.CustomerProfile
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cpr *customerProfileRepo) Save(ctx context.Context, tx *gorm.DB, profile *types.CustomerProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}
	return transaction.WithContext(ctx).Save(profile).Error
}

func (cpr *customerProfileRepo) Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int) error {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CustomerProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points)).Error
}

func (cpr *customerProfileRepo) Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cpr.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.CustomerProfile{}).
		Where("user_id = ? AND loyalty_points >= ?", userID, points).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points - ?", points))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
