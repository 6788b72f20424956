package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/repos"
	"github.com/freshfold/freshfold-backend/internal/types"
)

// LoyaltyPolicy holds the configurable earning and tiering constants.
type LoyaltyPolicy struct {
	// PointsPerUnit is the number of points credited per currency unit of a
	// completed order's total.
	PointsPerUnit decimal.Decimal
	// Tier thresholds on cumulative spend, ascending.
	SilverThreshold   decimal.Decimal
	GoldThreshold     decimal.Decimal
	PlatinumThreshold decimal.Decimal
}

func DefaultLoyaltyPolicy() LoyaltyPolicy {
	return LoyaltyPolicy{
		PointsPerUnit:     decimal.NewFromInt(1),
		SilverThreshold:   decimal.NewFromInt(200),
		GoldThreshold:     decimal.NewFromInt(500),
		PlatinumThreshold: decimal.NewFromInt(1000),
	}
}

// TierFor is a pure function of cumulative spend.
func (p LoyaltyPolicy) TierFor(totalSpent decimal.Decimal) string {
	switch {
	case totalSpent.GreaterThanOrEqual(p.PlatinumThreshold):
		return types.TierPlatinum
	case totalSpent.GreaterThanOrEqual(p.GoldThreshold):
		return types.TierGold
	case totalSpent.GreaterThanOrEqual(p.SilverThreshold):
		return types.TierSilver
	default:
		return types.TierBronze
	}
}

// PointsFor converts an order total into earned points, truncating toward zero.
func (p LoyaltyPolicy) PointsFor(total decimal.Decimal) int {
	return int(total.Mul(p.PointsPerUnit).IntPart())
}

type LoyaltyService interface {
	EnsureProfile(ctx context.Context, userID uuid.UUID) (*types.CustomerProfile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.CustomerProfile, error)

	// Earn appends a positive ledger entry and credits the cached balance in
	// one atomic unit.
	Earn(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, points int, description string, orderID *uuid.UUID) (*types.LoyaltyTransaction, error)
	// Redeem appends a negative ledger entry and debits the cached balance.
	// The balance check and the debit are one conditional statement, so the
	// balance can never go negative even under concurrent redemptions.
	Redeem(ctx context.Context, customerID uuid.UUID, points int, description string) (*types.LoyaltyTransaction, error)

	// RecordCompletedOrder updates the customer's cumulative aggregates,
	// recomputes the tier, and credits points for the order total, creating
	// the profile first if the customer never had one. Runs
	// entirely inside the supplied transaction: partial application is a
	// correctness bug, not a degraded state.
	RecordCompletedOrder(ctx context.Context, tx *gorm.DB, order *types.Order) (int, error)

	ListTransactions(ctx context.Context, customerID uuid.UUID) ([]*types.LoyaltyTransaction, error)
	Policy() LoyaltyPolicy
}

type loyaltyService struct {
	db          *gorm.DB
	log         *logger.Logger
	policy      LoyaltyPolicy
	profileRepo repos.CustomerProfileRepo
	ledgerRepo  repos.LoyaltyTransactionRepo
	now         func() time.Time
}

func NewLoyaltyService(
	db *gorm.DB,
	log *logger.Logger,
	policy LoyaltyPolicy,
	profileRepo repos.CustomerProfileRepo,
	ledgerRepo repos.LoyaltyTransactionRepo,
) LoyaltyService {
	if policy.PointsPerUnit.IsZero() {
		policy = DefaultLoyaltyPolicy()
	}
	return &loyaltyService{
		db:          db,
		log:         log.With("service", "LoyaltyService"),
		policy:      policy,
		profileRepo: profileRepo,
		ledgerRepo:  ledgerRepo,
		now:         time.Now,
	}
}

func (ls *loyaltyService) Policy() LoyaltyPolicy { return ls.policy }

func (ls *loyaltyService) EnsureProfile(ctx context.Context, userID uuid.UUID) (*types.CustomerProfile, error) {
	profile, err := ls.profileRepo.GetByUserID(ctx, nil, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	profile = &types.CustomerProfile{
		ID:             uuid.New(),
		UserID:         userID,
		MembershipTier: types.TierBronze,
	}
	if _, err := ls.profileRepo.Create(ctx, nil, profile); err != nil {
		if existing, getErr := ls.profileRepo.GetByUserID(ctx, nil, userID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	ls.log.Info("Customer profile created", "user_id", userID)
	return profile, nil
}

func (ls *loyaltyService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.CustomerProfile, error) {
	profile, err := ls.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("customer profile not found")
		}
		return nil, err
	}
	return profile, nil
}

func (ls *loyaltyService) Earn(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, points int, description string, orderID *uuid.UUID) (*types.LoyaltyTransaction, error) {
	if points <= 0 {
		return nil, apierr.Validation("points to earn must be positive, got %d", points)
	}
	entry := &types.LoyaltyTransaction{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Type:        types.LoyaltyTypeEarned,
		Points:      points,
		Description: description,
		OrderID:     orderID,
	}
	run := func(tx *gorm.DB) error {
		if _, err := ls.ledgerRepo.Append(ctx, tx, entry); err != nil {
			return err
		}
		return ls.profileRepo.Credit(ctx, tx, customerID, points)
	}
	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
	} else if err := ls.db.WithContext(ctx).Transaction(run); err != nil {
		return nil, err
	}
	return entry, nil
}

func (ls *loyaltyService) Redeem(ctx context.Context, customerID uuid.UUID, points int, description string) (*types.LoyaltyTransaction, error) {
	if points <= 0 {
		return nil, apierr.Validation("points to redeem must be positive, got %d", points)
	}
	entry := &types.LoyaltyTransaction{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Type:        types.LoyaltyTypeRedeemed,
		Points:      -points,
		Description: description,
	}
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied, err := ls.profileRepo.Debit(ctx, tx, customerID, points)
		if err != nil {
			return err
		}
		if !applied {
			profile, getErr := ls.profileRepo.GetByUserID(ctx, tx, customerID)
			if getErr != nil {
				if errors.Is(getErr, gorm.ErrRecordNotFound) {
					return apierr.NotFound("customer profile not found")
				}
				return getErr
			}
			return apierr.InsufficientBalance(profile.LoyaltyPoints,
				"cannot redeem %d points, balance is %d", points, profile.LoyaltyPoints)
		}
		_, err = ls.ledgerRepo.Append(ctx, tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	ls.log.Info("Points redeemed", "customer_id", customerID, "points", points)
	return entry, nil
}

func (ls *loyaltyService) RecordCompletedOrder(ctx context.Context, tx *gorm.DB, order *types.Order) (int, error) {
	if tx == nil {
		return 0, fmt.Errorf("RecordCompletedOrder requires an enclosing transaction")
	}
	profile, err := ls.profileRepo.GetByUserID(ctx, tx, order.CustomerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		// First completed order for a customer who never touched their
		// profile: create it here, inside the same transaction.
		profile = &types.CustomerProfile{
			ID:             uuid.New(),
			UserID:         order.CustomerID,
			MembershipTier: types.TierBronze,
		}
		if _, err := ls.profileRepo.Create(ctx, tx, profile); err != nil {
			return 0, err
		}
		ls.log.Info("Customer profile created on order completion", "user_id", order.CustomerID)
	}

	now := ls.now()
	profile.TotalSpent = profile.TotalSpent.Add(order.TotalAmount)
	profile.TotalOrders++
	profile.AverageOrderValue = profile.TotalSpent.
		Div(decimal.NewFromInt(int64(profile.TotalOrders))).
		Round(2)
	if profile.FirstOrderDate == nil {
		first := now
		profile.FirstOrderDate = &first
	}
	last := now
	profile.LastOrderDate = &last
	profile.MembershipTier = ls.policy.TierFor(profile.TotalSpent)

	if err := ls.profileRepo.Save(ctx, tx, profile); err != nil {
		return 0, err
	}

	points := ls.policy.PointsFor(order.TotalAmount)
	if points <= 0 {
		return 0, nil
	}
	orderID := order.ID
	if _, err := ls.Earn(ctx, tx, order.CustomerID, points,
		fmt.Sprintf("Points earned for order %s", order.OrderNumber), &orderID); err != nil {
		return 0, err
	}
	return points, nil
}

func (ls *loyaltyService) ListTransactions(ctx context.Context, customerID uuid.UUID) ([]*types.LoyaltyTransaction, error) {
	return ls.ledgerRepo.ListByCustomer(ctx, nil, customerID)
}
