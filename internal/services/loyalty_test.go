package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/types"
)

func TestTierFor(t *testing.T) {
	policy := DefaultLoyaltyPolicy()
	tests := []struct {
		spent string
		want  string
	}{
		{"0", types.TierBronze},
		{"199.99", types.TierBronze},
		{"200", types.TierSilver},
		{"499.99", types.TierSilver},
		{"500", types.TierGold},
		{"999.99", types.TierGold},
		{"1000", types.TierPlatinum},
		{"25000", types.TierPlatinum},
	}
	for _, tt := range tests {
		got := policy.TierFor(decimal.RequireFromString(tt.spent))
		assert.Equal(t, tt.want, got, "spent %s", tt.spent)
	}
}

func TestPointsForTruncates(t *testing.T) {
	policy := DefaultLoyaltyPolicy()
	assert.Equal(t, 57, policy.PointsFor(decimal.RequireFromString("57.48")))
	assert.Equal(t, 57, policy.PointsFor(decimal.RequireFromString("57.99")))
	assert.Equal(t, 0, policy.PointsFor(decimal.RequireFromString("0.99")))
}

func TestEnsureProfileIsIdempotent(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	ctx := context.Background()

	first, err := f.loyalty.EnsureProfile(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TierBronze, first.MembershipTier)
	assert.Zero(t, first.LoyaltyPoints)

	second, err := f.loyalty.EnsureProfile(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEarnAndRedeem(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	ctx := context.Background()

	_, err := f.loyalty.EnsureProfile(ctx, customer.ID)
	require.NoError(t, err)

	_, err = f.loyalty.Earn(ctx, nil, customer.ID, 120, "signup bonus", nil)
	require.NoError(t, err)

	entry, err := f.loyalty.Redeem(ctx, customer.ID, 50, "free pressing")
	require.NoError(t, err)
	assert.Equal(t, -50, entry.Points)
	assert.Equal(t, types.LoyaltyTypeRedeemed, entry.Type)

	profile, err := f.loyalty.GetProfile(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, profile.LoyaltyPoints)
}

func TestEarnRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	ctx := context.Background()
	for _, points := range []int{0, -5} {
		_, err := f.loyalty.Earn(ctx, nil, customer.ID, points, "x", nil)
		require.Error(t, err)
		assert.True(t, apierr.Is(err, apierr.CodeValidation))
	}
}

func TestRedeemInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	ctx := context.Background()

	_, err := f.loyalty.EnsureProfile(ctx, customer.ID)
	require.NoError(t, err)
	_, err = f.loyalty.Earn(ctx, nil, customer.ID, 30, "bonus", nil)
	require.NoError(t, err)

	_, err = f.loyalty.Redeem(ctx, customer.ID, 31, "too much")
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.CodeInsufficientBalance))
	assert.Equal(t, 30, apierr.From(err).Meta["remaining_points"])

	// failed redemption leaves no ledger entry
	transactions, err := f.loyalty.ListTransactions(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

// The cached balance is a projection of the ledger; after any sequence of
// earns and redemptions the two must agree.
func TestBalanceEqualsLedgerSum(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	ctx := context.Background()

	_, err := f.loyalty.EnsureProfile(ctx, customer.ID)
	require.NoError(t, err)

	ops := []struct {
		earn   int
		redeem int
	}{
		{earn: 100}, {redeem: 40}, {earn: 15}, {redeem: 75}, {earn: 3}, {redeem: 3},
	}
	for _, op := range ops {
		if op.earn > 0 {
			_, err = f.loyalty.Earn(ctx, nil, customer.ID, op.earn, "earn", nil)
		} else {
			_, err = f.loyalty.Redeem(ctx, customer.ID, op.redeem, "redeem")
		}
		require.NoError(t, err)

		profile, err := f.loyalty.GetProfile(ctx, customer.ID)
		require.NoError(t, err)
		sum, err := f.ledger.SumByCustomer(ctx, nil, customer.ID)
		require.NoError(t, err)
		require.Equal(t, sum, profile.LoyaltyPoints)
		require.GreaterOrEqual(t, profile.LoyaltyPoints, 0)
	}
}

func TestConcurrentRedeemNeverOverdraws(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	ctx := context.Background()

	_, err := f.loyalty.EnsureProfile(ctx, customer.ID)
	require.NoError(t, err)
	_, err = f.loyalty.Earn(ctx, nil, customer.ID, 50, "bonus", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.loyalty.Redeem(ctx, customer.ID, 30, "race")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.True(t, apierr.Is(err, apierr.CodeInsufficientBalance), "unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, succeeded, "exactly one of two competing redemptions may win")

	profile, err := f.loyalty.GetProfile(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, profile.LoyaltyPoints)

	sum, err := f.ledger.SumByCustomer(ctx, nil, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, sum)
}

func TestTierPromotionOnCompletedOrders(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	price := f.createPrice(t, shop.ID, "Dry Cleaning", "Bulk", "150.00")
	ctx := context.Background()

	_, err := f.loyalty.EnsureProfile(ctx, customer.ID)
	require.NoError(t, err)

	complete := func() {
		order := f.createOrder(t, customer.ID, shop.ID)
		_, err := f.orderSvc.AddItem(ctx, order.ID, price.ID, 1, "")
		require.NoError(t, err)
		for _, status := range []types.OrderStatus{
			types.OrderStatusConfirmed, types.OrderStatusInProgress,
			types.OrderStatusReady, types.OrderStatusCompleted,
		} {
			_, err = f.statusSvc.Transition(ctx, order.ID, status, staff.ID, "")
			require.NoError(t, err)
		}
	}

	tierAfter := func(n int) string {
		profile, err := f.loyalty.GetProfile(ctx, customer.ID)
		require.NoError(t, err)
		require.Equal(t, n, profile.TotalOrders)
		require.True(t, profile.AverageOrderValue.Equal(decimal.RequireFromString("150.00")),
			"average = %s", profile.AverageOrderValue)
		return profile.MembershipTier
	}

	complete()
	assert.Equal(t, types.TierBronze, tierAfter(1)) // 150 spent
	complete()
	assert.Equal(t, types.TierSilver, tierAfter(2)) // 300 spent
	complete()
	complete()
	assert.Equal(t, types.TierGold, tierAfter(4)) // 600 spent
	complete()
	complete()
	complete()
	assert.Equal(t, types.TierPlatinum, tierAfter(7)) // 1050 spent
}

func TestListTransactionsScopedToCustomer(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, types.RoleCustomer)
	bob := f.createUser(t, types.RoleCustomer)
	ctx := context.Background()

	for _, id := range []uuid.UUID{alice.ID, bob.ID} {
		_, err := f.loyalty.EnsureProfile(ctx, id)
		require.NoError(t, err)
	}
	_, err := f.loyalty.Earn(ctx, nil, alice.ID, 10, "a", nil)
	require.NoError(t, err)
	_, err = f.loyalty.Earn(ctx, nil, bob.ID, 20, "b", nil)
	require.NoError(t, err)

	aliceTxns, err := f.loyalty.ListTransactions(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceTxns, 1)
	assert.Equal(t, 10, aliceTxns[0].Points)
}
