package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/repos"
	"github.com/freshfold/freshfold-backend/internal/types"
)

func TestTransitionAllowed(t *testing.T) {
	allowed := []struct{ from, to types.OrderStatus }{
		{types.OrderStatusPending, types.OrderStatusConfirmed},
		{types.OrderStatusPending, types.OrderStatusCancelled},
		{types.OrderStatusReceived, types.OrderStatusConfirmed},
		{types.OrderStatusReceived, types.OrderStatusCancelled},
		{types.OrderStatusConfirmed, types.OrderStatusInProgress},
		{types.OrderStatusConfirmed, types.OrderStatusCancelled},
		{types.OrderStatusInProgress, types.OrderStatusReady},
		{types.OrderStatusInProgress, types.OrderStatusCancelled},
		{types.OrderStatusReady, types.OrderStatusCompleted},
		{types.OrderStatusReady, types.OrderStatusCancelled},
	}
	for _, tt := range allowed {
		assert.True(t, transitionAllowed(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct{ from, to types.OrderStatus }{
		{types.OrderStatusPending, types.OrderStatusInProgress},
		{types.OrderStatusPending, types.OrderStatusReady},
		{types.OrderStatusPending, types.OrderStatusCompleted},
		{types.OrderStatusConfirmed, types.OrderStatusReady},
		{types.OrderStatusConfirmed, types.OrderStatusCompleted},
		{types.OrderStatusInProgress, types.OrderStatusCompleted},
		{types.OrderStatusReady, types.OrderStatusInProgress},
		{types.OrderStatusCompleted, types.OrderStatusCancelled},
		{types.OrderStatusCompleted, types.OrderStatusPending},
		{types.OrderStatusCancelled, types.OrderStatusConfirmed},
		{types.OrderStatusCancelled, types.OrderStatusCompleted},
	}
	for _, tt := range denied {
		assert.False(t, transitionAllowed(tt.from, tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestTransitionHappyPath(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	suit := f.createPrice(t, shop.ID, "Dry Cleaning", "Suit", "50.00")
	ctx := context.Background()

	order := f.createOrder(t, customer.ID, shop.ID)
	_, err := f.orderSvc.AddItem(ctx, order.ID, suit.ID, 2, "")
	require.NoError(t, err)

	steps := []types.OrderStatus{
		types.OrderStatusConfirmed,
		types.OrderStatusInProgress,
		types.OrderStatusReady,
		types.OrderStatusCompleted,
	}
	var got *types.Order
	for _, status := range steps {
		got, err = f.statusSvc.Transition(ctx, order.ID, status, staff.ID, "")
		require.NoError(t, err, "transition to %s", status)
		assert.Equal(t, status, got.Status)
	}
	require.NotNil(t, got.ConfirmedAt)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.Before(*got.ConfirmedAt))

	history, err := f.statusSvc.ListHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	// newest first
	assert.Equal(t, types.OrderStatusCompleted, history[0].Status)
	assert.Equal(t, types.OrderStatusConfirmed, history[3].Status)
	for _, entry := range history {
		assert.Equal(t, staff.ID, entry.ChangedByID)
	}
}

func TestTransitionRejectsSkippingStates(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	ctx := context.Background()

	order := f.createOrder(t, customer.ID, shop.ID)
	_, err := f.statusSvc.Transition(ctx, order.ID, types.OrderStatusCompleted, staff.ID, "")
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeInvalidTransition))

	// failed attempt leaves no trace
	history, err := f.statusSvc.ListHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	got, err := f.orderSvc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, got.Status)
}

func TestTransitionUnknownStatus(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)

	order := f.createOrder(t, customer.ID, shop.ID)
	_, err := f.statusSvc.Transition(context.Background(), order.ID, "teleported", staff.ID, "")
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeValidation))
}

func TestTransitionNoOpIsIdempotent(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	ctx := context.Background()

	order := f.createOrder(t, customer.ID, shop.ID)
	_, err := f.statusSvc.Transition(ctx, order.ID, types.OrderStatusConfirmed, staff.ID, "")
	require.NoError(t, err)

	got, err := f.statusSvc.Transition(ctx, order.ID, types.OrderStatusConfirmed, staff.ID, "again")
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusConfirmed, got.Status)

	history, err := f.statusSvc.ListHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "no-op must not append history")
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	ctx := context.Background()

	order := f.createOrder(t, customer.ID, shop.ID)
	_, err := f.statusSvc.Transition(ctx, order.ID, types.OrderStatusCancelled, staff.ID, "customer left town")
	require.NoError(t, err)

	for _, status := range []types.OrderStatus{
		types.OrderStatusPending,
		types.OrderStatusConfirmed,
		types.OrderStatusCompleted,
	} {
		_, err := f.statusSvc.Transition(ctx, order.ID, status, staff.ID, "")
		require.Error(t, err, "cancelled -> %s", status)
		assert.True(t, apierr.Is(err, apierr.CodeInvalidTransition))
	}
}

func TestCancellableFromEveryNonTerminalState(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	ctx := context.Background()

	paths := [][]types.OrderStatus{
		{},
		{types.OrderStatusConfirmed},
		{types.OrderStatusConfirmed, types.OrderStatusInProgress},
		{types.OrderStatusConfirmed, types.OrderStatusInProgress, types.OrderStatusReady},
	}
	for _, path := range paths {
		order := f.createOrder(t, customer.ID, shop.ID)
		for _, status := range path {
			_, err := f.statusSvc.Transition(ctx, order.ID, status, staff.ID, "")
			require.NoError(t, err)
		}
		got, err := f.statusSvc.Transition(ctx, order.ID, types.OrderStatusCancelled, staff.ID, "")
		require.NoError(t, err)
		assert.Equal(t, types.OrderStatusCancelled, got.Status)
	}
}

func TestCompletionCreditsLoyalty(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	suit := f.createPrice(t, shop.ID, "Dry Cleaning", "Suit", "50.00")
	ctx := context.Background()

	_, err := f.loyalty.EnsureProfile(ctx, customer.ID)
	require.NoError(t, err)

	order := f.createOrder(t, customer.ID, shop.ID)
	_, err = f.orderSvc.AddItem(ctx, order.ID, suit.ID, 2, "")
	require.NoError(t, err)

	for _, status := range []types.OrderStatus{
		types.OrderStatusConfirmed,
		types.OrderStatusInProgress,
		types.OrderStatusReady,
		types.OrderStatusCompleted,
	} {
		_, err = f.statusSvc.Transition(ctx, order.ID, status, staff.ID, "")
		require.NoError(t, err)
	}

	profile, err := f.loyalty.GetProfile(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, profile.LoyaltyPoints)
	assert.Equal(t, 1, profile.TotalOrders)
	assert.True(t, profile.TotalSpent.Equal(decimal.NewFromInt(100)), "total spent = %s", profile.TotalSpent)
	require.NotNil(t, profile.FirstOrderDate)
	require.NotNil(t, profile.LastOrderDate)

	transactions, err := f.loyalty.ListTransactions(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, types.LoyaltyTypeEarned, transactions[0].Type)
	assert.Equal(t, 100, transactions[0].Points)
	require.NotNil(t, transactions[0].OrderID)
	assert.Equal(t, order.ID, *transactions[0].OrderID)

	// the customer is told about the status change and the earned points
	notifications, err := f.notifications.List(ctx, customer.ID, repos.NotificationFilter{})
	require.NoError(t, err)
	var sawPoints bool
	for _, n := range notifications {
		if n.Title == "You earned 100 points" {
			sawPoints = true
		}
	}
	assert.True(t, sawPoints, "expected a points_earned notification")
}

// A customer who never fetched their profile must still be able to have an
// order completed: the profile is created inside the completion transaction.
func TestCompletionCreatesMissingProfile(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	suit := f.createPrice(t, shop.ID, "Dry Cleaning", "Suit", "50.00")
	ctx := context.Background()

	_, err := f.loyalty.GetProfile(ctx, customer.ID)
	require.Error(t, err, "no profile exists before completion")

	order := f.createOrder(t, customer.ID, shop.ID)
	_, err = f.orderSvc.AddItem(ctx, order.ID, suit.ID, 1, "")
	require.NoError(t, err)
	for _, status := range []types.OrderStatus{
		types.OrderStatusConfirmed, types.OrderStatusInProgress,
		types.OrderStatusReady, types.OrderStatusCompleted,
	} {
		_, err = f.statusSvc.Transition(ctx, order.ID, status, staff.ID, "")
		require.NoError(t, err)
	}

	profile, err := f.loyalty.GetProfile(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, profile.LoyaltyPoints)
	assert.Equal(t, 1, profile.TotalOrders)
	assert.Equal(t, types.TierBronze, profile.MembershipTier)

	got, err := f.orderSvc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

// The order a transition returns must carry its items, same as GetOrder.
func TestTransitionReturnsItems(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	suit := f.createPrice(t, shop.ID, "Dry Cleaning", "Suit", "15.99")
	ctx := context.Background()

	order := f.createOrder(t, customer.ID, shop.ID)
	_, err := f.orderSvc.AddItem(ctx, order.ID, suit.ID, 2, "")
	require.NoError(t, err)

	got, err := f.statusSvc.Transition(ctx, order.ID, types.OrderStatusConfirmed, staff.ID, "")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("31.98")))

	// no-op path returns the same representation
	same, err := f.statusSvc.Transition(ctx, order.ID, types.OrderStatusConfirmed, staff.ID, "")
	require.NoError(t, err)
	assert.Len(t, same.Items, 1)
}

func TestTransitionStampsTimes(t *testing.T) {
	f := newFixture(t)
	customer := f.createUser(t, types.RoleCustomer)
	staff := f.createUser(t, types.RoleStaff)
	shop := f.createShop(t)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	f.statusSvc.(*orderStatusService).now = func() time.Time { return fixed }

	order := f.createOrder(t, customer.ID, shop.ID)
	got, err := f.statusSvc.Transition(ctx, order.ID, types.OrderStatusConfirmed, staff.ID, "")
	require.NoError(t, err)
	require.NotNil(t, got.ConfirmedAt)
	assert.True(t, got.ConfirmedAt.Equal(fixed))
}
