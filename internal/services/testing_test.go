package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/freshfold/freshfold-backend/internal/db"
	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/repos"
	"github.com/freshfold/freshfold-backend/internal/types"
)

// newTestDB opens a private in-memory database restricted to a single
// connection so concurrent test goroutines serialize instead of each getting
// an empty database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	require.NoError(t, db.AutoMigrate(database))
	t.Cleanup(func() { sqlDB.Close() })
	return database
}

// fixture bundles the wired services and repos backing one test database.
type fixture struct {
	db *gorm.DB

	users     repos.UserRepo
	shops     repos.ShopRepo
	prices    repos.ServicePriceRepo
	orders    repos.OrderRepo
	items     repos.OrderItemRepo
	history   repos.OrderStatusHistoryRepo
	profiles  repos.CustomerProfileRepo
	ledger    repos.LoyaltyTransactionRepo
	notifs    repos.NotificationRepo
	templates repos.NotificationTemplateRepo
	prefs     repos.NotificationPreferenceRepo
	batches   repos.NotificationBatchRepo

	notifications NotificationService
	loyalty       LoyaltyService
	orderSvc      OrderService
	statusSvc     OrderStatusService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := newTestDB(t)
	log := logger.NewNop()

	f := &fixture{
		db:        database,
		users:     repos.NewUserRepo(database, log),
		shops:     repos.NewShopRepo(database, log),
		prices:    repos.NewServicePriceRepo(database, log),
		orders:    repos.NewOrderRepo(database, log),
		items:     repos.NewOrderItemRepo(database, log),
		history:   repos.NewOrderStatusHistoryRepo(database, log),
		profiles:  repos.NewCustomerProfileRepo(database, log),
		ledger:    repos.NewLoyaltyTransactionRepo(database, log),
		notifs:    repos.NewNotificationRepo(database, log),
		templates: repos.NewNotificationTemplateRepo(database, log),
		prefs:     repos.NewNotificationPreferenceRepo(database, log),
		batches:   repos.NewNotificationBatchRepo(database, log),
	}

	f.notifications = NewNotificationService(database, log, NotificationPolicy{},
		f.notifs, f.templates, f.prefs, f.batches, f.shops)
	f.loyalty = NewLoyaltyService(database, log, DefaultLoyaltyPolicy(), f.profiles, f.ledger)
	notifier := NewOrderNotifier(log, f.notifications, f.shops)
	f.orderSvc = NewOrderService(database, log, DefaultOrderPolicy(),
		f.orders, f.items, f.prices, notifier)
	f.statusSvc = NewOrderStatusService(database, log, f.orders, f.history, f.loyalty, notifier)

	require.NoError(t, f.notifications.SeedDefaultTemplates(context.Background()))
	return f
}

func (f *fixture) createUser(t *testing.T, role string) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	_, err := f.users.Create(context.Background(), nil, []*types.User{user})
	require.NoError(t, err)
	return user
}

func (f *fixture) createShop(t *testing.T) *types.Shop {
	t.Helper()
	owner := f.createUser(t, types.RoleShopOwner)
	shop := &types.Shop{
		ID:      uuid.New(),
		OwnerID: owner.ID,
		Name:    "Fresh Fold Cleaners",
	}
	_, err := f.shops.Create(context.Background(), nil, []*types.Shop{shop})
	require.NoError(t, err)
	return shop
}

func (f *fixture) createPrice(t *testing.T, shopID uuid.UUID, serviceName, itemName, price string) *types.ServicePrice {
	t.Helper()
	sp := &types.ServicePrice{
		ID:          uuid.New(),
		ShopID:      shopID,
		ServiceName: serviceName,
		ItemName:    itemName,
		Price:       decimal.RequireFromString(price),
		IsActive:    true,
	}
	_, err := f.prices.Create(context.Background(), nil, []*types.ServicePrice{sp})
	require.NoError(t, err)
	return sp
}

// createOrder places a pending order with no items for the given customer.
func (f *fixture) createOrder(t *testing.T, customerID, shopID uuid.UUID) *types.Order {
	t.Helper()
	order, err := f.orderSvc.CreateOrder(context.Background(), CreateOrderParams{
		CustomerID:    customerID,
		ShopID:        shopID,
		CustomerName:  "Pat Smith",
		CustomerPhone: "555-0100",
	})
	require.NoError(t, err)
	return order
}
