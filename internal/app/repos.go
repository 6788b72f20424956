package app

import (
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/repos"
)

type Repos struct {
	User               repos.UserRepo
	Shop               repos.ShopRepo
	ServicePrice       repos.ServicePriceRepo
	Order              repos.OrderRepo
	OrderItem          repos.OrderItemRepo
	OrderStatusHistory repos.OrderStatusHistoryRepo
	CustomerProfile    repos.CustomerProfileRepo
	LoyaltyTransaction repos.LoyaltyTransactionRepo
	Notification       repos.NotificationRepo
	Template           repos.NotificationTemplateRepo
	Preference         repos.NotificationPreferenceRepo
	Batch              repos.NotificationBatchRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:               repos.NewUserRepo(db, log),
		Shop:               repos.NewShopRepo(db, log),
		ServicePrice:       repos.NewServicePriceRepo(db, log),
		Order:              repos.NewOrderRepo(db, log),
		OrderItem:          repos.NewOrderItemRepo(db, log),
		OrderStatusHistory: repos.NewOrderStatusHistoryRepo(db, log),
		CustomerProfile:    repos.NewCustomerProfileRepo(db, log),
		LoyaltyTransaction: repos.NewLoyaltyTransactionRepo(db, log),
		Notification:       repos.NewNotificationRepo(db, log),
		Template:           repos.NewNotificationTemplateRepo(db, log),
		Preference:         repos.NewNotificationPreferenceRepo(db, log),
		Batch:              repos.NewNotificationBatchRepo(db, log),
	}
}
