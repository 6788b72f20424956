package app

import (
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/services"
)

type Services struct {
	Notification services.NotificationService
	Loyalty      services.LoyaltyService
	Notifier     services.OrderNotifier
	Order        services.OrderService
	OrderStatus  services.OrderStatusService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	notification := services.NewNotificationService(
		db, log, cfg.Notification,
		r.Notification, r.Template, r.Preference, r.Batch, r.Shop,
	)
	loyalty := services.NewLoyaltyService(db, log, cfg.Loyalty, r.CustomerProfile, r.LoyaltyTransaction)
	notifier := services.NewOrderNotifier(log, notification, r.Shop)
	order := services.NewOrderService(db, log, cfg.Order, r.Order, r.OrderItem, r.ServicePrice, notifier)
	orderStatus := services.NewOrderStatusService(db, log, r.Order, r.OrderStatusHistory, loyalty, notifier)

	return Services{
		Notification: notification,
		Loyalty:      loyalty,
		Notifier:     notifier,
		Order:        order,
		OrderStatus:  orderStatus,
	}
}
