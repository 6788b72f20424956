package app

import (
	"github.com/freshfold/freshfold-backend/internal/handlers"
)

type Handlers struct {
	Order        *handlers.OrderHandler
	Customer     *handlers.CustomerHandler
	Notification *handlers.NotificationHandler
}

func wireHandlers(s Services) Handlers {
	return Handlers{
		Order:        handlers.NewOrderHandler(s.Order, s.OrderStatus),
		Customer:     handlers.NewCustomerHandler(s.Loyalty),
		Notification: handlers.NewNotificationHandler(s.Notification),
	}
}
