package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/repos"
	"github.com/freshfold/freshfold-backend/internal/types"
)

// OrderNotifier fans order lifecycle events out to templated notifications.
// Every method is best-effort: failures are logged, never propagated, so the
// order workflow is not blocked on notification infrastructure.
type OrderNotifier interface {
	NewOrder(ctx context.Context, order *types.Order)
	StatusChanged(ctx context.Context, order *types.Order, oldStatus, newStatus types.OrderStatus)
	PointsEarned(ctx context.Context, order *types.Order, points, balance int)
}

type orderNotifier struct {
	log           *logger.Logger
	notifications NotificationService
	shopRepo      repos.ShopRepo
}

func NewOrderNotifier(log *logger.Logger, notifications NotificationService, shopRepo repos.ShopRepo) OrderNotifier {
	return &orderNotifier{
		log:           log.With("service", "OrderNotifier"),
		notifications: notifications,
		shopRepo:      shopRepo,
	}
}

func (on *orderNotifier) NewOrder(ctx context.Context, order *types.Order) {
	shop, err := on.shopRepo.GetByID(ctx, nil, order.ShopID)
	if err != nil {
		on.log.Error("New-order notification skipped, shop lookup failed",
			"order_number", order.OrderNumber, "error", err)
		return
	}
	contextData := map[string]any{
		"order_number":  order.OrderNumber,
		"customer_name": order.CustomerName,
		"shop_name":     shop.Name,
		"total_amount":  order.TotalAmount.StringFixed(2),
	}
	on.create(ctx, "new_order", shop.OwnerID, contextData, order)
}

func (on *orderNotifier) StatusChanged(ctx context.Context, order *types.Order, oldStatus, newStatus types.OrderStatus) {
	shop, err := on.shopRepo.GetByID(ctx, nil, order.ShopID)
	if err != nil {
		on.log.Error("Status-change notification skipped, shop lookup failed",
			"order_number", order.OrderNumber, "error", err)
		return
	}
	contextData := map[string]any{
		"order_number":  order.OrderNumber,
		"old_status":    string(oldStatus),
		"new_status":    string(newStatus),
		"customer_name": order.CustomerName,
		"shop_name":     shop.Name,
	}

	// Every change notifies the customer.
	on.create(ctx, "order_status_update", order.CustomerID, contextData, order)

	// Ready and completed additionally notify the shop owner.
	if newStatus == types.OrderStatusReady || newStatus == types.OrderStatusCompleted {
		on.create(ctx, "order_status_update_shop", shop.OwnerID, contextData, order)
	}
	if newStatus == types.OrderStatusReady {
		on.create(ctx, "order_ready", order.CustomerID, contextData, order)
	}
}

func (on *orderNotifier) PointsEarned(ctx context.Context, order *types.Order, points, balance int) {
	contextData := map[string]any{
		"order_number": order.OrderNumber,
		"points":       points,
		"balance":      balance,
	}
	on.create(ctx, "points_earned", order.CustomerID, contextData, order)
}

func (on *orderNotifier) create(ctx context.Context, templateName string, recipientID uuid.UUID, contextData map[string]any, order *types.Order) {
	orderID := order.ID
	shopID := order.ShopID
	_, err := on.notifications.CreateFromTemplate(ctx, nil, templateName, recipientID, contextData, NotificationRefs{
		OrderID: &orderID,
		ShopID:  &shopID,
	})
	if err != nil {
		on.log.Error("Notification failed",
			"template", templateName, "order_number", order.OrderNumber, "error", err)
	}
}
