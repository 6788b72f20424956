package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/repos"
	"github.com/freshfold/freshfold-backend/internal/types"
)

// statusTransitions is the full reachability table. cancelled is reachable
// from every non-terminal state; completed and cancelled are terminal.
var statusTransitions = map[types.OrderStatus][]types.OrderStatus{
	types.OrderStatusPending:    {types.OrderStatusConfirmed, types.OrderStatusCancelled},
	types.OrderStatusReceived:   {types.OrderStatusConfirmed, types.OrderStatusCancelled},
	types.OrderStatusConfirmed:  {types.OrderStatusInProgress, types.OrderStatusCancelled},
	types.OrderStatusInProgress: {types.OrderStatusReady, types.OrderStatusCancelled},
	types.OrderStatusReady:      {types.OrderStatusCompleted, types.OrderStatusCancelled},
	types.OrderStatusCompleted:  {},
	types.OrderStatusCancelled:  {},
}

func transitionAllowed(from, to types.OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type OrderStatusService interface {
	// Transition moves the order to newStatus, appending an audit row and
	// stamping lifecycle timestamps. A transition to the current status is an
	// idempotent no-op: no history row, no side effects. On entering
	// completed, the loyalty aggregate update commits in the same
	// transaction as the status change; notifications fire after commit and
	// are best-effort.
	Transition(ctx context.Context, orderID uuid.UUID, newStatus types.OrderStatus, actorID uuid.UUID, note string) (*types.Order, error)
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]*types.OrderStatusHistory, error)
}

type orderStatusService struct {
	db          *gorm.DB
	log         *logger.Logger
	orderRepo   repos.OrderRepo
	historyRepo repos.OrderStatusHistoryRepo
	loyalty     LoyaltyService
	notifier    OrderNotifier
	now         func() time.Time
}

func NewOrderStatusService(
	db *gorm.DB,
	log *logger.Logger,
	orderRepo repos.OrderRepo,
	historyRepo repos.OrderStatusHistoryRepo,
	loyalty LoyaltyService,
	notifier OrderNotifier,
) OrderStatusService {
	return &orderStatusService{
		db:          db,
		log:         log.With("service", "OrderStatusService"),
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		loyalty:     loyalty,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (oss *orderStatusService) Transition(ctx context.Context, orderID uuid.UUID, newStatus types.OrderStatus, actorID uuid.UUID, note string) (*types.Order, error) {
	if _, known := statusTransitions[newStatus]; !known {
		return nil, apierr.Validation("unknown order status %q", newStatus)
	}

	var order *types.Order
	var oldStatus types.OrderStatus
	var pointsEarned int

	err := oss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = oss.orderRepo.GetByIDLocked(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("order not found")
			}
			return err
		}
		oldStatus = order.Status
		if oldStatus == newStatus {
			return nil
		}
		if !transitionAllowed(oldStatus, newStatus) {
			return apierr.InvalidTransition("cannot move order %s from %s to %s",
				order.OrderNumber, oldStatus, newStatus)
		}

		now := oss.now()
		order.Status = newStatus
		switch newStatus {
		case types.OrderStatusConfirmed:
			order.ConfirmedAt = &now
		case types.OrderStatusCompleted:
			order.CompletedAt = &now
		}
		if err := oss.orderRepo.Save(ctx, tx, order); err != nil {
			return err
		}

		if _, err := oss.historyRepo.Append(ctx, tx, &types.OrderStatusHistory{
			ID:          uuid.New(),
			OrderID:     order.ID,
			Status:      newStatus,
			ChangedByID: actorID,
			Notes:       note,
			ChangedAt:   now,
		}); err != nil {
			return err
		}

		// The monetary side effect rides the same transaction: either the
		// order completes and the customer aggregates move together, or
		// neither happens.
		if newStatus == types.OrderStatusCompleted {
			pointsEarned, err = oss.loyalty.RecordCompletedOrder(ctx, tx, order)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-fetch with items so callers see the same representation GetOrder
	// returns; the locked read skips the preload.
	if fresh, fetchErr := oss.orderRepo.GetByID(ctx, nil, order.ID); fetchErr == nil {
		order = fresh
	}

	if oldStatus == newStatus {
		return order, nil
	}

	oss.log.Info("Order status changed",
		"order_number", order.OrderNumber, "from", oldStatus, "to", newStatus, "actor_id", actorID)

	// Non-financial side effects run after the durable commit and never roll
	// the transition back.
	if oss.notifier != nil {
		oss.notifier.StatusChanged(ctx, order, oldStatus, newStatus)
		if pointsEarned > 0 {
			balance := pointsEarned
			if profile, err := oss.loyalty.GetProfile(ctx, order.CustomerID); err == nil {
				balance = profile.LoyaltyPoints
			}
			oss.notifier.PointsEarned(ctx, order, pointsEarned, balance)
		}
	}
	return order, nil
}

func (oss *orderStatusService) ListHistory(ctx context.Context, orderID uuid.UUID) ([]*types.OrderStatusHistory, error) {
	return oss.historyRepo.ListByOrder(ctx, nil, orderID)
}
