package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/repos"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type OrderPolicy struct {
	// MaxItemQuantity bounds a single line item's quantity.
	MaxItemQuantity int
	// OrderNumberAttempts bounds retries on an order-number collision.
	OrderNumberAttempts int
}

func DefaultOrderPolicy() OrderPolicy {
	return OrderPolicy{MaxItemQuantity: 100, OrderNumberAttempts: 5}
}

type NewOrderItem struct {
	ServicePriceID uuid.UUID
	Quantity       int
	Notes          string
}

type CreateOrderParams struct {
	CustomerID          uuid.UUID
	ShopID              uuid.UUID
	PickupType          string
	CustomerName        string
	CustomerPhone       string
	PickupAddress       string
	SpecialInstructions string
	Items               []NewOrderItem
}

type OrderService interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (*types.Order, error)
	AddItem(ctx context.Context, orderID, servicePriceID uuid.UUID, quantity int, notes string) (*types.OrderItem, error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error
	// RecomputeTotal derives subtotal and total from the current item rows.
	// It never applies deltas, so repeated invocations cannot drift.
	RecomputeTotal(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error

	GetOrder(ctx context.Context, orderID uuid.UUID) (*types.Order, error)
	ListByShop(ctx context.Context, shopID uuid.UUID, status types.OrderStatus) ([]*types.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*types.Order, error)
}

type orderService struct {
	db        *gorm.DB
	log       *logger.Logger
	policy    OrderPolicy
	orderRepo repos.OrderRepo
	itemRepo  repos.OrderItemRepo
	priceRepo repos.ServicePriceRepo
	notifier  OrderNotifier
	now       func() time.Time
}

func NewOrderService(
	db *gorm.DB,
	log *logger.Logger,
	policy OrderPolicy,
	orderRepo repos.OrderRepo,
	itemRepo repos.OrderItemRepo,
	priceRepo repos.ServicePriceRepo,
	notifier OrderNotifier,
) OrderService {
	if policy.MaxItemQuantity <= 0 {
		policy.MaxItemQuantity = 100
	}
	if policy.OrderNumberAttempts <= 0 {
		policy.OrderNumberAttempts = 5
	}
	return &orderService{
		db:        db,
		log:       log.With("service", "OrderService"),
		policy:    policy,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		priceRepo: priceRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (osv *orderService) CreateOrder(ctx context.Context, params CreateOrderParams) (*types.Order, error) {
	if params.CustomerID == uuid.Nil || params.ShopID == uuid.Nil {
		return nil, apierr.Validation("customer and shop are required")
	}
	if params.CustomerName == "" || params.CustomerPhone == "" {
		return nil, apierr.Validation("customer name and phone are required")
	}
	if params.PickupType == "" {
		params.PickupType = types.PickupTypeDropOff
	}
	if params.PickupType != types.PickupTypeDropOff && params.PickupType != types.PickupTypePickup {
		return nil, apierr.Validation("unknown pickup type %q", params.PickupType)
	}

	var order *types.Order
	var err error
	// Order numbers are regenerated, never re-derived, on a uniqueness
	// conflict; the whole creation retries so the aborted transaction is
	// discarded cleanly.
	for attempt := 0; attempt < osv.policy.OrderNumberAttempts; attempt++ {
		order, err = osv.createOnce(ctx, params)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		osv.log.Warn("Order number collision, retrying", "attempt", attempt+1)
	}
	if err != nil {
		return nil, apierr.Conflict("could not allocate a unique order number")
	}

	if osv.notifier != nil {
		osv.notifier.NewOrder(ctx, order)
	}
	return order, nil
}

func (osv *orderService) createOnce(ctx context.Context, params CreateOrderParams) (*types.Order, error) {
	order := &types.Order{
		ID:                  uuid.New(),
		CustomerID:          params.CustomerID,
		ShopID:              params.ShopID,
		OrderNumber:         osv.generateOrderNumber(params.ShopID),
		Status:              types.OrderStatusPending,
		PickupType:          params.PickupType,
		CustomerName:        params.CustomerName,
		CustomerPhone:       params.CustomerPhone,
		PickupAddress:       params.PickupAddress,
		SpecialInstructions: params.SpecialInstructions,
		Subtotal:            decimal.Zero,
		TotalAmount:         decimal.Zero,
	}

	err := osv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := osv.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		for _, newItem := range params.Items {
			if _, err := osv.insertItem(ctx, tx, order, newItem.ServicePriceID, newItem.Quantity, newItem.Notes); err != nil {
				return err
			}
		}
		if len(params.Items) > 0 {
			return osv.RecomputeTotal(ctx, tx, order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return osv.orderRepo.GetByID(ctx, nil, order.ID)
}

// generateOrderNumber concatenates a shop code with the microsecond clock and
// a random suffix; uniqueness is still enforced by the database.
func (osv *orderService) generateOrderNumber(shopID uuid.UUID) string {
	shopCode := strings.ToUpper(strings.ReplaceAll(shopID.String(), "-", "")[:8])
	micros := fmt.Sprintf("%d", osv.now().UnixMicro())
	if len(micros) > 10 {
		micros = micros[len(micros)-10:]
	}
	suffix := 10 + rand.Intn(90)
	return fmt.Sprintf("%s%s%02d", shopCode, micros, suffix)
}

func (osv *orderService) AddItem(ctx context.Context, orderID, servicePriceID uuid.UUID, quantity int, notes string) (*types.OrderItem, error) {
	var item *types.OrderItem
	err := osv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := osv.lockMutableOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		item, err = osv.insertItem(ctx, tx, order, servicePriceID, quantity, notes)
		if err != nil {
			return err
		}
		return osv.RecomputeTotal(ctx, tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (osv *orderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	return osv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := osv.lockMutableOrder(ctx, tx, orderID); err != nil {
			return err
		}
		if _, err := osv.itemRepo.GetForOrder(ctx, tx, orderID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("order item not found")
			}
			return err
		}
		if err := osv.itemRepo.Delete(ctx, tx, itemID); err != nil {
			return err
		}
		return osv.RecomputeTotal(ctx, tx, orderID)
	})
}

func (osv *orderService) RecomputeTotal(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	run := func(tx *gorm.DB) error {
		items, err := osv.itemRepo.ListByOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.TotalPrice)
		}
		// no tax or discount layer: total mirrors subtotal
		return osv.orderRepo.UpdateTotals(ctx, tx, orderID, subtotal, subtotal)
	}
	if tx != nil {
		return run(tx)
	}
	return osv.db.WithContext(ctx).Transaction(run)
}

func (osv *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*types.Order, error) {
	order, err := osv.orderRepo.GetByID(ctx, nil, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("order not found")
		}
		return nil, err
	}
	return order, nil
}

func (osv *orderService) ListByShop(ctx context.Context, shopID uuid.UUID, status types.OrderStatus) ([]*types.Order, error) {
	return osv.orderRepo.ListByShop(ctx, nil, shopID, status)
}

func (osv *orderService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*types.Order, error) {
	return osv.orderRepo.ListByCustomer(ctx, nil, customerID)
}

// lockMutableOrder fetches the order under a row lock and enforces the
// mutable window: items may only change before work begins.
func (osv *orderService) lockMutableOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*types.Order, error) {
	order, err := osv.orderRepo.GetByIDLocked(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("order not found")
		}
		return nil, err
	}
	if !order.Status.Mutable() {
		return nil, apierr.InvalidState("order %s is %s; items can no longer be changed", order.OrderNumber, order.Status)
	}
	return order, nil
}

// insertItem captures the unit price from the shop-scoped price reference at
// call time and writes the line item. Callers recompute the order totals.
func (osv *orderService) insertItem(ctx context.Context, tx *gorm.DB, order *types.Order, servicePriceID uuid.UUID, quantity int, notes string) (*types.OrderItem, error) {
	if quantity <= 0 {
		return nil, apierr.Validation("quantity must be positive, got %d", quantity)
	}
	if quantity > osv.policy.MaxItemQuantity {
		return nil, apierr.Validation("quantity cannot exceed %d", osv.policy.MaxItemQuantity)
	}
	price, err := osv.priceRepo.GetActiveForShop(ctx, tx, servicePriceID, order.ShopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("service price not found for this shop")
		}
		return nil, err
	}
	item := &types.OrderItem{
		ID:             uuid.New(),
		OrderID:        order.ID,
		ServicePriceID: price.ID,
		Quantity:       quantity,
		UnitPrice:      price.Price,
		TotalPrice:     price.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Notes:          notes,
	}
	if _, err := osv.itemRepo.Create(ctx, tx, []*types.OrderItem{item}); err != nil {
		return nil, err
	}
	return item, nil
}
