package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusReceived   OrderStatus = "received" // legacy alias still present on old rows
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Mutable reports whether line items may still be added or removed, i.e. the
// order is in the pre-fulfillment window.
func (s OrderStatus) Mutable() bool {
	return s == OrderStatusPending || s == OrderStatusReceived
}

const (
	PickupTypeDropOff = "drop_off"
	PickupTypePickup  = "pickup"
)

type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	ShopID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"shop_id"`
	Shop        *Shop       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ShopID;references:ID" json:"shop,omitempty"`
	OrderNumber string      `gorm:"uniqueIndex;not null;column:order_number" json:"order_number"`
	Status      OrderStatus `gorm:"not null;default:'pending';column:status" json:"status"`
	PickupType  string      `gorm:"not null;default:'drop_off';column:pickup_type" json:"pickup_type"`

	// Contact snapshot taken at creation time.
	CustomerName  string `gorm:"not null;column:customer_name" json:"customer_name"`
	CustomerPhone string `gorm:"not null;column:customer_phone" json:"customer_phone"`
	PickupAddress string `gorm:"column:pickup_address" json:"pickup_address,omitempty"`

	SpecialInstructions string `gorm:"column:special_instructions" json:"special_instructions,omitempty"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0;column:subtotal" json:"subtotal"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0;column:total_amount" json:"total_amount"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID;references:ID" json:"items,omitempty"`

	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
	ConfirmedAt *time.Time `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (Order) TableName() string { return "order" }
