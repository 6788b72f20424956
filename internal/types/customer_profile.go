package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// CustomerProfile caches the loyalty balance and denormalized order
// aggregates. LoyaltyPoints is a cache of the ledger sum, not a second source
// of truth: after every earn/redeem it must equal the sum of the customer's
// loyalty transactions.
type CustomerProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	LoyaltyPoints  int    `gorm:"not null;default:0;column:loyalty_points" json:"loyalty_points"`
	MembershipTier string `gorm:"not null;default:'bronze';column:membership_tier;index" json:"membership_tier"`

	TotalSpent        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0;column:total_spent;index" json:"total_spent"`
	TotalOrders       int             `gorm:"not null;default:0;column:total_orders" json:"total_orders"`
	AverageOrderValue decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0;column:average_order_value" json:"average_order_value"`
	FirstOrderDate    *time.Time      `gorm:"column:first_order_date" json:"first_order_date,omitempty"`
	LastOrderDate     *time.Time      `gorm:"column:last_order_date" json:"last_order_date,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CustomerProfile) TableName() string { return "customer_profile" }
