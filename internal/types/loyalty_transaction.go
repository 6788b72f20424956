package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	LoyaltyTypeEarned     = "earned"
	LoyaltyTypeRedeemed   = "redeemed"
	LoyaltyTypeExpired    = "expired"
	LoyaltyTypeBonus      = "bonus"
	LoyaltyTypeAdjustment = "adjustment"
)

// LoyaltyTransaction is an append-only ledger entry. Points is signed:
// positive for earned/bonus, negative for redeemed/expired. The running sum
// over a customer's rows is the balance of record.
type LoyaltyTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_loyalty_customer_type" json:"customer_id"`
	Customer    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Type        string    `gorm:"not null;column:type;index:idx_loyalty_customer_type" json:"type"`
	Points      int       `gorm:"not null;column:points" json:"points"`
	Description string    `gorm:"not null;column:description" json:"description"`

	OrderID       *uuid.UUID `gorm:"type:uuid;column:order_id" json:"order_id,omitempty"`
	ProcessedByID *uuid.UUID `gorm:"type:uuid;column:processed_by_id" json:"processed_by_id,omitempty"`

	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index" json:"expires_at,omitempty"`
}

func (LoyaltyTransaction) TableName() string { return "loyalty_transaction" }
