package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ServicePriceID uuid.UUID       `gorm:"type:uuid;not null" json:"service_price_id"`
	ServicePrice   *ServicePrice   `gorm:"foreignKey:ServicePriceID;references:ID" json:"service_price,omitempty"`
	Quantity       int             `gorm:"not null;default:1;column:quantity" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(8,2);not null;column:unit_price" json:"unit_price"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(10,2);not null;column:total_price" json:"total_price"`
	Notes          string          `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

func (OrderItem) TableName() string { return "order_item" }
