package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServicePrice is a shop's price for one (service, item) combination, e.g.
// "Dry Cleaning" + "Suit". Order items capture the price from here at add
// time; later price changes do not touch existing order items.
type ServicePrice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ShopID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_shop_service_item,unique" json:"shop_id"`
	Shop        *Shop           `gorm:"constraint:OnDelete:CASCADE;foreignKey:ShopID;references:ID" json:"shop,omitempty"`
	ServiceName string          `gorm:"not null;column:service_name;index:idx_shop_service_item,unique" json:"service_name"`
	ItemName    string          `gorm:"not null;column:item_name;index:idx_shop_service_item,unique" json:"item_name"`
	Price       decimal.Decimal `gorm:"type:numeric(8,2);not null;column:price" json:"price"`
	IsActive    bool            `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (ServicePrice) TableName() string { return "service_price" }
