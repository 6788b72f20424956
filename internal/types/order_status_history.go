package types

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatusHistory is an append-only audit row. Rows are never updated or
// deleted except through the order cascade.
type OrderStatusHistory struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	Status      OrderStatus `gorm:"not null;column:status" json:"status"`
	ChangedByID uuid.UUID   `gorm:"type:uuid;not null;column:changed_by_id" json:"changed_by_id"`
	ChangedBy   *User       `gorm:"foreignKey:ChangedByID;references:ID" json:"changed_by,omitempty"`
	Notes       string      `gorm:"column:notes" json:"notes,omitempty"`
	ChangedAt   time.Time   `gorm:"not null;column:changed_at;index" json:"changed_at"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }
