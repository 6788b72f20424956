package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeOrderStatus   = "order_status"
	NotificationTypeLoyaltyPoints = "loyalty_points"
	NotificationTypePromotion     = "promotion"
	NotificationTypeReminder      = "reminder"
	NotificationTypeSystem        = "system"
	NotificationTypeWelcome       = "welcome"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// NotificationTemplate holds title/message strings with {{placeholder}}
// substitution slots. Lookup is by unique name; inactive templates are
// treated as absent.
type NotificationTemplate struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Type            string    `gorm:"not null;column:type;index" json:"type"`
	TitleTemplate   string    `gorm:"not null;column:title_template" json:"title_template"`
	MessageTemplate string    `gorm:"not null;column:message_template" json:"message_template"`
	Priority        string    `gorm:"not null;default:'normal';column:priority" json:"priority"`
	IsActive        bool      `gorm:"not null;default:true;column:is_active;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (NotificationTemplate) TableName() string { return "notification_template" }
