package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationStatus string

const (
	NotificationUnread   NotificationStatus = "unread"
	NotificationRead     NotificationStatus = "read"
	NotificationArchived NotificationStatus = "archived"
)

type Notification struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID          `gorm:"type:uuid;not null;index:idx_notification_recipient_status" json:"recipient_id"`
	Recipient   *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipientID;references:ID" json:"recipient,omitempty"`
	Title       string             `gorm:"not null;column:title" json:"title"`
	Message     string             `gorm:"not null;column:message" json:"message"`
	Priority    string             `gorm:"not null;default:'normal';column:priority;index" json:"priority"`
	Status      NotificationStatus `gorm:"not null;default:'unread';column:status;index:idx_notification_recipient_status" json:"status"`

	OrderID    *uuid.UUID `gorm:"type:uuid;column:order_id" json:"order_id,omitempty"`
	ShopID     *uuid.UUID `gorm:"type:uuid;column:shop_id" json:"shop_id,omitempty"`
	TemplateID *uuid.UUID `gorm:"type:uuid;column:template_id" json:"template_id,omitempty"`

	Data datatypes.JSON `gorm:"type:jsonb;column:data" json:"data,omitempty"`

	CreatedAt time.Time  `gorm:"not null;index" json:"created_at"`
	ReadAt    *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index" json:"expires_at,omitempty"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
