package types

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreference gates notification creation per type. Welcome
// notifications are never gated.
type NotificationPreference struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	OrderNotifications     bool `gorm:"not null;default:true;column:order_notifications" json:"order_notifications"`
	LoyaltyNotifications   bool `gorm:"not null;default:true;column:loyalty_notifications" json:"loyalty_notifications"`
	PromotionNotifications bool `gorm:"not null;default:true;column:promotion_notifications" json:"promotion_notifications"`
	ReminderNotifications  bool `gorm:"not null;default:true;column:reminder_notifications" json:"reminder_notifications"`
	SystemNotifications    bool `gorm:"not null;default:true;column:system_notifications" json:"system_notifications"`

	DailyDigest            bool `gorm:"not null;default:false;column:daily_digest" json:"daily_digest"`
	ImmediateNotifications bool `gorm:"not null;default:true;column:immediate_notifications" json:"immediate_notifications"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (NotificationPreference) TableName() string { return "notification_preference" }

// Allows reports whether a notification of the given template type may be
// created for this user.
func (p *NotificationPreference) Allows(notificationType string) bool {
	switch notificationType {
	case NotificationTypeOrderStatus:
		return p.OrderNotifications
	case NotificationTypeLoyaltyPoints:
		return p.LoyaltyNotifications
	case NotificationTypePromotion:
		return p.PromotionNotifications
	case NotificationTypeReminder:
		return p.ReminderNotifications
	case NotificationTypeSystem:
		return p.SystemNotifications
	default:
		// welcome and unrecognized types always go through
		return true
	}
}
