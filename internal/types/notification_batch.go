package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationBatch records one fan-out: a single rendering applied to many
// recipients, with per-recipient success/failure accounting. Write-once on
// completion; a batch is never resumed.
type NotificationBatch struct {
	ID         uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID uuid.UUID             `gorm:"type:uuid;not null" json:"template_id"`
	Template   *NotificationTemplate `gorm:"foreignKey:TemplateID;references:ID" json:"template,omitempty"`
	Title      string                `gorm:"not null;column:title" json:"title"`
	Message    string                `gorm:"not null;column:message" json:"message"`

	TargetShopID *uuid.UUID     `gorm:"type:uuid;column:target_shop_id" json:"target_shop_id,omitempty"`
	TargetUsers  datatypes.JSON `gorm:"type:jsonb;column:target_users" json:"target_users,omitempty"`

	IsSent      bool `gorm:"not null;default:false;column:is_sent;index" json:"is_sent"`
	SentCount   int  `gorm:"not null;default:0;column:sent_count" json:"sent_count"`
	FailedCount int  `gorm:"not null;default:0;column:failed_count" json:"failed_count"`

	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;column:created_by_id" json:"created_by_id"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	SentAt      *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
}

func (NotificationBatch) TableName() string { return "notification_batch" }
