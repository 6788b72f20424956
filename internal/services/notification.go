package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/pkg/render"
	"github.com/freshfold/freshfold-backend/internal/pkg/sanitize"
	"github.com/freshfold/freshfold-backend/internal/repos"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type NotificationPolicy struct {
	// TitleMaxLen bounds stored notification titles.
	TitleMaxLen int
	// DefaultCleanupDays is used when a cleanup request does not specify an age.
	DefaultCleanupDays int
}

type NotificationRefs struct {
	OrderID   *uuid.UUID
	ShopID    *uuid.UUID
	ExpiresAt *time.Time
}

type NotificationService interface {
	// Create stores a single notification. It returns (nil, nil) when the
	// recipient's preferences gate the template's type: a deliberate no-op,
	// not an error. Welcome notifications always go through.
	Create(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, title, message, priority string, template *types.NotificationTemplate, data map[string]any, refs NotificationRefs) (*types.Notification, error)
	CreateFromTemplate(ctx context.Context, tx *gorm.DB, templateName string, recipientID uuid.UUID, contextData map[string]any, refs NotificationRefs) (*types.Notification, error)
	CreateBatch(ctx context.Context, templateName string, recipientIDs []uuid.UUID, contextData map[string]any, createdByID uuid.UUID, shopID *uuid.UUID) (*types.NotificationBatch, error)

	List(ctx context.Context, recipientID uuid.UUID, filter repos.NotificationFilter) ([]*types.Notification, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, recipientID, notificationID uuid.UUID, status types.NotificationStatus) (*types.Notification, error)
	CleanupExpired(ctx context.Context, daysOld int) (int64, error)

	EnsurePreferences(ctx context.Context, userID uuid.UUID) (*types.NotificationPreference, error)
	SavePreferences(ctx context.Context, prefs *types.NotificationPreference) error

	SeedDefaultTemplates(ctx context.Context) error
}

type notificationService struct {
	db           *gorm.DB
	log          *logger.Logger
	policy       NotificationPolicy
	notifRepo    repos.NotificationRepo
	templateRepo repos.NotificationTemplateRepo
	prefRepo     repos.NotificationPreferenceRepo
	batchRepo    repos.NotificationBatchRepo
	shopRepo     repos.ShopRepo
	now          func() time.Time
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	policy NotificationPolicy,
	notifRepo repos.NotificationRepo,
	templateRepo repos.NotificationTemplateRepo,
	prefRepo repos.NotificationPreferenceRepo,
	batchRepo repos.NotificationBatchRepo,
	shopRepo repos.ShopRepo,
) NotificationService {
	if policy.TitleMaxLen <= 0 {
		policy.TitleMaxLen = 200
	}
	if policy.DefaultCleanupDays <= 0 {
		policy.DefaultCleanupDays = 30
	}
	return &notificationService{
		db:           db,
		log:          log.With("service", "NotificationService"),
		policy:       policy,
		notifRepo:    notifRepo,
		templateRepo: templateRepo,
		prefRepo:     prefRepo,
		batchRepo:    batchRepo,
		shopRepo:     shopRepo,
		now:          time.Now,
	}
}

func (ns *notificationService) Create(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, title, message, priority string, template *types.NotificationTemplate, data map[string]any, refs NotificationRefs) (*types.Notification, error) {
	if recipientID == uuid.Nil {
		return nil, apierr.Validation("recipient is required")
	}
	title = sanitize.Truncate(sanitize.StripTags(title), ns.policy.TitleMaxLen)
	message = sanitize.StripTags(message)
	if title == "" {
		return nil, apierr.Validation("notification title is empty after sanitization")
	}

	if template != nil && template.Type != types.NotificationTypeWelcome {
		allowed, err := ns.allows(ctx, tx, recipientID, template.Type)
		if err != nil {
			return nil, err
		}
		if !allowed {
			ns.log.Info("Skipping notification, type disabled by recipient",
				"recipient_id", recipientID, "type", template.Type)
			return nil, nil
		}
	}

	if priority == "" {
		priority = types.PriorityNormal
	}

	notification := &types.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Priority:    priority,
		Status:      types.NotificationUnread,
		OrderID:     refs.OrderID,
		ShopID:      refs.ShopID,
		ExpiresAt:   refs.ExpiresAt,
	}
	if template != nil {
		templateID := template.ID
		notification.TemplateID = &templateID
	}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, apierr.Validation("context data is not serializable: %v", err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	if _, err := ns.notifRepo.Create(ctx, tx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (ns *notificationService) CreateFromTemplate(ctx context.Context, tx *gorm.DB, templateName string, recipientID uuid.UUID, contextData map[string]any, refs NotificationRefs) (*types.Notification, error) {
	template, err := ns.templateRepo.GetActiveByName(ctx, tx, templateName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("notification template %q not found or inactive", templateName)
		}
		return nil, err
	}

	title := render.Render(template.TitleTemplate, contextData)
	message := render.Render(template.MessageTemplate, contextData)

	return ns.Create(ctx, tx, recipientID, title, message, template.Priority, template, contextData, refs)
}

func (ns *notificationService) CreateBatch(ctx context.Context, templateName string, recipientIDs []uuid.UUID, contextData map[string]any, createdByID uuid.UUID, shopID *uuid.UUID) (*types.NotificationBatch, error) {
	template, err := ns.templateRepo.GetActiveByName(ctx, nil, templateName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("notification template %q not found or inactive", templateName)
		}
		return nil, err
	}

	// Shop-derived targeting: everyone who has ordered at the shop.
	if len(recipientIDs) == 0 && shopID != nil {
		recipientIDs, err = ns.shopRepo.CustomerIDs(ctx, nil, *shopID)
		if err != nil {
			return nil, err
		}
	}
	if len(recipientIDs) == 0 {
		return nil, apierr.Validation("batch has no target recipients")
	}

	// Render once; every recipient gets the same content.
	title := render.Render(template.TitleTemplate, contextData)
	message := render.Render(template.MessageTemplate, contextData)

	targets, err := json.Marshal(recipientIDs)
	if err != nil {
		return nil, err
	}

	batch := &types.NotificationBatch{
		ID:           uuid.New(),
		TemplateID:   template.ID,
		Title:        sanitize.Truncate(sanitize.StripTags(title), ns.policy.TitleMaxLen),
		Message:      sanitize.StripTags(message),
		TargetShopID: shopID,
		TargetUsers:  datatypes.JSON(targets),
		CreatedByID:  createdByID,
	}

	// One atomic unit per batch: every attempted notification row and the
	// batch bookkeeping commit together or not at all.
	err = ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ns.batchRepo.Create(ctx, tx, batch); err != nil {
			return err
		}
		sent, failed := 0, 0
		for _, recipientID := range recipientIDs {
			notification, createErr := ns.Create(ctx, tx, recipientID, title, message, template.Priority, template, contextData, NotificationRefs{ShopID: shopID})
			if createErr != nil || notification == nil {
				if createErr != nil {
					ns.log.Warn("Batch notification failed for recipient",
						"batch_id", batch.ID, "recipient_id", recipientID, "error", createErr)
				}
				failed++
				continue
			}
			sent++
		}
		now := ns.now()
		batch.IsSent = true
		batch.SentCount = sent
		batch.FailedCount = failed
		batch.SentAt = &now
		return ns.batchRepo.Save(ctx, tx, batch)
	})
	if err != nil {
		return nil, err
	}

	ns.log.Info("Notification batch sent",
		"batch_id", batch.ID, "sent", batch.SentCount, "failed", batch.FailedCount)
	return batch, nil
}

func (ns *notificationService) List(ctx context.Context, recipientID uuid.UUID, filter repos.NotificationFilter) ([]*types.Notification, error) {
	return ns.notifRepo.ListByRecipient(ctx, nil, recipientID, filter, ns.now())
}

func (ns *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return ns.notifRepo.UnreadCount(ctx, nil, recipientID, ns.now())
}

func (ns *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return ns.notifRepo.MarkAllRead(ctx, nil, recipientID, ns.now())
}

func (ns *notificationService) UpdateStatus(ctx context.Context, recipientID, notificationID uuid.UUID, status types.NotificationStatus) (*types.Notification, error) {
	if status != types.NotificationRead && status != types.NotificationArchived {
		return nil, apierr.Validation("status must be %q or %q", types.NotificationRead, types.NotificationArchived)
	}
	notification, err := ns.notifRepo.GetForRecipient(ctx, nil, notificationID, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("notification not found")
		}
		return nil, err
	}
	if notification.Status == status {
		return notification, nil
	}
	// archived is terminal; unread -> read -> archived, or unread -> archived
	if notification.Status == types.NotificationArchived {
		return nil, apierr.InvalidState("archived notifications cannot change status")
	}
	notification.Status = status
	if status == types.NotificationRead {
		now := ns.now()
		notification.ReadAt = &now
	}
	if err := ns.notifRepo.Save(ctx, nil, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (ns *notificationService) CleanupExpired(ctx context.Context, daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = ns.policy.DefaultCleanupDays
	}
	now := ns.now()
	cutoff := now.AddDate(0, 0, -daysOld)
	count, err := ns.notifRepo.DeleteExpiredOrStale(ctx, nil, now, cutoff)
	if err != nil {
		return 0, err
	}
	ns.log.Info("Cleaned up old notifications", "count", count, "days_old", daysOld)
	return count, nil
}

func (ns *notificationService) EnsurePreferences(ctx context.Context, userID uuid.UUID) (*types.NotificationPreference, error) {
	prefs, err := ns.prefRepo.GetByUserID(ctx, nil, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	prefs = defaultPreferences(userID)
	if _, err := ns.prefRepo.Create(ctx, nil, prefs); err != nil {
		// lost a create race: the row is there now
		if existing, getErr := ns.prefRepo.GetByUserID(ctx, nil, userID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return prefs, nil
}

func (ns *notificationService) SavePreferences(ctx context.Context, prefs *types.NotificationPreference) error {
	return ns.prefRepo.Save(ctx, nil, prefs)
}

// allows reads the recipient's stored preferences; absent preferences allow
// everything, matching the defaults EnsurePreferences would create.
func (ns *notificationService) allows(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, notificationType string) (bool, error) {
	prefs, err := ns.prefRepo.GetByUserID(ctx, tx, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, err
	}
	return prefs.Allows(notificationType), nil
}

func defaultPreferences(userID uuid.UUID) *types.NotificationPreference {
	return &types.NotificationPreference{
		ID:                     uuid.New(),
		UserID:                 userID,
		OrderNotifications:     true,
		LoyaltyNotifications:   true,
		PromotionNotifications: true,
		ReminderNotifications:  true,
		SystemNotifications:    true,
		DailyDigest:            false,
		ImmediateNotifications: true,
	}
}

// Built-in templates created at startup when absent. Placeholders use the
// {{key}} form consumed by the render package.
var defaultTemplates = []types.NotificationTemplate{
	{
		Name:            "new_order",
		Type:            types.NotificationTypeOrderStatus,
		TitleTemplate:   "New order {{order_number}}",
		MessageTemplate: "{{customer_name}} placed order {{order_number}} for {{total_amount}}.",
		Priority:        types.PriorityHigh,
	},
	{
		Name:            "order_status_update",
		Type:            types.NotificationTypeOrderStatus,
		TitleTemplate:   "Order {{order_number}} is now {{new_status}}",
		MessageTemplate: "Hi {{customer_name}}, your order {{order_number}} at {{shop_name}} moved from {{old_status}} to {{new_status}}.",
		Priority:        types.PriorityNormal,
	},
	{
		Name:            "order_status_update_shop",
		Type:            types.NotificationTypeOrderStatus,
		TitleTemplate:   "Order {{order_number}} is {{new_status}}",
		MessageTemplate: "Order {{order_number}} for {{customer_name}} is now {{new_status}}.",
		Priority:        types.PriorityNormal,
	},
	{
		Name:            "order_ready",
		Type:            types.NotificationTypeOrderStatus,
		TitleTemplate:   "Order {{order_number}} is ready for pickup",
		MessageTemplate: "Hi {{customer_name}}, your order {{order_number}} at {{shop_name}} is ready for pickup.",
		Priority:        types.PriorityHigh,
	},
	{
		Name:            "points_earned",
		Type:            types.NotificationTypeLoyaltyPoints,
		TitleTemplate:   "You earned {{points}} points",
		MessageTemplate: "Order {{order_number}} earned you {{points}} loyalty points. Your balance is {{balance}}.",
		Priority:        types.PriorityLow,
	},
	{
		Name:            "welcome",
		Type:            types.NotificationTypeWelcome,
		TitleTemplate:   "Welcome to {{shop_name}}",
		MessageTemplate: "Thanks for joining, {{customer_name}}! Your loyalty account is ready.",
		Priority:        types.PriorityNormal,
	},
}

func (ns *notificationService) SeedDefaultTemplates(ctx context.Context) error {
	for i := range defaultTemplates {
		template := defaultTemplates[i]
		exists, err := ns.templateRepo.NameExists(ctx, nil, template.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		template.ID = uuid.New()
		template.IsActive = true
		if _, err := ns.templateRepo.Create(ctx, nil, []*types.NotificationTemplate{&template}); err != nil {
			return err
		}
		ns.log.Info("Seeded notification template", "name", template.Name)
	}
	return nil
}
