package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/freshfold/freshfold-backend/internal/http/response"
	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/pkg/ctxutil"
	"github.com/freshfold/freshfold-backend/internal/repos"
	"github.com/freshfold/freshfold-backend/internal/services"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /api/notifications/
func (nh *NotificationHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	filter := repos.NotificationFilter{
		Status:   types.NotificationStatus(c.Query("status")),
		Priority: c.Query("priority"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid limit"))
			return
		}
		filter.Limit = limit
	}
	notifications, err := nh.notificationService.List(c.Request.Context(), rd.UserID, filter)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": notifications})
}

// GET /api/notifications/unread-count/
func (nh *NotificationHandler) UnreadCount(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	count, err := nh.notificationService.UnreadCount(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"unread_count": count})
}

// POST /api/notifications/mark-all-read/
func (nh *NotificationHandler) MarkAllRead(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	updated, err := nh.notificationService.MarkAllRead(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": updated})
}

// PATCH /api/notifications/:id/update/
func (nh *NotificationHandler) UpdateStatus(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid notification id"))
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	notification, err := nh.notificationService.UpdateStatus(c.Request.Context(), rd.UserID, notificationID, types.NotificationStatus(req.Status))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notification": notification})
}

type createBatchRequest struct {
	TemplateName string         `json:"template_name" binding:"required"`
	TargetUsers  []string       `json:"target_users"`
	ContextData  map[string]any `json:"context_data"`
}

// POST /api/notifications/batch/create/
func (nh *NotificationHandler) CreateBatch(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd.Role != types.RoleShopOwner && rd.Role != types.RoleStaff {
		response.RespondError(c, http.StatusForbidden, apierr.CodeValidation, fmt.Errorf("shop staff only"))
		return
	}
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	recipientIDs := make([]uuid.UUID, 0, len(req.TargetUsers))
	for _, raw := range req.TargetUsers {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid target user id %q", raw))
			return
		}
		recipientIDs = append(recipientIDs, id)
	}
	var shopID *uuid.UUID
	if rd.ShopID != uuid.Nil {
		id := rd.ShopID
		shopID = &id
	}
	batch, err := nh.notificationService.CreateBatch(c.Request.Context(), req.TemplateName, recipientIDs, req.ContextData, rd.UserID, shopID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"batch": batch})
}

// POST /api/notifications/cleanup/
func (nh *NotificationHandler) Cleanup(c *gin.Context) {
	var req struct {
		DaysOld int `json:"days_old"`
	}
	// Body is optional; malformed JSON is still rejected.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
			return
		}
	}
	deleted, err := nh.notificationService.CleanupExpired(c.Request.Context(), req.DaysOld)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}

// GET /api/notifications/preferences/
func (nh *NotificationHandler) GetPreferences(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	prefs, err := nh.notificationService.EnsurePreferences(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": prefs})
}

type updatePreferencesRequest struct {
	OrderNotifications     *bool `json:"order_notifications"`
	LoyaltyNotifications   *bool `json:"loyalty_notifications"`
	PromotionNotifications *bool `json:"promotion_notifications"`
	ReminderNotifications  *bool `json:"reminder_notifications"`
	SystemNotifications    *bool `json:"system_notifications"`
	DailyDigest            *bool `json:"daily_digest"`
	ImmediateNotifications *bool `json:"immediate_notifications"`
}

// PUT /api/notifications/preferences/
func (nh *NotificationHandler) UpdatePreferences(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	prefs, err := nh.notificationService.EnsurePreferences(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	applyBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	applyBool(&prefs.OrderNotifications, req.OrderNotifications)
	applyBool(&prefs.LoyaltyNotifications, req.LoyaltyNotifications)
	applyBool(&prefs.PromotionNotifications, req.PromotionNotifications)
	applyBool(&prefs.ReminderNotifications, req.ReminderNotifications)
	applyBool(&prefs.SystemNotifications, req.SystemNotifications)
	applyBool(&prefs.DailyDigest, req.DailyDigest)
	applyBool(&prefs.ImmediateNotifications, req.ImmediateNotifications)
	if err := nh.notificationService.SavePreferences(c.Request.Context(), prefs); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": prefs})
}
