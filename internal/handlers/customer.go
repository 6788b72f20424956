package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshfold/freshfold-backend/internal/http/response"
	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/pkg/ctxutil"
	"github.com/freshfold/freshfold-backend/internal/services"
)

type CustomerHandler struct {
	loyaltyService services.LoyaltyService
}

func NewCustomerHandler(loyaltyService services.LoyaltyService) *CustomerHandler {
	return &CustomerHandler{loyaltyService: loyaltyService}
}

// GET /api/customers/profile/
func (ch *CustomerHandler) GetProfile(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	profile, err := ch.loyaltyService.EnsureProfile(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": profile})
}

// POST /api/customers/loyalty/redeem/
func (ch *CustomerHandler) RedeemPoints(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req struct {
		Points      int    `json:"points" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	if req.Description == "" {
		req.Description = "Points redemption"
	}
	txn, err := ch.loyaltyService.Redeem(c.Request.Context(), rd.UserID, req.Points, req.Description)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	profile, err := ch.loyaltyService.GetProfile(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"transaction":      txn,
		"remaining_points": profile.LoyaltyPoints,
	})
}

// GET /api/customers/loyalty/transactions/
func (ch *CustomerHandler) ListTransactions(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	txns, err := ch.loyaltyService.ListTransactions(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transactions": txns})
}
