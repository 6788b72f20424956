package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/freshfold/freshfold-backend/internal/http/response"
	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
	"github.com/freshfold/freshfold-backend/internal/pkg/ctxutil"
	"github.com/freshfold/freshfold-backend/internal/services"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type OrderHandler struct {
	orderService  services.OrderService
	statusService services.OrderStatusService
}

func NewOrderHandler(orderService services.OrderService, statusService services.OrderStatusService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		statusService: statusService,
	}
}

type createOrderRequest struct {
	ShopID              string `json:"shop_id" binding:"required"`
	PickupType          string `json:"pickup_type"`
	CustomerName        string `json:"customer_name" binding:"required"`
	CustomerPhone       string `json:"customer_phone" binding:"required"`
	PickupAddress       string `json:"pickup_address"`
	SpecialInstructions string `json:"special_instructions"`
	Items               []struct {
		ServicePriceID string `json:"service_price_id" binding:"required"`
		Quantity       int    `json:"quantity" binding:"required"`
		Notes          string `json:"notes"`
	} `json:"items"`
}

// POST /api/orders/
func (oh *OrderHandler) Create(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid shop_id"))
		return
	}
	params := services.CreateOrderParams{
		CustomerID:          rd.UserID,
		ShopID:              shopID,
		PickupType:          req.PickupType,
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		PickupAddress:       req.PickupAddress,
		SpecialInstructions: req.SpecialInstructions,
	}
	for _, item := range req.Items {
		priceID, parseErr := uuid.Parse(item.ServicePriceID)
		if parseErr != nil {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid service_price_id"))
			return
		}
		params.Items = append(params.Items, services.NewOrderItem{
			ServicePriceID: priceID,
			Quantity:       item.Quantity,
			Notes:          item.Notes,
		})
	}

	order, err := oh.orderService.CreateOrder(c.Request.Context(), params)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"order": order})
}

// GET /api/orders/
func (oh *OrderHandler) List(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	ctx := c.Request.Context()

	if (rd.Role == types.RoleShopOwner || rd.Role == types.RoleStaff) && rd.ShopID != uuid.Nil {
		orders, err := oh.orderService.ListByShop(ctx, rd.ShopID, types.OrderStatus(c.Query("status")))
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"orders": orders})
		return
	}
	orders, err := oh.orderService.ListByCustomer(ctx, rd.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"orders": orders})
}

// GET /api/orders/:id/
func (oh *OrderHandler) Get(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	order, ok := oh.loadScopedOrder(c, rd)
	if !ok {
		return
	}
	history, err := oh.statusService.ListHistory(c.Request.Context(), order.ID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": order, "status_history": history})
}

// PATCH /api/orders/:id/status/
func (oh *OrderHandler) UpdateStatus(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	order, ok := oh.loadScopedOrder(c, rd)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	updated, err := oh.statusService.Transition(c.Request.Context(), order.ID, types.OrderStatus(req.Status), rd.UserID, req.Notes)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": updated})
}

// POST /api/orders/:id/items/
func (oh *OrderHandler) AddItem(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	order, ok := oh.loadScopedOrder(c, rd)
	if !ok {
		return
	}
	var req struct {
		ServicePriceID string `json:"service_price_id" binding:"required"`
		Quantity       int    `json:"quantity" binding:"required"`
		Notes          string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	priceID, err := uuid.Parse(req.ServicePriceID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid service_price_id"))
		return
	}
	item, err := oh.orderService.AddItem(c.Request.Context(), order.ID, priceID, req.Quantity, req.Notes)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"item": item})
}

// DELETE /api/orders/:id/items/:itemId/
func (oh *OrderHandler) RemoveItem(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	order, ok := oh.loadScopedOrder(c, rd)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid item id"))
		return
	}
	if err := oh.orderService.RemoveItem(c.Request.Context(), order.ID, itemID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// loadScopedOrder fetches the order and hides it from callers outside its
// tenant: a stranger's order reads as not found, not forbidden.
func (oh *OrderHandler) loadScopedOrder(c *gin.Context, rd *ctxutil.RequestData) (*types.Order, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid order id"))
		return nil, false
	}
	order, err := oh.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		response.RespondAPIError(c, err)
		return nil, false
	}
	switch {
	case order.CustomerID == rd.UserID:
	case rd.ShopID != uuid.Nil && order.ShopID == rd.ShopID:
	default:
		response.RespondError(c, http.StatusNotFound, apierr.CodeNotFound, fmt.Errorf("order not found"))
		return nil, false
	}
	return order, true
}
