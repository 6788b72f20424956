package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/freshfold/freshfold-backend/internal/handlers"
	"github.com/freshfold/freshfold-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware      *middleware.AuthMiddleware
	RequestLogger       gin.HandlerFunc
	OrderHandler        *handlers.OrderHandler
	CustomerHandler     *handlers.CustomerHandler
	NotificationHandler *handlers.NotificationHandler
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	if cfg.RequestLogger != nil {
		api.Use(cfg.RequestLogger)
	}

	// Orders
	orders := api.Group("/orders")
	orders.POST("/", cfg.OrderHandler.Create)
	orders.GET("/", cfg.OrderHandler.List)
	orders.GET("/:id/", cfg.OrderHandler.Get)
	orders.PATCH("/:id/status/", cfg.OrderHandler.UpdateStatus)
	orders.POST("/:id/items/", cfg.OrderHandler.AddItem)
	orders.DELETE("/:id/items/:itemId/", cfg.OrderHandler.RemoveItem)

	// Customers
	customers := api.Group("/customers")
	customers.GET("/profile/", cfg.CustomerHandler.GetProfile)
	customers.POST("/loyalty/redeem/", cfg.CustomerHandler.RedeemPoints)
	customers.GET("/loyalty/transactions/", cfg.CustomerHandler.ListTransactions)

	// Notifications
	notifications := api.Group("/notifications")
	notifications.GET("/", cfg.NotificationHandler.List)
	notifications.GET("/unread-count/", cfg.NotificationHandler.UnreadCount)
	notifications.POST("/mark-all-read/", cfg.NotificationHandler.MarkAllRead)
	notifications.PATCH("/:id/update/", cfg.NotificationHandler.UpdateStatus)
	notifications.POST("/batch/create/", cfg.NotificationHandler.CreateBatch)
	notifications.POST("/cleanup/", cfg.NotificationHandler.Cleanup)
	notifications.GET("/preferences/", cfg.NotificationHandler.GetPreferences)
	notifications.PUT("/preferences/", cfg.NotificationHandler.UpdatePreferences)

	return router
}
