package app

import (
	"github.com/gin-gonic/gin"

	"github.com/freshfold/freshfold-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:      m.Auth,
		RequestLogger:       m.RequestLogger,
		OrderHandler:        h.Order,
		CustomerHandler:     h.Customer,
		NotificationHandler: h.Notification,
		AllowOrigins:        cfg.AllowOrigins,
	})
}
