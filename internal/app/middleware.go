package app

import (
	"github.com/gin-gonic/gin"

	"github.com/freshfold/freshfold-backend/internal/middleware"
	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth          *middleware.AuthMiddleware
	RequestLogger gin.HandlerFunc
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	return Middleware{
		Auth:          middleware.NewAuthMiddleware(log, cfg.JWTSecretKey),
		RequestLogger: middleware.RequestLogger(log),
	}
}
