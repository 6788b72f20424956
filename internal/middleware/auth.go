package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/freshfold/freshfold-backend/internal/http/response"
	"github.com/freshfold/freshfold-backend/internal/pkg/ctxutil"
	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
)

// AuthMiddleware verifies bearer tokens issued by the identity provider and
// places the caller's identity into the request context. Token issuance and
// role/permission checks live outside this service.
type AuthMiddleware struct {
	log          *logger.Logger
	jwtSecretKey string
}

func NewAuthMiddleware(log *logger.Logger, jwtSecretKey string) *AuthMiddleware {
	return &AuthMiddleware{
		log:          log.With("middleware", "AuthMiddleware"),
		jwtSecretKey: jwtSecretKey,
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.RespondError(c, http.StatusUnauthorized, "missing_token", fmt.Errorf("authorization header required"))
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(am.jwtSecretKey), nil
		})
		if err != nil || !token.Valid {
			am.log.Warn("Rejected invalid token", "error", err)
			response.RespondError(c, http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid or expired token"))
			c.Abort()
			return
		}

		rd := &ctxutil.RequestData{}
		if sub, ok := claims["sub"].(string); ok {
			if userID, parseErr := uuid.Parse(sub); parseErr == nil {
				rd.UserID = userID
			}
		}
		if role, ok := claims["role"].(string); ok {
			rd.Role = role
		}
		if shop, ok := claims["shop_id"].(string); ok {
			if shopID, parseErr := uuid.Parse(shop); parseErr == nil {
				rd.ShopID = shopID
			}
		}
		if rd.UserID == uuid.Nil {
			response.RespondError(c, http.StatusUnauthorized, "invalid_token", fmt.Errorf("token has no subject"))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(ctxutil.SetRequestData(c.Request.Context(), rd))
		c.Next()
	}
}
