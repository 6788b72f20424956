package app

import (
	"strings"

	"github.com/freshfold/freshfold-backend/internal/pkg/envutil"
	"github.com/freshfold/freshfold-backend/internal/services"
)

type Config struct {
	HTTPAddr     string
	JWTSecretKey string
	AllowOrigins []string

	Loyalty      services.LoyaltyPolicy
	Order        services.OrderPolicy
	Notification services.NotificationPolicy
}

func LoadConfig() Config {
	defaults := services.DefaultLoyaltyPolicy()
	loyalty := services.LoyaltyPolicy{
		PointsPerUnit:     envutil.Decimal("LOYALTY_POINTS_PER_UNIT", defaults.PointsPerUnit),
		SilverThreshold:   envutil.Decimal("TIER_SILVER_THRESHOLD", defaults.SilverThreshold),
		GoldThreshold:     envutil.Decimal("TIER_GOLD_THRESHOLD", defaults.GoldThreshold),
		PlatinumThreshold: envutil.Decimal("TIER_PLATINUM_THRESHOLD", defaults.PlatinumThreshold),
	}

	order := services.OrderPolicy{
		MaxItemQuantity:     envutil.Int("ORDER_MAX_ITEM_QUANTITY", 100),
		OrderNumberAttempts: envutil.Int("ORDER_NUMBER_ATTEMPTS", 5),
	}

	notification := services.NotificationPolicy{
		TitleMaxLen:        envutil.Int("NOTIFICATION_TITLE_MAX_LEN", 200),
		DefaultCleanupDays: envutil.Int("NOTIFICATION_CLEANUP_DAYS", 30),
	}

	origins := strings.Split(envutil.String("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		HTTPAddr:     envutil.String("HTTP_ADDR", ":8080"),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AllowOrigins: origins,
		Loyalty:      loyalty,
		Order:        order,
		Notification: notification,
	}
}
