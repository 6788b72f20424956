package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/internal/pkg/envutil"
	"github.com/freshfold/freshfold-backend/internal/pkg/logger"
	"github.com/freshfold/freshfold-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "freshfold")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	// TranslateError maps driver unique-violation errors to
	// gorm.ErrDuplicatedKey, which the order number retry depends on.
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: database, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	return AutoMigrate(s.db)
}

// AutoMigrate runs schema migration on any gorm handle. Shared with the
// sqlite-backed test databases.
func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&types.User{},
		&types.Shop{},
		&types.ServicePrice{},
		&types.Order{},
		&types.OrderItem{},
		&types.OrderStatusHistory{},
		&types.CustomerProfile{},
		&types.LoyaltyTransaction{},
		&types.NotificationTemplate{},
		&types.Notification{},
		&types.NotificationPreference{},
		&types.NotificationBatch{},
	)
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
