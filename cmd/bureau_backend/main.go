package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/fxbureau/bureau_backend/internal/adapters/database/pgsql"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
	"github.com/fxbureau/bureau_backend/internal/core/services"
	"github.com/fxbureau/bureau_backend/internal/handlers"
	"github.com/fxbureau/bureau_backend/internal/middleware"
	"github.com/fxbureau/bureau_backend/internal/platform/config"
	"github.com/fxbureau/bureau_backend/internal/utils/fieldcrypt"
	"github.com/fxbureau/bureau_backend/pkg/database"
	"github.com/fxbureau/bureau_backend/pkg/metrics"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Bureau Backend API
// @version 1.0
// @description Settlement core for a retail currency exchange bureau.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	codec, err := fieldcrypt.NewCodecFromHex(cfg.EncryptionKeyHex)
	if err != nil {
		logger.Error("Failed to initialize field encryption", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Optional Redis client for submission idempotency
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Redis connected, submission idempotency enabled.")
	}

	// Login rate limiter, in-memory per instance
	var loginLimiter *limiter.Limiter
	if rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit); err != nil {
		logger.Warn("Invalid LOGIN_RATE_LIMIT, login rate limiting disabled", slog.String("error", err.Error()))
	} else {
		loginLimiter = limiter.New(memorystore.NewStore(), rate)
	}

	collector := metrics.NewCollector()

	repos := portsrepo.RepositoryProvider{
		Operator:   pgsql.NewPgxOperatorRepository(dbPool),
		Currency:   pgsql.NewPgxCurrencyRepository(dbPool),
		Customer:   pgsql.NewPgxCustomerRepository(dbPool),
		Settlement: pgsql.NewPgxSettlementRepository(dbPool),
	}
	serviceContainer := services.NewServiceContainer(cfg, repos, codec, collector)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, collector, loginLimiter, rdb)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
