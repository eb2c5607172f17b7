package config

import (
	"fmt"
	"log"
	"time"

	"github.com/fxbureau/bureau_backend/internal/utils/fieldcrypt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// EncryptionKeyHex is the 64-character hex encoding of the 32-byte key
	// used for customer PII field encryption. Provisioning and rotation are
	// handled outside this service.
	EncryptionKeyHex string

	// RedisURL enables the Idempotency-Key middleware when set.
	RedisURL string

	// QuoteMaxAge is how old the latest quote for a currency may be before it
	// is refused for settlement.
	QuoteMaxAge time.Duration

	// LoginRateLimit is a ulule/limiter formatted rate, e.g. "10-M".
	LoginRateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "bureau-backend")
	viper.SetDefault("ENCRYPTION_KEY", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("QUOTE_MAX_AGE", "24h")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = 8 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.EncryptionKeyHex = viper.GetString("ENCRYPTION_KEY")
	if cfg.EncryptionKeyHex == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY environment variable is required")
	}
	if _, err := fieldcrypt.NewCodecFromHex(cfg.EncryptionKeyHex); err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY is invalid: %w", err)
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")

	quoteMaxAgeStr := viper.GetString("QUOTE_MAX_AGE")
	quoteMaxAge, err := time.ParseDuration(quoteMaxAgeStr)
	if err != nil {
		quoteMaxAge = 24 * time.Hour
		log.Printf("Warning: Invalid value for QUOTE_MAX_AGE ('%s'). Defaulting to %s.\n", quoteMaxAgeStr, quoteMaxAge)
	}
	cfg.QuoteMaxAge = quoteMaxAge

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	return cfg, nil
}
