package config

import (
	"fmt"
	"os"
	"strconv"

	"mebelshop-backend/internal/domains/payment/model"
)

// Config holds the full application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Jusan    JusanConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

// =====================================================
// JUSAN GATEWAY CONFIGURATION
// =====================================================

type JusanConfig struct {
	Variant      string // legacy (GET redirect) or ecom (POST form)
	MerchantID   string
	TerminalID   string
	SharedSecret string
	PaymentURL   string
	RefundURL    string
	Descriptor   string // merchant name shown on the payment page
	ClientID     string
	Language     string
	ReturnURL    string // customer lands here after payment
	CancelURL    string // customer lands here after cancelling
	NotifyURL    string // server-to-server result notification
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Mebelshop API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "mebelshop"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),
		},
		Jusan: JusanConfig{
			Variant:      getEnv("JUSAN_VARIANT", model.VariantEcom),
			MerchantID:   getEnv("JUSAN_MERCHANT_ID", ""),
			TerminalID:   getEnv("JUSAN_TERMINAL_ID", ""),
			SharedSecret: getEnv("JUSAN_SHARED_SECRET", ""),
			PaymentURL:   getEnv("JUSAN_PAYMENT_URL", "https://jpay.jysanbank.kz/ecom/api"),
			RefundURL:    getEnv("JUSAN_REFUND_URL", "https://jpay.jysanbank.kz/ecom/api/refund"),
			Descriptor:   getEnv("JUSAN_DESCRIPTOR", ""),
			ClientID:     getEnv("JUSAN_CLIENT_ID", ""),
			Language:     getEnv("JUSAN_LANGUAGE", "ru"),
			ReturnURL:    getEnv("JUSAN_RETURN_URL", "http://localhost:3000/payment/result"),
			CancelURL:    getEnv("JUSAN_CANCEL_URL", "http://localhost:3000/payment/cancel"),
			NotifyURL:    getEnv("JUSAN_NOTIFY_URL", "http://localhost:8080/api/v1/webhooks/jusan"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that production-critical settings are present.
func (c *Config) Validate() error {
	if c.Jusan.Variant != model.VariantLegacy && c.Jusan.Variant != model.VariantEcom {
		return fmt.Errorf("JUSAN_VARIANT must be %q or %q, got %q", model.VariantLegacy, model.VariantEcom, c.Jusan.Variant)
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Jusan.MerchantID == "" {
			fmt.Println("WARNING: Jusan MerchantID not set - card payments will not work")
		}
		// An empty shared secret disables signature verification entirely.
		// Legal for sandbox terminals, loud in production.
		if c.Jusan.SharedSecret == "" {
			fmt.Println("WARNING: Jusan SharedSecret not set - callback signatures will not be verified")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
