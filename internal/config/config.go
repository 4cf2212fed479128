package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	ERP         ERPConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	Checkout    CheckoutConfig
	Catalog     CatalogConfig
}

// ERPConfig is used to call the ERPNext REST API. Credentials come only from
// the environment; there is no hardcoded fallback.
type ERPConfig struct {
	BaseURL         string // e.g. https://shop.example.erpnext.com
	APIKey          string
	APISecret       string
	Warehouse       string // injected into every Sales Order line
	PriceList       string
	Currency        string
	DefaultCustomer string // used when a checkout does not name a customer
}

// Configured reports whether the credential triple is present. Checked per
// request so the process can start without ERP access.
func (c ERPConfig) Configured() bool {
	return c.BaseURL != "" && c.APIKey != "" && c.APISecret != ""
}

// RedisConfig enables the remote cart store when Addr is set; otherwise carts
// live in process memory and are lost on restart.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CartTTL  time.Duration
}

// DatabaseConfig enables the Postgres order-record mirror when Host is set.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

type CheckoutConfig struct {
	AttemptTimeout time.Duration // bound on a single order submission attempt
	MaxAttempts    int           // attempts for transient connectivity failures
	RetryBaseDelay time.Duration // doubles per attempt
	DisplayDelay   time.Duration // how long Succeeded/Failed stays visible
}

type CatalogConfig struct {
	CacheTTL   time.Duration
	PageLength int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		ERP: ERPConfig{
			BaseURL:         strings.TrimSpace(getEnvOrViper("ERP_BASE_URL", "")),
			APIKey:          strings.TrimSpace(getEnvOrViper("ERP_API_KEY", "")),
			APISecret:       strings.TrimSpace(getEnvOrViper("ERP_API_SECRET", "")),
			Warehouse:       getEnvOrViper("ERP_WAREHOUSE", "Stores - ITPS"),
			PriceList:       getEnvOrViper("ERP_PRICE_LIST", "Standard Selling"),
			Currency:        getEnvOrViper("ERP_CURRENCY", "MXN"),
			DefaultCustomer: getEnvOrViper("ERP_DEFAULT_CUSTOMER", ""),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getEnvOrViper("REDIS_ADDR", "")),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       viper.GetInt("REDIS_DB"),
			CartTTL:  getDuration("CART_TTL", 72*time.Hour),
		},
		Database: DatabaseConfig{
			Host:     strings.TrimSpace(getEnvOrViper("DB_HOST", "")),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "itpshop"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Checkout: CheckoutConfig{
			AttemptTimeout: getDuration("CHECKOUT_ATTEMPT_TIMEOUT", 15*time.Second),
			MaxAttempts:    getInt("CHECKOUT_MAX_ATTEMPTS", 3),
			RetryBaseDelay: getDuration("CHECKOUT_RETRY_BASE_DELAY", 500*time.Millisecond),
			DisplayDelay:   getDuration("CHECKOUT_DISPLAY_DELAY", 3*time.Second),
		},
		Catalog: CatalogConfig{
			CacheTTL:   getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
			PageLength: getInt("CATALOG_PAGE_LENGTH", 50),
		},
	}

	if cfg.Checkout.MaxAttempts < 1 {
		return nil, fmt.Errorf("CHECKOUT_MAX_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := getEnvOrViper(key, "")
	if raw == "" {
		return defaultValue
	}
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
		return defaultValue
	}
	return n
}
