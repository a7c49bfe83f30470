package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	App       AppConfig
	Admin     AdminConfig
	Stripe    StripeConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port        string
	FrontendURL string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string
}

// AdminConfig holds the moderator credentials and the unsafe bootstrap switch
type AdminConfig struct {
	Username string
	Password string

	// BootstrapEnabled exposes PUT /users/:id/make-admin. Leave off in production.
	BootstrapEnabled bool
	BootstrapSecret  string
}

// StripeConfig holds payment processor settings
type StripeConfig struct {
	SecretKey  string
	BaseURL    string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// RedisConfig holds the token revocation store settings
type RedisConfig struct {
	URL string
}

// RateLimitConfig throttles the credential endpoints per client IP
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")

	config := &Config{
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			URL:        getEnv("DATABASE_URL", ""),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			DBName:     getEnv("DB_NAME", "fluxtrade"),
			SQLitePath: getEnv("SQLITE_PATH", "fluxtrade.db"),
		},
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "5000"),
			FrontendURL: frontendURL,
		},
		App: AppConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Admin: AdminConfig{
			Username:         getEnv("ADMIN_USERNAME", ""),
			Password:         getEnv("ADMIN_PASSWORD", ""),
			BootstrapEnabled: getEnvBool("ADMIN_BOOTSTRAP_ENABLED", false),
			BootstrapSecret:  getEnv("ADMIN_BOOTSTRAP_SECRET", ""),
		},
		Stripe: StripeConfig{
			SecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
			BaseURL:    getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
			Currency:   getEnv("STRIPE_CURRENCY", "bdt"),
			SuccessURL: getEnv("STRIPE_SUCCESS_URL", frontendURL+"/success"),
			CancelURL:  getEnv("STRIPE_CANCEL_URL", frontendURL+"/cancel"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvFloat("AUTH_RATE_LIMIT_RPS", 5),
			Burst:             getEnvInt("AUTH_RATE_LIMIT_BURST", 10),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver)
	}

	if config.Admin.BootstrapEnabled && config.Admin.BootstrapSecret == "" {
		return nil, fmt.Errorf("ADMIN_BOOTSTRAP_SECRET is required when ADMIN_BOOTSTRAP_ENABLED is set")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}
