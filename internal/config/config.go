package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	Environment string
	LogLevel    string
	HTTPPort    string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Quote source for the USD->RUB rate.
	QuoteURL     string
	QuoteTimeout time.Duration
	RateCacheKey string
	RateCacheTTL time.Duration

	ComputeInterval   time.Duration
	ComputeRunTimeout time.Duration

	SessionCookie    string
	SessionTTL       time.Duration
	SessionSecure    bool
	SeedPackageTypes bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	sessionSecure := environment == "production"
	if !sessionSecure {
		sessionSecure = getenvBool("SESSION_COOKIE_SECURE", false)
	}

	return Config{
		AppName:     getenv("APP_SERVICE", "delivery-club"),
		Environment: environment,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		HTTPPort:    getenv("PORT", "8000"),

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "delivery"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		QuoteURL:     getenv("CBR_URL", "https://www.cbr-xml-daily.ru/daily_json.js"),
		QuoteTimeout: getenvSeconds("CBR_TIMEOUT_SECONDS", 10*time.Second),
		RateCacheKey: getenv("CBR_CACHE_KEY", "cbr_usd_rub"),
		RateCacheTTL: getenvSeconds("CBR_TTL_SECONDS", time.Hour),

		ComputeInterval:   getenvSeconds("DELIVERY_RATE_INTERVAL_SECONDS", 5*time.Minute),
		ComputeRunTimeout: getenvSeconds("DELIVERY_RATE_RUN_TIMEOUT_SECONDS", 2*time.Minute),

		SessionCookie:    getenv("SESSION_COOKIE", "session_id"),
		SessionTTL:       getenvSeconds("SESSION_TTL_SECONDS", 30*24*time.Hour),
		SessionSecure:    sessionSecure,
		SeedPackageTypes: getenvBool("SEED_PACKAGE_TYPES", true),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvSeconds(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return time.Duration(parsed) * time.Second
}
