package app

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// =========================== REQUIRED ===========================

	// Database configuration (required)
	DSN *string

	// =========================== OPTIONAL ===========================

	// Database driver: "postgres" or "sqlite"
	DBDriver *string
	// Redis configuration, only needed when CaptchaStore is "redis"
	RedisAddr *string

	// Environment: "dev", "staging", "prod"
	Environment *string

	// Logging configuration
	LogLevel *string

	// HTTP server configuration
	Host *string
	Port *string

	// CORS configuration
	AllowOrigins *[]string

	// Shared secret guarding poll creation; empty disables the check
	APISecret *string

	// Migration configuration
	MigrationPath *string

	// Captcha configuration
	CaptchaStore      *string
	CaptchaKind       *string
	CaptchaTTL        *time.Duration
	VerifiedTokenTTL  *time.Duration
	PositionTolerance *int
	SweepInterval     *time.Duration

	// Timezone used to display timestamps
	DisplayTimezone *string

	// Create a sample poll on startup when the database is empty
	SeedDemoPoll *bool
}

func NewAppConfig() *AppConfig {
	config := &AppConfig{}

	// Load required configuration
	loadRequiredConfig(config)

	// Load optional configuration with defaults
	loadOptionalConfig(config)

	return config
}

// loadRequiredConfig loads all required configuration values and fails fast if any are missing
func loadRequiredConfig(config *AppConfig) {
	// Database URL (required)
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatalf("REQUIRED: DB_URL not set in environment")
	}
	config.DSN = &dsn
}

// loadOptionalConfig loads all optional configuration values with sensible defaults
func loadOptionalConfig(config *AppConfig) {
	dbDriver := strings.ToLower(getEnvWithDefault("DB_DRIVER", "postgres"))
	config.DBDriver = &dbDriver

	redisAddr := os.Getenv("REDIS_URL")
	config.RedisAddr = &redisAddr

	environment := getEnvWithDefault("ENVIRONMENT", "dev")
	config.Environment = &environment

	// Available levels: "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"
	logLevel := getEnvWithDefault("LOG_LEVEL", "debug")
	config.LogLevel = &logLevel

	port := getEnvWithDefault("PORT", "8080")
	config.Port = &port

	host := getEnvWithDefault("HOST", "localhost:"+port)
	config.Host = &host

	apiSecret := os.Getenv("API_SECRET")
	config.APISecret = &apiSecret

	migrationPath := getEnvWithDefault("MIGRATION_PATH", "file://migrations")
	config.MigrationPath = &migrationPath

	displayTimezone := getEnvWithDefault("DISPLAY_TIMEZONE", "Asia/Shanghai")
	config.DisplayTimezone = &displayTimezone

	seedDemoPoll := getBool("SEED_DEMO_POLL", false)
	config.SeedDemoPoll = &seedDemoPoll

	loadCORSConfig(config)
	loadCaptchaConfig(config)
}

// loadCORSConfig parses comma-separated origins, defaulting to localhost outside production
func loadCORSConfig(config *AppConfig) {
	var allowOrigins []string
	for _, origin := range strings.Split(os.Getenv("ALLOW_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowOrigins = append(allowOrigins, origin)
		}
	}

	if len(allowOrigins) == 0 {
		if *config.Environment == "prod" {
			log.Fatalf("REQUIRED: ALLOW_ORIGINS not set in environment (required in production)")
		}
		allowOrigins = []string{"http://localhost:" + *config.Port, "http://localhost:5173"}
	}

	config.AllowOrigins = &allowOrigins
}

// loadCaptchaConfig loads the captcha store, shape and lifetimes
func loadCaptchaConfig(config *AppConfig) {
	captchaStore := strings.ToLower(getEnvWithDefault("CAPTCHA_STORE", "database"))
	if captchaStore == "redis" && *config.RedisAddr == "" {
		log.Fatalf("REQUIRED: REDIS_URL must be set when CAPTCHA_STORE=redis")
	}
	config.CaptchaStore = &captchaStore

	captchaKind := strings.ToLower(getEnvWithDefault("CAPTCHA_KIND", "position"))
	if captchaKind != "position" && captchaKind != "text" {
		log.Printf("Warning: Invalid CAPTCHA_KIND value '%s', using 'position'", captchaKind)
		captchaKind = "position"
	}
	config.CaptchaKind = &captchaKind

	captchaTTL := getSeconds("CAPTCHA_TTL", 300)
	config.CaptchaTTL = &captchaTTL

	verifiedTTL := getSeconds("VERIFIED_TOKEN_TTL", 60)
	config.VerifiedTokenTTL = &verifiedTTL

	tolerance := getInt("POSITION_TOLERANCE", 10)
	config.PositionTolerance = &tolerance

	sweepInterval := getSeconds("SWEEP_INTERVAL", 60)
	config.SweepInterval = &sweepInterval
}

// getInt parses a positive integer from environment with default fallback
func getInt(key string, defaultValue int) int {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue
	}

	if parsed, err := strconv.Atoi(str); err == nil && parsed > 0 {
		return parsed
	}

	log.Printf("Warning: Invalid %s value '%s', using default %d", key, str, defaultValue)
	return defaultValue
}

// getSeconds parses a duration given in whole seconds
func getSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getInt(key, defaultSeconds)) * time.Second
}

func getBool(key string, defaultValue bool) bool {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue
	}

	if parsed, err := strconv.ParseBool(str); err == nil {
		return parsed
	}

	log.Printf("Warning: Invalid %s value '%s', using default %t", key, str, defaultValue)
	return defaultValue
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
