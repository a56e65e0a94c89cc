package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/quickpoll")
	for _, key := range []string{
		"DB_DRIVER", "REDIS_URL", "ENVIRONMENT", "LOG_LEVEL", "PORT", "HOST", "API_SECRET",
		"MIGRATION_PATH", "DISPLAY_TIMEZONE", "SEED_DEMO_POLL", "ALLOW_ORIGINS",
		"CAPTCHA_STORE", "CAPTCHA_KIND", "CAPTCHA_TTL", "VERIFIED_TOKEN_TTL",
		"POSITION_TOLERANCE", "SWEEP_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	config := NewAppConfig()

	assert.Equal(t, "postgres://localhost/quickpoll", *config.DSN)
	assert.Equal(t, "postgres", *config.DBDriver)
	assert.Equal(t, "dev", *config.Environment)
	assert.Equal(t, "8080", *config.Port)
	assert.Equal(t, "localhost:8080", *config.Host)
	assert.Empty(t, *config.APISecret)
	assert.Equal(t, "file://migrations", *config.MigrationPath)
	assert.Equal(t, "Asia/Shanghai", *config.DisplayTimezone)
	assert.False(t, *config.SeedDemoPoll)
	assert.Equal(t, []string{"http://localhost:8080", "http://localhost:5173"}, *config.AllowOrigins)

	assert.Equal(t, "database", *config.CaptchaStore)
	assert.Equal(t, "position", *config.CaptchaKind)
	assert.Equal(t, 300*time.Second, *config.CaptchaTTL)
	assert.Equal(t, 60*time.Second, *config.VerifiedTokenTTL)
	assert.Equal(t, 10, *config.PositionTolerance)
	assert.Equal(t, 60*time.Second, *config.SweepInterval)
}

func TestNewAppConfig_Overrides(t *testing.T) {
	t.Setenv("DB_URL", "file:quickpoll.db")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("PORT", "9000")
	t.Setenv("HOST", "")
	t.Setenv("ALLOW_ORIGINS", "https://poll.example.com, https://www.example.com ,")
	t.Setenv("CAPTCHA_STORE", "redis")
	t.Setenv("CAPTCHA_KIND", "text")
	t.Setenv("CAPTCHA_TTL", "120")
	t.Setenv("VERIFIED_TOKEN_TTL", "30")
	t.Setenv("POSITION_TOLERANCE", "5")
	t.Setenv("SWEEP_INTERVAL", "15")
	t.Setenv("SEED_DEMO_POLL", "true")
	t.Setenv("API_SECRET", "s3cret")

	config := NewAppConfig()

	assert.Equal(t, "sqlite", *config.DBDriver)
	assert.Equal(t, "localhost:9000", *config.Host)
	assert.Equal(t, []string{"https://poll.example.com", "https://www.example.com"}, *config.AllowOrigins)
	assert.Equal(t, "redis", *config.CaptchaStore)
	assert.Equal(t, "text", *config.CaptchaKind)
	assert.Equal(t, 120*time.Second, *config.CaptchaTTL)
	assert.Equal(t, 30*time.Second, *config.VerifiedTokenTTL)
	assert.Equal(t, 5, *config.PositionTolerance)
	assert.Equal(t, 15*time.Second, *config.SweepInterval)
	assert.True(t, *config.SeedDemoPoll)
	assert.Equal(t, "s3cret", *config.APISecret)
}

func TestNewAppConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_URL", "file:quickpoll.db")
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("CAPTCHA_STORE", "")
	t.Setenv("CAPTCHA_KIND", "puzzle")
	t.Setenv("CAPTCHA_TTL", "-5")
	t.Setenv("POSITION_TOLERANCE", "ten")
	t.Setenv("SEED_DEMO_POLL", "maybe")

	config := NewAppConfig()

	require.NotNil(t, config.CaptchaKind)
	assert.Equal(t, "position", *config.CaptchaKind)
	assert.Equal(t, 300*time.Second, *config.CaptchaTTL)
	assert.Equal(t, 10, *config.PositionTolerance)
	assert.False(t, *config.SeedDemoPoll)
}
