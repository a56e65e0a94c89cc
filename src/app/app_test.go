package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/quickpoll/backend/src/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T) AppConfig {
	t.Setenv("DB_URL", fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_")))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("ALLOW_ORIGINS", "https://poll.example.com")
	t.Setenv("CAPTCHA_STORE", "database")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SEED_DEMO_POLL", "true")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("API_SECRET", "")
	return *NewAppConfig()
}

func TestNewApplication_SQLite(t *testing.T) {
	ctx := context.Background()
	config := setupTestConfig(t)

	application, err := NewApplication(ctx, config)
	require.NoError(t, err)
	t.Cleanup(func() { application.Shutdown(ctx) })

	// demo poll seeded once
	polls, err := application.PollService.ListPolls(ctx, domain.ActorIdentity{IP: "1.2.3.4"})
	require.NoError(t, err)
	require.Len(t, polls, 1)

	issued, err := application.CaptchaService.Issue(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CaptchaKindPosition, issued.Kind)

	deleted, err := application.Sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestNewApplication_RedisCaptchaStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	config := setupTestConfig(t)
	store, addr := "redis", "redis://"+mr.Addr()
	config.CaptchaStore = &store
	config.RedisAddr = &addr

	application, err := NewApplication(ctx, config)
	require.NoError(t, err)
	t.Cleanup(func() { application.Shutdown(ctx) })

	issued, err := application.CaptchaService.Issue(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("captcha:"+issued.Token))
}

func TestNewApplication_UnsupportedDriver(t *testing.T) {
	config := setupTestConfig(t)
	driver := "mysql"
	config.DBDriver = &driver

	_, err := NewApplication(context.Background(), config)
	assert.Error(t, err)
}

func TestRegisterRoutes_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	application, err := NewApplication(ctx, setupTestConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { application.Shutdown(ctx) })

	router := gin.New()
	application.registerRoutes(ctx, router)

	req := httptest.NewRequest(http.MethodGet, "/api/captcha", nil)
	req.Header.Set("Origin", "https://poll.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://poll.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Captcha-Token")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNewLogger(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", false)

	logger.Info().Msg("hidden")
	logger.Warn().Str("poll_id", "7").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "poll_id=7")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	newLogger(&buf, "nonsense", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestNewLogger_Structured(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	var buf bytes.Buffer
	logger := newLogger(&buf, "info", true)
	logger.Info().Uint("poll_id", 7).Msg("vote recorded")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "vote recorded", line["message"])
	assert.Equal(t, "quickpoll", line["app"])
	assert.Equal(t, float64(7), line["poll_id"])
}
