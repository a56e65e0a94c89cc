package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration"`
}

// HealthCheck godoc
// @Summary Health check endpoint
// @Description Reports whether the service and its stores are reachable
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func newHealthCheckHandler(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		resp := HealthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK

		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("check", name).Msg("health check failed")
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		resp.Duration = time.Since(start).String()
		c.JSON(status, resp)
	}
}
