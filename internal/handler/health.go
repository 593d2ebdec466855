package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/netanomics/internal/config"
	"github.com/deppfellow/netanomics/internal/middleware"
	"github.com/deppfellow/netanomics/internal/server"
)

type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

// HealthHandler reports whether PostgreSQL and Redis answer a ping. The
// observability.health_checks config picks which of them are pinged.
type HealthHandler struct {
	Handler
	checks  []dependencyCheck
	timeout time.Duration
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	cfg := config.DefaultObservabilityConfig().HealthChecks
	if s.Config.Observability != nil {
		cfg = s.Config.Observability.HealthChecks
	}
	h := &HealthHandler{Handler: NewHandler(s), timeout: cfg.Timeout}

	if s.DB != nil && cfg.Includes("database") {
		h.checks = append(h.checks, dependencyCheck{name: "database", ping: s.DB.Pool.Ping})
	}
	if s.Redis != nil && cfg.Includes("redis") {
		h.checks = append(h.checks, dependencyCheck{name: "redis", ping: func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}})
	}
	return h
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth answers 200 when every dependency responds and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   start.UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult, len(h.checks)),
	}

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		cancel()

		result := checkResult{Status: "healthy", ResponseTime: time.Since(checkStart).String()}
		if err != nil {
			result.Status = "unhealthy"
			result.Error = err.Error()
			response.Status = "unhealthy"

			logger.Error().Err(err).Str("check", check.name).Msg("health check failed")
			h.recordFailure(check.name, err)
		}
		response.Checks[check.name] = result
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Str("status", response.Status).Msg("health check finished")

	if err := c.JSON(status, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) recordFailure(check string, err error) {
	if h.server.LoggerService == nil {
		return
	}
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":    check,
			"error_message": err.Error(),
		})
	}
}
