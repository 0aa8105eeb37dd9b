package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/hydro-gateway/internal/lib/job"
	"github.com/deppfellow/hydro-gateway/internal/middleware"
	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/labstack/echo/v4"
)

const defaultHealthTimeout = 5 * time.Second

// HealthHandler reports whether the gateway and its dependencies are reachable.
type HealthHandler struct {
	Handler
	checks  []job.Check
	timeout time.Duration
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	timeout := defaultHealthTimeout
	if s.Config.Observability != nil && s.Config.Observability.HealthChecks.Timeout > 0 {
		timeout = s.Config.Observability.HealthChecks.Timeout
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  s.HealthChecks(),
		timeout: timeout,
	}
}

// CheckHealth returns 200 when every required check passes, 503 otherwise.
//
//	{"status":"healthy","timestamp":"...","environment":"production",
//	 "checks":{"database":{"status":"healthy","response_time":"1.2ms"}}}
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	results := job.RunChecks(c.Request().Context(), h.checks, h.timeout)

	checks := make(map[string]any, len(results))
	for _, r := range results {
		entry := map[string]any{
			"status":        r.Status(),
			"response_time": r.ResponseTime.String(),
		}

		if !r.Healthy() {
			entry["error"] = r.Err.Error()

			logger.Error().
				Err(r.Err).
				Str("check", r.Name).
				Dur("response_time", r.ResponseTime).
				Msg("health check failed")

			h.server.LoggerService.RecordEvent("HealthCheckError", map[string]any{
				"check_type":       r.Name,
				"operation":        "health_check",
				"error_type":       r.Name + "_unhealthy",
				"response_time_ms": r.ResponseTime.Milliseconds(),
				"error_message":    r.Err.Error(),
			})
		}

		checks[r.Name] = entry
	}

	response := map[string]any{
		"status":      job.StatusHealthy,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !job.AllHealthy(results) {
		response["status"] = job.StatusUnhealthy

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
