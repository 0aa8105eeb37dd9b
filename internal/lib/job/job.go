// Package job runs periodic background work with robfig/cron.
//
// The gateway has one job: the dependency health monitor, which probes
// the database (and Redis when configured) on a fixed interval and
// logs failures.
package job

import (
	"context"
	"fmt"

	"github.com/deppfellow/hydro-gateway/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// EventRecorder receives a custom event per failed check.
// *logger.LoggerService satisfies it.
type EventRecorder interface {
	RecordEvent(eventType string, params map[string]any)
}

// HealthMonitor runs the configured checks on a cron schedule.
type HealthMonitor struct {
	cron     *cron.Cron
	checks   []Check
	cfg      config.HealthChecksConfig
	logger   *zerolog.Logger
	recorder EventRecorder
}

// NewHealthMonitor keeps only the checks named in cfg.Checks.
func NewHealthMonitor(logger *zerolog.Logger, cfg config.HealthChecksConfig, checks []Check, recorder EventRecorder) *HealthMonitor {
	enabled := make(map[string]bool, len(cfg.Checks))
	for _, name := range cfg.Checks {
		enabled[name] = true
	}

	selected := make([]Check, 0, len(checks))
	for _, check := range checks {
		if enabled[check.Name] {
			selected = append(selected, check)
		}
	}

	return &HealthMonitor{
		cron:     cron.New(),
		checks:   selected,
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
	}
}

// Start schedules the checks every cfg.Interval. It does not block.
func (m *HealthMonitor) Start() error {
	if !m.cfg.Enabled || len(m.checks) == 0 {
		m.logger.Info().Msg("health monitor disabled")
		return nil
	}

	schedule := fmt.Sprintf("@every %s", m.cfg.Interval)
	if _, err := m.cron.AddFunc(schedule, func() { m.Run(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule health monitor: %w", err)
	}

	m.logger.Info().
		Dur("interval", m.cfg.Interval).
		Int("checks", len(m.checks)).
		Msg("starting health monitor")

	m.cron.Start()
	return nil
}

// Run executes one round of checks and logs every failure.
func (m *HealthMonitor) Run(ctx context.Context) []Result {
	results := RunChecks(ctx, m.checks, m.cfg.Timeout)

	for _, r := range results {
		if r.Healthy() {
			m.logger.Debug().
				Str("check", r.Name).
				Dur("response_time", r.ResponseTime).
				Msg("health check passed")
			continue
		}

		m.logger.Error().
			Err(r.Err).
			Str("check", r.Name).
			Bool("required", r.Required).
			Dur("response_time", r.ResponseTime).
			Msg("health check failed")

		if m.recorder != nil {
			m.recorder.RecordEvent("HealthCheckError", map[string]any{
				"check_type":       r.Name,
				"operation":        "health_monitor",
				"error_type":       r.Name + "_unhealthy",
				"response_time_ms": r.ResponseTime.Milliseconds(),
				"error_message":    r.Err.Error(),
			})
		}
	}

	return results
}

// Stop stops the scheduler and waits for a running round to finish
// or ctx to expire.
func (m *HealthMonitor) Stop(ctx context.Context) {
	m.logger.Info().Msg("stopping health monitor")

	select {
	case <-m.cron.Stop().Done():
	case <-ctx.Done():
	}
}
