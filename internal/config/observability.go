package config

import (
	"fmt"
	"time"
)

// ObservabilityConfig groups all configuration related to logging and runtime visibility.
//
// It includes:
//   - logging settings (format, level, slow query threshold)
//   - New Relic settings (optional; disabled without a license key)
//   - periodic dependency health checks
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs and APM dashboards.
	// Always forced to ServiceName by Load.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment mirrors Primary.Env.
	Environment string `koanf:"environment" validate:"required"`

	Logging      LoggingConfig      `koanf:"logging" validate:"required"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level"`

	// Format is "json" or "console". JSON is only used in production;
	// other environments always log to the console writer.
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// SlowQueryThreshold marks queries slower than this as slow.
	// Zero disables slow query logging. Parsed from strings like "250ms".
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// NewRelicConfig holds configuration for New Relic APM and tracing.
//
// An empty LicenseKey means New Relic is not configured.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

// HealthChecksConfig controls the periodic dependency checks.
type HealthChecksConfig struct {
	Enabled bool `koanf:"enabled"`

	// Interval is how frequently checks run.
	Interval time.Duration `koanf:"interval" validate:"min=1s"`

	// Timeout bounds a single check.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// Checks lists the dependencies to probe: "database", "redis".
	Checks []string `koanf:"checks" validate:"dive,oneof=database redis"`
}

// DefaultObservabilityConfig provides the defaults used when nothing is configured.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
			DebugLogging:              false, // Disabled by default to avoid mixed log formats
		},
		HealthChecks: HealthChecksConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
			Timeout:  5 * time.Second,
			Checks:   []string{"database"},
		},
	}
}

// Validate applies rules that go beyond struct tags.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	// An empty level falls back to GetLogLevel's per-environment default.
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	if c.HealthChecks.Enabled && c.HealthChecks.Timeout > c.HealthChecks.Interval {
		return fmt.Errorf("health_checks timeout (%s) must not exceed interval (%s)",
			c.HealthChecks.Timeout, c.HealthChecks.Interval)
	}

	return nil
}

// GetLogLevel returns the effective log level to use at runtime.
//
// Production defaults to "info" and development to "debug" when no
// level is set. Otherwise the configured value wins.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch c.Environment {
	case "production":
		if c.Logging.Level == "" {
			return "info"
		}
	case "development", "local":
		if c.Logging.Level == "" {
			return "debug"
		}
	}

	if c.Logging.Level == "" {
		return "info"
	}
	return c.Logging.Level
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

// NewRelicEnabled reports whether a license key was provided.
func (c *ObservabilityConfig) NewRelicEnabled() bool {
	return c.NewRelic.LicenseKey != ""
}
