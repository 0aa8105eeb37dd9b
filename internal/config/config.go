// Package config manages environment variables and the optional config file.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types (struct), and
// validates that required values are present so they
// can be reused across the application runtime.
//
// Responsibilities:
//   - Load built-in defaults, then an optional YAML file, then env vars.
//   - Accept the legacy flat names (DB_HOST, DB_PORT, PORT, ...).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into
	// the process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

/*
	Layers, lowest priority first:
	1. defaultConfig()
	2. YAML file at $HYDRO_CONFIG_FILE, or ./config.yaml when present
	3. legacy flat env vars: DB_HOST -> database.host, PORT -> server.port
	4. namespaced env vars: HYDRO_<SECTION>__<KEY>
	   e.g. HYDRO_GATEWAY__MATCH_MODE -> gateway.match_mode
*/

// ServiceName identifies this service in logs and APM.
const ServiceName = "hydro-gateway"

// ConfigFileEnvVar overrides the config file location.
const ConfigFileEnvVar = "HYDRO_CONFIG_FILE"

const envPrefix = "HYDRO_"

// DefaultConfigPaths are searched in order when ConfigFileEnvVar is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional in a config file.
// If it ends up nil, defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Gateway       GatewayConfig        `koanf:"gateway" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Cache         CacheConfig          `koanf:"cache"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// "local" additionally turns on SQL trace logging.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
type ServerConfig struct {
	Port               string        `koanf:"port" validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"required"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"required"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
//
// Pool sizing is left to pgxpool unless MaxConns is set.
type DatabaseConfig struct {
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port" validate:"required,min=1,max=65535"`
	User     string `koanf:"user" validate:"required"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required"`
	SSLMode  string `koanf:"ssl_mode" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns int32  `koanf:"max_conns" validate:"min=0"`
}

// GatewayConfig selects which contract the query endpoints follow.
type GatewayConfig struct {
	// MatchMode is "substring" (LIKE '%term%') or "exact" (= 'term').
	MatchMode string `koanf:"match_mode" validate:"required,oneof=substring exact"`

	// LegacyStatus answers every handled failure with HTTP 200,
	// keeping the {"error": ...} body.
	LegacyStatus bool `koanf:"legacy_status"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port"; empty disables Redis entirely.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
}

// CacheConfig controls the read-through response cache.
type CacheConfig struct {
	// TTL of cached payloads. Zero disables caching.
	TTL time.Duration `koanf:"ttl" validate:"min=0"`
}

// CacheEnabled reports whether responses should be cached.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Address != "" && c.Cache.TTL > 0
}

func defaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "3002",
			ReadTimeout:        30 * time.Second,
			WriteTimeout:       30 * time.Second,
			IdleTimeout:        60 * time.Second,
			ShutdownTimeout:    30 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Gateway: GatewayConfig{
			MatchMode: "substring",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// legacyEnvKeys maps the flat variable names the service has always read.
var legacyEnvKeys = map[string]string{
	"DB_HOST":     "database.host",
	"DB_USER":     "database.user",
	"DB_PASSWORD": "database.password",
	"DB_NAME":     "database.name",
	"DB_PORT":     "database.port",
	"PORT":        "server.port",
}

// sliceConfigPaths are split on commas when they arrive as a single string.
var sliceConfigPaths = []string{
	"server.cors_allowed_origins",
	"observability.health_checks.checks",
}

// Load builds the configuration from all layers, validates it and returns it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnvKeys[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy env variables: %w", err)
	}

	err = k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are not user-configurable.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// envKey converts HYDRO_SERVER__READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	if s == "CONFIG_FILE" {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

func findConfigFile() string {
	if path := os.Getenv(ConfigFileEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(s, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}

		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
