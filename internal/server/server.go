// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//   - optional redis client and response cache
//   - background health monitor (cron)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/hydro-gateway/internal/cache"
	"github.com/deppfellow/hydro-gateway/internal/config"
	"github.com/deppfellow/hydro-gateway/internal/database"
	"github.com/deppfellow/hydro-gateway/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/hydro-gateway/internal/logger"
)

const redisPingTimeout = 5 * time.Second

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; that is httpServer, configured in
// SetupHTTPServer.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is the single pool shared by every repository.
	DB *database.Database

	// Redis is nil unless redis.address is set.
	Redis *redis.Client

	// Cache is nil unless caching is enabled.
	Cache *cache.RedisCache

	// Job runs the periodic dependency checks.
	Job *job.HealthMonitor

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// The database must answer the startup probe. Redis is optional: a
// failed ping is logged and startup continues.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	if cfg.Redis.Address != "" {
		server.Redis = newRedisClient(cfg, logger, loggerService)
	}

	if cfg.CacheEnabled() {
		server.Cache = cache.New(server.Redis, cfg.Cache.TTL)
		logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("response cache enabled")
	}

	server.Job = job.NewHealthMonitor(logger, cfg.Observability.HealthChecks, server.HealthChecks(), loggerService)

	return server, nil
}

func newRedisClient(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Str("address", cfg.Redis.Address).
			Msg("failed to connect to Redis, continuing without cache hits")
	}

	return redisClient
}

// HealthChecks returns the dependency probes shared by the /status
// endpoint and the health monitor. Only the database is required.
func (s *Server) HealthChecks() []job.Check {
	checks := []job.Check{{
		Name:     "database",
		Required: true,
		Fn: func(ctx context.Context) error {
			return s.DB.Ping(ctx)
		},
	}}

	if s.Redis != nil {
		checks = append(checks, job.Check{
			Name: "redis",
			Fn: func(ctx context.Context) error {
				return s.Redis.Ping(ctx).Err()
			},
		})
	}

	return checks
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
		IdleTimeout:  s.Config.Server.IdleTimeout,
	}
}

// Start starts the health monitor and then serves HTTP until Shutdown.
// It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	if s.Job != nil {
		if err := s.Job.Start(); err != nil {
			return err
		}
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("match_mode", s.Config.Gateway.MatchMode).
		Bool("legacy_status", s.Config.Gateway.LegacyStatus).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the monitor, drains in-flight requests until ctx
// expires, then closes the pool, Redis and New Relic in that order.
// Teardown continues past a failed step; all errors are returned joined.
func (s *Server) Shutdown(ctx context.Context) error {
	var errList []error

	if s.Job != nil {
		s.Job.Stop(ctx)
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errList = append(errList, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	s.LoggerService.Shutdown()

	return errors.Join(errList...)
}
