// Command hydro-gateway serves the hydrological datasets over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/deppfellow/hydro-gateway/internal/config"
	"github.com/deppfellow/hydro-gateway/internal/handler"
	"github.com/deppfellow/hydro-gateway/internal/logger"
	"github.com/deppfellow/hydro-gateway/internal/repository"
	"github.com/deppfellow/hydro-gateway/internal/router"
	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/deppfellow/hydro-gateway/internal/service"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger config yet.
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("failed to initialize New Relic")
	}

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repositories")
	}

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			_ = srv.Shutdown(context.Background())
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited properly")
}
