package service

import (
	"context"

	"github.com/deppfellow/hydro-gateway/internal/cache"
	"github.com/deppfellow/hydro-gateway/internal/repository"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Client-facing failure messages, one per dataset.
const (
	MsgInfrastruc      = "Failed to fetch infrastruc data from the database"
	MsgWaterLevel      = "Failed to fetch waterlevel data from the database"
	MsgWeir            = "Failed to fetch weir data from the database"
	MsgPumpStation     = "Failed to fetch pumpstation data from the database"
	MsgStationCount    = "Failed to fetch station count from the database"
	MsgLatitude        = "Failed to fetch latitude data from the database"
	MsgRainfall        = "Failed to fetch rainfall data from the database"
	MsgChart           = "Failed to fetch infrastructest chart data from the database"
	MsgMissingDateArgs = "Please provide startDate and endDate"
)

// HydroService serves the hydrological datasets.
type HydroService struct {
	infra    *repository.InfrastructureRepository
	water    *repository.WaterLevelRepository
	rainfall *repository.RainfallRepository
	cache    Cache
	logger   *zerolog.Logger
}

// NewHydroService builds the service. c may be nil.
func NewHydroService(repos *repository.Repositories, c Cache, logger *zerolog.Logger) *HydroService {
	return &HydroService{
		infra:    repos.Infrastructure,
		water:    repos.WaterLevel,
		rainfall: repos.Rainfall,
		cache:    c,
		logger:   logger,
	}
}

// infraKey includes the match mode: the same dataset differs per mode.
func (s *HydroService) infraKey(dataset string) string {
	return cache.Key(dataset, string(s.infra.Mode()))
}

func rows(fn func(context.Context) ([]repository.Row, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

// SluiceGates returns sluice gate records.
func (s *HydroService) SluiceGates(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, s.cache, s.logger, cache.Key("infrastruc"), MsgInfrastruc, rows(s.infra.SluiceGates))
}

// WaterLevelProvinces returns every water level province record.
func (s *HydroService) WaterLevelProvinces(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, s.cache, s.logger, cache.Key("waterlevel_province"), MsgWaterLevel, rows(s.water.Provinces))
}

// Weirs returns weir records.
func (s *HydroService) Weirs(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, s.cache, s.logger, s.infraKey("weir"), MsgWeir, rows(s.infra.Weirs))
}

// PumpStations returns pump station and pumping plant records.
func (s *HydroService) PumpStations(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, s.cache, s.logger, s.infraKey("pumpstation"), MsgPumpStation, rows(s.infra.PumpStations))
}

// StationCounts returns {"infrastruc": n, "weir": n, "pumpstation": n}.
func (s *HydroService) StationCounts(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, s.cache, s.logger, s.infraKey("station_count"), MsgStationCount,
		func(ctx context.Context) (any, error) {
			return s.infra.StationCounts(ctx)
		})
}

// WithinThailand returns records inside repository.ThailandBounds.
func (s *HydroService) WithinThailand(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, s.cache, s.logger, cache.Key("latitude"), MsgLatitude,
		func(ctx context.Context) (any, error) {
			return s.infra.WithinBoundingBox(ctx, repository.ThailandBounds)
		})
}

// RainfallDaily returns rainfall readings between start and end, oldest first.
func (s *HydroService) RainfallDaily(ctx context.Context, start, end string) (json.RawMessage, error) {
	return readThrough(ctx, s.cache, s.logger, cache.Key("rainfall_daily", start, end), MsgRainfall,
		func(ctx context.Context) (any, error) {
			return s.rainfall.Daily(ctx, start, end)
		})
}

// InfrastructureChart returns per-id category counts.
func (s *HydroService) InfrastructureChart(ctx context.Context) (json.RawMessage, error) {
	return readThrough(ctx, s.cache, s.logger, s.infraKey("infrastructest_chart"), MsgChart, rows(s.infra.Chart))
}
