package handler

import (
	"context"
	"net/http"

	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/deppfellow/hydro-gateway/internal/service"
	"github.com/deppfellow/hydro-gateway/internal/validation"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

// HydroReader is the query service behind the dataset routes.
type HydroReader interface {
	SluiceGates(ctx context.Context) (json.RawMessage, error)
	WaterLevelProvinces(ctx context.Context) (json.RawMessage, error)
	Weirs(ctx context.Context) (json.RawMessage, error)
	PumpStations(ctx context.Context) (json.RawMessage, error)
	StationCounts(ctx context.Context) (json.RawMessage, error)
	WithinThailand(ctx context.Context) (json.RawMessage, error)
	RainfallDaily(ctx context.Context, start, end string) (json.RawMessage, error)
	InfrastructureChart(ctx context.Context) (json.RawMessage, error)
}

// RainfallDailyRequest is the query string of /rainfall_daily.
type RainfallDailyRequest struct {
	StartDate string `query:"startDate" validate:"required"`
	EndDate   string `query:"endDate" validate:"required"`
}

func (r *RainfallDailyRequest) Validate() error {
	return validation.Struct(r)
}

func (r *RainfallDailyRequest) ValidationMessage() string {
	return service.MsgMissingDateArgs
}

// HydroHandler serves the dataset routes.
type HydroHandler struct {
	Handler
	hydro HydroReader
}

func NewHydroHandler(s *server.Server, hydro HydroReader) *HydroHandler {
	return &HydroHandler{
		Handler: NewHandler(s),
		hydro:   hydro,
	}
}

func (h *HydroHandler) getSluiceGates(c echo.Context, _ *NoParams) (json.RawMessage, error) {
	return h.hydro.SluiceGates(c.Request().Context())
}

func (h *HydroHandler) getWaterLevelProvinces(c echo.Context, _ *NoParams) (json.RawMessage, error) {
	return h.hydro.WaterLevelProvinces(c.Request().Context())
}

func (h *HydroHandler) getWeirs(c echo.Context, _ *NoParams) (json.RawMessage, error) {
	return h.hydro.Weirs(c.Request().Context())
}

func (h *HydroHandler) getPumpStations(c echo.Context, _ *NoParams) (json.RawMessage, error) {
	return h.hydro.PumpStations(c.Request().Context())
}

func (h *HydroHandler) getStationCounts(c echo.Context, _ *NoParams) (json.RawMessage, error) {
	return h.hydro.StationCounts(c.Request().Context())
}

func (h *HydroHandler) getLatitude(c echo.Context, _ *NoParams) (json.RawMessage, error) {
	return h.hydro.WithinThailand(c.Request().Context())
}

func (h *HydroHandler) getRainfallDaily(c echo.Context, req *RainfallDailyRequest) (json.RawMessage, error) {
	return h.hydro.RainfallDaily(c.Request().Context(), req.StartDate, req.EndDate)
}

func (h *HydroHandler) getInfrastructureChart(c echo.Context, _ *NoParams) (json.RawMessage, error) {
	return h.hydro.InfrastructureChart(c.Request().Context())
}

func (h *HydroHandler) SluiceGates() echo.HandlerFunc {
	return Handle(h.Handler, h.getSluiceGates, http.StatusOK, NewNoParams)
}

func (h *HydroHandler) WaterLevelProvinces() echo.HandlerFunc {
	return Handle(h.Handler, h.getWaterLevelProvinces, http.StatusOK, NewNoParams)
}

func (h *HydroHandler) Weirs() echo.HandlerFunc {
	return Handle(h.Handler, h.getWeirs, http.StatusOK, NewNoParams)
}

func (h *HydroHandler) PumpStations() echo.HandlerFunc {
	return Handle(h.Handler, h.getPumpStations, http.StatusOK, NewNoParams)
}

func (h *HydroHandler) StationCounts() echo.HandlerFunc {
	return Handle(h.Handler, h.getStationCounts, http.StatusOK, NewNoParams)
}

func (h *HydroHandler) Latitude() echo.HandlerFunc {
	return Handle(h.Handler, h.getLatitude, http.StatusOK, NewNoParams)
}

func (h *HydroHandler) RainfallDaily() echo.HandlerFunc {
	return Handle(h.Handler, h.getRainfallDaily, http.StatusOK, func() *RainfallDailyRequest {
		return &RainfallDailyRequest{}
	})
}

func (h *HydroHandler) InfrastructureChart() echo.HandlerFunc {
	return Handle(h.Handler, h.getInfrastructureChart, http.StatusOK, NewNoParams)
}
