package router

import (
	"github.com/deppfellow/hydro-gateway/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerHydroRoutes registers the dataset endpoints. Paths are part
// of the public contract and stay at the root.
func registerHydroRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/infrastruc", h.Hydro.SluiceGates())
	r.GET("/waterlevel_province", h.Hydro.WaterLevelProvinces())
	r.GET("/weir", h.Hydro.Weirs())
	r.GET("/pumpstation", h.Hydro.PumpStations())
	r.GET("/station_count", h.Hydro.StationCounts())
	r.GET("/latitude", h.Hydro.Latitude())
	r.GET("/rainfall_daily", h.Hydro.RainfallDaily())
	r.GET("/infrastructest_chart", h.Hydro.InfrastructureChart())
}
