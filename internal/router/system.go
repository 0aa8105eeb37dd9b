package router

import (
	"github.com/deppfellow/hydro-gateway/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts the gateway's own endpoints next to the
// datasets: /status for dependency health, /docs for the API page and
// /static for openapi.json.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.Static("/static", "static")
}
