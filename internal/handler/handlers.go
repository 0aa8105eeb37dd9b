package handler

import (
	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/deppfellow/hydro-gateway/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Hydro   *HydroHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Hydro:   NewHydroHandler(s, services.Hydro),
	}
}
