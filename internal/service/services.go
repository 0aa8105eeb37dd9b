package service

import (
	"github.com/deppfellow/hydro-gateway/internal/repository"
	"github.com/deppfellow/hydro-gateway/internal/server"
)

type Services struct {
	Hydro *HydroService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// s.Cache is a typed pointer; keep the interface nil when it is.
	var c Cache
	if s.Cache != nil {
		c = s.Cache
	}

	return &Services{
		Hydro: NewHydroService(repos, c, s.Logger),
	}, nil
}
