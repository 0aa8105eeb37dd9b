package repository

import (
	"github.com/deppfellow/hydro-gateway/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Infrastructure *InfrastructureRepository
	WaterLevel     *WaterLevelRepository
	Rainfall       *RainfallRepository
}

// New builds every repository over db.
func New(db DBTX, mode MatchMode) *Repositories {
	return &Repositories{
		Infrastructure: NewInfrastructureRepository(db, mode),
		WaterLevel:     NewWaterLevelRepository(db),
		Rainfall:       NewRainfallRepository(db),
	}
}

// NewRepositories builds the repositories over the server's pool.
func NewRepositories(s *server.Server) (*Repositories, error) {
	mode, err := ParseMatchMode(s.Config.Gateway.MatchMode)
	if err != nil {
		return nil, err
	}
	return New(s.DB.Pool, mode), nil
}
