package repository

import "context"

const rainfallDailySQL = `SELECT rainfall_value AS value, rainfall_datetime AS date, station_id
FROM rainfall_daily
WHERE rainfall_datetime BETWEEN $1 AND $2
ORDER BY rainfall_datetime ASC`

// RainfallRepository queries the rainfall_daily table.
type RainfallRepository struct {
	db DBTX
}

func NewRainfallRepository(db DBTX) *RainfallRepository {
	return &RainfallRepository{db: db}
}

// Daily returns readings with start <= rainfall_datetime <= end,
// oldest first. The bounds are passed through as text and parsed by
// Postgres.
func (r *RainfallRepository) Daily(ctx context.Context, start, end string) ([]Row, error) {
	return query(ctx, r.db, "rainfall daily", rainfallDailySQL, start, end)
}
