package repository

import "context"

const waterLevelProvinceSQL = "SELECT * FROM waterlevel_province"

// WaterLevelRepository queries the waterlevel_province table.
type WaterLevelRepository struct {
	db DBTX
}

func NewWaterLevelRepository(db DBTX) *WaterLevelRepository {
	return &WaterLevelRepository{db: db}
}

// Provinces returns every row of waterlevel_province.
func (r *WaterLevelRepository) Provinces(ctx context.Context) ([]Row, error) {
	return query(ctx, r.db, "water level provinces", waterLevelProvinceSQL)
}
