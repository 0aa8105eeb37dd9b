package repository

import (
	"context"
	"fmt"
)

// BoundingBox is a latitude/longitude rectangle, bounds inclusive.
type BoundingBox struct {
	MinLat, MaxLat   float64
	MinLong, MaxLong float64
}

// ThailandBounds is the box used by the /latitude endpoint.
var ThailandBounds = BoundingBox{
	MinLat:  5.61,
	MaxLat:  20.46,
	MinLong: 97.35,
	MaxLong: 105.65,
}

// StationCounts holds the number of rows per infrastructure category.
type StationCounts struct {
	Infrastruc  int64 `json:"infrastruc"`
	Weir        int64 `json:"weir"`
	Pumpstation int64 `json:"pumpstation"`
}

type statement struct {
	sql  string
	args []any
}

// InfrastructureRepository queries the infrastruc table.
type InfrastructureRepository struct {
	db   DBTX
	mode MatchMode

	sluiceGates  statement
	weirs        statement
	pumpStations statement
	boundingBox  string
	gateCount    statement
	weirCount    statement
	pumpCount    statement
	chart        statement
}

// NewInfrastructureRepository builds the statements for mode.
func NewInfrastructureRepository(db DBTX, mode MatchMode) *InfrastructureRepository {
	r := &InfrastructureRepository{db: db, mode: mode}

	// Sluice gates are matched exactly in every mode.
	gatePred, gateArgs := MatchExact.predicate([]term{containsTerm(TermSluiceGate)}, 1)
	r.sluiceGates = statement{sql: "SELECT * FROM infrastruc WHERE " + gatePred, args: gateArgs}

	r.weirs = selectWhere(mode, weirTerms)
	r.pumpStations = selectWhere(mode, pumpTerms)

	r.boundingBox = "SELECT * FROM infrastruc WHERE coordinates_lat BETWEEN $1 AND $2 AND coordinates_long BETWEEN $3 AND $4"

	r.gateCount = countWhere(mode, gateCountTerms)
	r.weirCount = countWhere(mode, weirTerms)
	r.pumpCount = countWhere(mode, pumpTerms)

	r.chart = chartStatement(mode)

	return r
}

func selectWhere(mode MatchMode, terms []term) statement {
	pred, args := mode.predicate(terms, 1)
	return statement{sql: "SELECT * FROM infrastruc WHERE " + pred, args: args}
}

func countWhere(mode MatchMode, terms []term) statement {
	pred, args := mode.predicate(terms, 1)
	return statement{sql: "SELECT COUNT(*) FROM infrastruc WHERE " + pred, args: args}
}

// chartStatement counts weirs, pump stations and sluice gates per
// infrastruc_id for ids '1' through '17', compared as text.
func chartStatement(mode MatchMode) statement {
	weirPred, weirArgs := mode.predicate(weirTerms, 1)
	pumpPred, pumpArgs := mode.predicate(pumpTerms, 1+len(weirArgs))
	gatePred, gateArgs := mode.predicate(gateChartTerms, 1+len(weirArgs)+len(pumpArgs))

	sql := fmt.Sprintf(`SELECT infrastruc_id,
       COUNT(CASE WHEN %s THEN 1 END) AS weir_count,
       COUNT(CASE WHEN %s THEN 1 END) AS pumpstation_count,
       COUNT(CASE WHEN %s THEN 1 END) AS infrastruc_count
FROM infrastruc
WHERE infrastruc_id BETWEEN '1' AND '17'
GROUP BY infrastruc_id
ORDER BY infrastruc_id`, weirPred, pumpPred, gatePred)

	args := make([]any, 0, len(weirArgs)+len(pumpArgs)+len(gateArgs))
	args = append(args, weirArgs...)
	args = append(args, pumpArgs...)
	args = append(args, gateArgs...)

	return statement{sql: sql, args: args}
}

// Mode returns the match mode the statements were built for.
func (r *InfrastructureRepository) Mode() MatchMode {
	return r.mode
}

// SluiceGates returns rows whose type is exactly the sluice gate term.
func (r *InfrastructureRepository) SluiceGates(ctx context.Context) ([]Row, error) {
	return query(ctx, r.db, "sluice gates", r.sluiceGates.sql, r.sluiceGates.args...)
}

// Weirs returns weir rows.
func (r *InfrastructureRepository) Weirs(ctx context.Context) ([]Row, error) {
	return query(ctx, r.db, "weirs", r.weirs.sql, r.weirs.args...)
}

// PumpStations returns pump station and pumping plant rows.
func (r *InfrastructureRepository) PumpStations(ctx context.Context) ([]Row, error) {
	return query(ctx, r.db, "pump stations", r.pumpStations.sql, r.pumpStations.args...)
}

// WithinBoundingBox returns rows whose coordinates fall inside box.
func (r *InfrastructureRepository) WithinBoundingBox(ctx context.Context, box BoundingBox) ([]Row, error) {
	return query(ctx, r.db, "bounding box", r.boundingBox, box.MinLat, box.MaxLat, box.MinLong, box.MaxLong)
}

// StationCounts runs one COUNT query per category, in order gate,
// weir, pump. The first failure aborts the rest.
func (r *InfrastructureRepository) StationCounts(ctx context.Context) (StationCounts, error) {
	var counts StationCounts

	steps := []struct {
		name string
		stmt statement
		dst  *int64
	}{
		{"sluice gate count", r.gateCount, &counts.Infrastruc},
		{"weir count", r.weirCount, &counts.Weir},
		{"pump station count", r.pumpCount, &counts.Pumpstation},
	}

	for _, step := range steps {
		if err := r.db.QueryRow(ctx, step.stmt.sql, step.stmt.args...).Scan(step.dst); err != nil {
			return StationCounts{}, fmt.Errorf("query %s: %w", step.name, err)
		}
	}

	return counts, nil
}

// Chart returns per-id category counts for the chart endpoint.
func (r *InfrastructureRepository) Chart(ctx context.Context) ([]Row, error) {
	return query(ctx, r.db, "infrastructure chart", r.chart.sql, r.chart.args...)
}
