package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/hydro-gateway/internal/cache"
	"github.com/deppfellow/hydro-gateway/internal/errs"
	"github.com/deppfellow/hydro-gateway/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func newTestService(t *testing.T, mode repository.MatchMode, c Cache) (*HydroService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	logger := zerolog.Nop()
	return NewHydroService(repository.New(mock, mode), c, &logger), mock
}

const weirSubstringSQL = "SELECT * FROM infrastruc WHERE infrastruc_type LIKE $1"

func TestWeirs_NoCache(t *testing.T) {
	svc, mock := newTestService(t, repository.MatchSubstring, nil)

	mock.ExpectQuery(weirSubstringSQL).WithArgs("%ฝาย%").
		WillReturnRows(mock.NewRows([]string{"infrastruc_id", "infrastruc_type"}).AddRow("4", "ฝาย"))

	payload, err := svc.Weirs(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"infrastruc_id":"4","infrastruc_type":"ฝาย"}]`, string(payload))
}

func TestWeirs_ReadThrough(t *testing.T) {
	c := newMemoryCache()
	svc, mock := newTestService(t, repository.MatchSubstring, c)

	// Only one query is expected: the second call is served from cache.
	mock.ExpectQuery(weirSubstringSQL).WithArgs("%ฝาย%").
		WillReturnRows(mock.NewRows([]string{"infrastruc_id"}).AddRow("4"))

	first, err := svc.Weirs(context.Background())
	require.NoError(t, err)

	second, err := svc.Weirs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Contains(t, c.data, "hydro:weir:substring")
}

func TestReadThrough_CacheErrorsBypassed(t *testing.T) {
	c := newMemoryCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	svc, mock := newTestService(t, repository.MatchSubstring, c)

	mock.ExpectQuery("SELECT * FROM waterlevel_province").
		WillReturnRows(mock.NewRows([]string{"province"}).AddRow("Nan"))

	payload, err := svc.WaterLevelProvinces(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"province":"Nan"}]`, string(payload))
	assert.Equal(t, 1, c.sets)
}

func TestReadThrough_FailuresNotCached(t *testing.T) {
	c := newMemoryCache()
	svc, mock := newTestService(t, repository.MatchSubstring, c)

	mock.ExpectQuery("SELECT * FROM waterlevel_province").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"})

	_, err := svc.WaterLevelProvinces(context.Background())
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, MsgWaterLevel, httpErr.Message)
	assert.Zero(t, c.sets)
}

func TestStationCounts(t *testing.T) {
	svc, mock := newTestService(t, repository.MatchExact, nil)

	mock.ExpectQuery("SELECT COUNT(*) FROM infrastruc WHERE infrastruc_type = $1 OR infrastruc_type = $2").
		WithArgs(repository.TermSluiceGate, repository.TermSluiceGateAbbrev).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery("SELECT COUNT(*) FROM infrastruc WHERE infrastruc_type = $1").
		WithArgs(repository.TermWeir).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery("SELECT COUNT(*) FROM infrastruc WHERE infrastruc_type = $1 OR infrastruc_type = $2").
		WithArgs(repository.TermPumpStation, repository.TermPumpingPlant).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(1)))

	payload, err := svc.StationCounts(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"infrastruc":3,"weir":2,"pumpstation":1}`, string(payload))
}

func TestStationCounts_Unavailable(t *testing.T) {
	svc, mock := newTestService(t, repository.MatchSubstring, nil)

	mock.ExpectQuery("SELECT COUNT(*) FROM infrastruc WHERE infrastruc_type LIKE $1 OR infrastruc_type LIKE $2").
		WithArgs("%ประตูระบายน้ำ%", "%ปตร.").
		WillReturnError(&pgconn.PgError{Code: "57P03", Message: "the database system is starting up"})

	_, err := svc.StationCounts(context.Background())

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.Equal(t, MsgStationCount, httpErr.Message)
}

func TestRainfallDaily_CacheKeyedByRange(t *testing.T) {
	c := newMemoryCache()
	svc, mock := newTestService(t, repository.MatchSubstring, c)

	mock.ExpectQuery(`SELECT rainfall_value AS value, rainfall_datetime AS date, station_id
FROM rainfall_daily
WHERE rainfall_datetime BETWEEN $1 AND $2
ORDER BY rainfall_datetime ASC`).
		WithArgs("2024-01-01", "2024-01-31").
		WillReturnRows(mock.NewRows([]string{"value", "date", "station_id"}).AddRow(1.5, "2024-01-01", "ST01"))

	_, err := svc.RainfallDaily(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Contains(t, c.data, "hydro:rainfall_daily:2024-01-01:2024-01-31")
}

func TestRainfallDaily_InvalidDate(t *testing.T) {
	svc, mock := newTestService(t, repository.MatchSubstring, nil)

	mock.ExpectQuery(`SELECT rainfall_value AS value, rainfall_datetime AS date, station_id
FROM rainfall_daily
WHERE rainfall_datetime BETWEEN $1 AND $2
ORDER BY rainfall_datetime ASC`).
		WithArgs("yesterday-ish", "2024-01-31").
		WillReturnError(&pgconn.PgError{Code: "22007", Message: "invalid input syntax for type timestamp"})

	_, err := svc.RainfallDaily(context.Background(), "yesterday-ish", "2024-01-31")

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, MsgRainfall, httpErr.Message)
}

func TestSluiceGatesAndLatitude(t *testing.T) {
	svc, mock := newTestService(t, repository.MatchSubstring, nil)

	mock.ExpectQuery("SELECT * FROM infrastruc WHERE infrastruc_type = $1").
		WithArgs(repository.TermSluiceGate).
		WillReturnRows(mock.NewRows([]string{"infrastruc_id"}).AddRow("1"))
	mock.ExpectQuery("SELECT * FROM infrastruc WHERE coordinates_lat BETWEEN $1 AND $2 AND coordinates_long BETWEEN $3 AND $4").
		WithArgs(5.61, 20.46, 97.35, 105.65).
		WillReturnRows(mock.NewRows([]string{"infrastruc_id"}))

	gates, err := svc.SluiceGates(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"infrastruc_id":"1"}]`, string(gates))

	inside, err := svc.WithinThailand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(inside))
}
