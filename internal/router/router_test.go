package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/hydro-gateway/internal/config"
	"github.com/deppfellow/hydro-gateway/internal/handler"
	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/deppfellow/hydro-gateway/internal/service"
	"github.com/deppfellow/hydro-gateway/internal/sqlerr"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHydro answers every dataset with payload, or with err mapped
// the way the service maps query failures.
type fakeHydro struct {
	payload json.RawMessage
	err     error

	rainfallCalls int
	start, end    string
}

func (f *fakeHydro) result(message string) (json.RawMessage, error) {
	if f.err != nil {
		return nil, sqlerr.HandleQueryError(f.err, message)
	}
	return f.payload, nil
}

func (f *fakeHydro) SluiceGates(context.Context) (json.RawMessage, error) {
	return f.result(service.MsgInfrastruc)
}

func (f *fakeHydro) WaterLevelProvinces(context.Context) (json.RawMessage, error) {
	return f.result(service.MsgWaterLevel)
}

func (f *fakeHydro) Weirs(context.Context) (json.RawMessage, error) {
	return f.result(service.MsgWeir)
}

func (f *fakeHydro) PumpStations(context.Context) (json.RawMessage, error) {
	return f.result(service.MsgPumpStation)
}

func (f *fakeHydro) StationCounts(context.Context) (json.RawMessage, error) {
	return f.result(service.MsgStationCount)
}

func (f *fakeHydro) WithinThailand(context.Context) (json.RawMessage, error) {
	return f.result(service.MsgLatitude)
}

func (f *fakeHydro) RainfallDaily(_ context.Context, start, end string) (json.RawMessage, error) {
	f.rainfallCalls++
	f.start, f.end = start, end
	return f.result(service.MsgRainfall)
}

func (f *fakeHydro) InfrastructureChart(context.Context) (json.RawMessage, error) {
	return f.result(service.MsgChart)
}

func newTestRouter(t *testing.T, legacy bool, hydro handler.HydroReader) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "development"},
			Server:        config.ServerConfig{Port: "3002", CORSAllowedOrigins: []string{"*"}},
			Gateway:       config.GatewayConfig{MatchMode: "substring", LegacyStatus: legacy},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}

	h := &handler.Handlers{
		Health:  handler.NewHealthHandler(s),
		OpenAPI: handler.NewOpenAPIHandler(s),
		Hydro:   handler.NewHydroHandler(s, hydro),
	}

	return NewRouter(s, h)
}

func do(r *echo.Echo, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	return body["error"]
}

var datasetRoutes = map[string]string{
	"/infrastruc":                                             service.MsgInfrastruc,
	"/waterlevel_province":                                    service.MsgWaterLevel,
	"/weir":                                                   service.MsgWeir,
	"/pumpstation":                                            service.MsgPumpStation,
	"/station_count":                                          service.MsgStationCount,
	"/latitude":                                               service.MsgLatitude,
	"/rainfall_daily?startDate=2024-01-01&endDate=2024-01-31": service.MsgRainfall,
	"/infrastructest_chart":                                   service.MsgChart,
}

func TestDatasetRoutes_Success(t *testing.T) {
	hydro := &fakeHydro{payload: json.RawMessage(`[{"infrastruc_id":"4","infrastruc_type":"ฝาย"}]`)}
	r := newTestRouter(t, false, hydro)

	for target := range datasetRoutes {
		t.Run(target, func(t *testing.T) {
			rec := do(r, target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/json")
			assert.JSONEq(t, string(hydro.payload), rec.Body.String())
		})
	}
}

func TestDatasetRoutes_DatabaseUnavailable(t *testing.T) {
	cause := &pgconn.PgError{Code: "08006", Message: "connection failure"}

	for _, legacy := range []bool{false, true} {
		r := newTestRouter(t, legacy, &fakeHydro{err: cause})

		for target, message := range datasetRoutes {
			t.Run(target, func(t *testing.T) {
				rec := do(r, target)

				want := http.StatusServiceUnavailable
				if legacy {
					want = http.StatusOK
				}
				assert.Equal(t, want, rec.Code)
				assert.Equal(t, message, errorBody(t, rec))
			})
		}
	}
}

func TestDatasetRoutes_QueryFailure(t *testing.T) {
	r := newTestRouter(t, false, &fakeHydro{err: &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}})

	rec := do(r, "/weir")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, service.MsgWeir, errorBody(t, rec))
}

func TestRainfallDaily_MissingParams(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		for _, target := range []string{
			"/rainfall_daily",
			"/rainfall_daily?startDate=2024-01-01",
			"/rainfall_daily?endDate=2024-01-31",
		} {
			hydro := &fakeHydro{payload: json.RawMessage(`[]`)}
			r := newTestRouter(t, legacy, hydro)

			rec := do(r, target)

			want := http.StatusBadRequest
			if legacy {
				want = http.StatusOK
			}
			assert.Equal(t, want, rec.Code, target)
			assert.Equal(t, service.MsgMissingDateArgs, errorBody(t, rec))
			assert.Zero(t, hydro.rainfallCalls, "no query may be issued")
		}
	}
}

func TestRainfallDaily_PassesRange(t *testing.T) {
	hydro := &fakeHydro{payload: json.RawMessage(`[]`)}
	r := newTestRouter(t, false, hydro)

	rec := do(r, "/rainfall_daily?startDate=2024-01-01&endDate=2024-01-31")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01-01", hydro.start)
	assert.Equal(t, "2024-01-31", hydro.end)
}

func TestUnknownRoute(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		r := newTestRouter(t, legacy, &fakeHydro{})

		rec := do(r, "/reservoirs")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", errorBody(t, rec))
	}
}

func TestCORSAndRequestID(t *testing.T) {
	r := newTestRouter(t, false, &fakeHydro{payload: json.RawMessage(`[]`)})

	rec := do(r, "/weir", echo.HeaderOrigin, "https://dashboard.example")
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(r, "/weir", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestJSONSerializer_RoundTrip(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, JSONSerializer{}.Serialize(c, map[string]int{"weir": 7}, ""))
	assert.JSONEq(t, `{"weir":7}`, rec.Body.String())
}
