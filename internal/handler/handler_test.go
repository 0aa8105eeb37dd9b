package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deppfellow/hydro-gateway/internal/config"
	"github.com/deppfellow/hydro-gateway/internal/errs"
	"github.com/deppfellow/hydro-gateway/internal/lib/job"
	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/deppfellow/hydro-gateway/internal/service"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "production"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec), rec
}

func TestHandle_FreshRequestPerCall(t *testing.T) {
	var seen []*RainfallDailyRequest
	fn := func(_ echo.Context, req *RainfallDailyRequest) (json.RawMessage, error) {
		seen = append(seen, req)
		return json.RawMessage(`[]`), nil
	}

	h := Handle(NewHandler(testServer()), fn, http.StatusOK, func() *RainfallDailyRequest {
		return &RainfallDailyRequest{}
	})

	c1, _ := newContext("/rainfall_daily?startDate=a&endDate=b")
	require.NoError(t, h(c1))
	c2, _ := newContext("/rainfall_daily?startDate=c&endDate=d")
	require.NoError(t, h(c2))

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.Equal(t, "a", seen[0].StartDate)
	assert.Equal(t, "c", seen[1].StartDate)
}

func TestHandle_RawJSONWrittenAsIs(t *testing.T) {
	fn := func(echo.Context, *NoParams) (json.RawMessage, error) {
		return json.RawMessage(`[{"b":1,"a":2}]`), nil
	}
	h := Handle(NewHandler(testServer()), fn, http.StatusOK, NewNoParams)

	c, rec := newContext("/weir")
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"b":1,"a":2}]`, rec.Body.String())
}

func TestHandle_NoParamsIgnoresInput(t *testing.T) {
	called := false
	fn := func(echo.Context, *NoParams) (json.RawMessage, error) {
		called = true
		return json.RawMessage(`[]`), nil
	}
	h := Handle(NewHandler(testServer()), fn, http.StatusOK, NewNoParams)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/weir?x=1", nil)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	require.NoError(t, h(c))
	assert.True(t, called)
}

type stubHydro struct {
	HydroReader
	start, end string
}

func (s *stubHydro) RainfallDaily(_ context.Context, start, end string) (json.RawMessage, error) {
	s.start, s.end = start, end
	return json.RawMessage(`[{"value":1.5,"date":"2024-01-01T00:00:00Z","station_id":"ST01"}]`), nil
}

func TestHydroHandler_RainfallDaily(t *testing.T) {
	stub := &stubHydro{}
	h := NewHydroHandler(testServer(), stub)

	c, rec := newContext("/rainfall_daily?startDate=2024-01-01&endDate=2024-01-31")
	require.NoError(t, h.RainfallDaily()(c))

	assert.Equal(t, "2024-01-01", stub.start)
	assert.Equal(t, "2024-01-31", stub.end)
	assert.Contains(t, rec.Body.String(), "station_id")
}

func TestHydroHandler_RainfallDailyMissingParams(t *testing.T) {
	stub := &stubHydro{}
	h := NewHydroHandler(testServer(), stub)

	c, _ := newContext("/rainfall_daily?startDate=2024-01-01")
	err := h.RainfallDaily()(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, service.MsgMissingDateArgs, httpErr.Message)
	assert.Empty(t, stub.start)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		checks []job.Check
		status int
		want   string
	}{
		{
			name:   "healthy",
			checks: []job.Check{{Name: "database", Required: true, Fn: func(context.Context) error { return nil }}},
			status: http.StatusOK,
			want:   "healthy",
		},
		{
			name:   "database down",
			checks: []job.Check{{Name: "database", Required: true, Fn: func(context.Context) error { return errors.New("connection refused") }}},
			status: http.StatusServiceUnavailable,
			want:   "unhealthy",
		},
		{
			name: "optional redis down",
			checks: []job.Check{
				{Name: "database", Required: true, Fn: func(context.Context) error { return nil }},
				{Name: "redis", Fn: func(context.Context) error { return errors.New("refused") }},
			},
			status: http.StatusOK,
			want:   "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthHandler{Handler: NewHandler(testServer()), checks: tt.checks, timeout: time.Second}

			c, rec := newContext("/status")
			require.NoError(t, h.CheckHealth(c))

			assert.Equal(t, tt.status, rec.Code)

			var body struct {
				Status      string                    `json:"status"`
				Environment string                    `json:"environment"`
				Checks      map[string]map[string]any `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Status)
			assert.Equal(t, "production", body.Environment)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}

func TestOpenAPIHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.html")
	require.NoError(t, os.WriteFile(path, []byte("<html>docs</html>"), 0o600))

	h := &OpenAPIHandler{Handler: NewHandler(testServer()), uiPath: path}

	c, rec := newContext("/docs")
	require.NoError(t, h.ServeOpenAPIUI(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "docs")

	h.uiPath = filepath.Join(t.TempDir(), "missing.html")
	c, _ = newContext("/docs")
	assert.Error(t, h.ServeOpenAPIUI(c))
}
