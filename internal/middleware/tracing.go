package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/hydro-gateway/internal/server"
)

// TracingMiddleware decorates New Relic transactions with gateway data.
type TracingMiddleware struct {
	gateway string
	legacy  bool
	nrApp   *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		gateway: s.Config.Gateway.MatchMode,
		legacy:  s.Config.Gateway.LegacyStatus,
		nrApp:   nrApp,
	}
}

// NewRelicMiddleware starts a transaction per request. Pass-through
// when New Relic is off.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing tags the transaction with the dataset route, match mode
// and request id. Only server-side failures are noticed as errors; a
// missing query parameter is the caller's problem.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("gateway.route", c.Path())
			txn.AddAttribute("gateway.match_mode", tm.gateway)
			txn.AddAttribute("gateway.legacy_status", tm.legacy)
			txn.AddAttribute("request.id", GetRequestID(c))

			err := next(c)
			if err != nil && errorStatus(err) >= http.StatusInternalServerError {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
			return err
		}
	}
}

// errorStatus is the status err maps to before legacy_status applies.
func errorStatus(err error) int {
	httpErr, _ := toHTTPError(err)
	return httpErr.Status
}
