package middleware

import (
	"net/http"

	"github.com/deppfellow/hydro-gateway/internal/errs"
	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/deppfellow/hydro-gateway/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	})
}

// RequestLogger writes one "API" line per request. The level follows
// the status the client will receive: error for 5xx, warn for 4xx.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			if v.Error != nil {
				statusCode, _ = global.resolve(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// toHTTPError normalizes any error into an *errs.HTTPError and reports
// whether it came from a handler (as opposed to Echo's router).
func toHTTPError(err error) (*errs.HTTPError, bool) {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewNotFoundError("Route not found"), false
		}

		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			message = msg
		}
		return &errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message: message,
			Status:  echoErr.Code,
		}, false
	}

	errors.As(sqlerr.HandleError(err), &httpErr)
	return httpErr, true
}

// resolve returns the status written for err and the normalized error.
// With gateway.legacy_status every handled failure answers 200.
func (global *GlobalMiddlewares) resolve(err error) (int, *errs.HTTPError) {
	httpErr, handled := toHTTPError(err)

	status := httpErr.Status
	if handled && global.server.Config.Gateway.LegacyStatus {
		status = http.StatusOK
	}

	return status, httpErr
}

// GlobalErrorHandler logs the original error and writes {"error": message}.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	status, httpErr := global.resolve(err)

	logger := *GetLogger(c)

	event := logger.Error()
	if httpErr.Status < http.StatusInternalServerError {
		event = logger.Warn()
	}

	event = event.Stack().
		Err(err).
		Int("status", status).
		Str("error_code", httpErr.Code)

	if cause := httpErr.Cause(); cause != nil {
		event = event.Str("cause", sqlerr.Summary(cause))
		if dbErr, ok := sqlerr.FromError(cause); ok {
			event = event.Object("db", dbErr)
		}
	}

	if len(httpErr.Errors) > 0 {
		fields := zerolog.Dict()
		for _, fe := range httpErr.Errors {
			fields = fields.Str(fe.Field, fe.Error)
		}
		event = event.Dict("fields", fields)
	}

	event.Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}

	_ = c.JSON(status, httpErr.Body())
}
