package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/hydro-gateway/internal/logger"
	"github.com/deppfellow/hydro-gateway/internal/server"
)

const LoggerKey = "logger"

// ContextEnhancer derives the per-request logger from the server logger.
type ContextEnhancer struct {
	base *zerolog.Logger
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{base: s.Logger}
}

// EnhanceContext binds request_id, method, route, ip and (with New Relic)
// trace ids to a logger. Handlers read it back with GetLogger; code that
// only has the request context uses zerolog.Ctx.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := ce.base.With().
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(req.Context()); txn != nil {
				l = logger.WithTraceContext(l, txn)
			}

			c.Set(LoggerKey, &l)
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
			return next(c)
		}
	}
}

// GetLogger returns the request logger, or a no-op logger outside a request.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
