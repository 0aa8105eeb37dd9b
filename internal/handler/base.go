package handler

import (
	"time"

	"github.com/deppfellow/hydro-gateway/internal/middleware"
	"github.com/deppfellow/hydro-gateway/internal/server"
	"github.com/deppfellow/hydro-gateway/internal/validation"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// NoParams is the request type of routes that take no input.
// Handle skips binding for it.
type NoParams struct{}

func (*NoParams) Validate() error { return nil }

// HandlerFunc is a typed endpoint: a validated request in, a response out.
// Req is a pointer type so Echo's Bind can populate it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler defines how a successful result is written and traced.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error

	// GetOperation names the handler type in logs.
	GetOperation() string

	AddAttributes(txn *newrelic.Transaction, result any)
}

// JSONResponseHandler writes JSON with a fixed status. A json.RawMessage
// result is written as-is.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	if raw, ok := result.(json.RawMessage); ok {
		return c.JSONBlob(h.status, raw)
	}
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if raw, ok := result.(json.RawMessage); ok && txn != nil {
		txn.AddAttribute("response.size_bytes", len(raw))
	}
}

// handleRequest runs one request through bind/validate, the typed
// handler and the response writer. Each phase is timed and reported on the
// New Relic transaction when there is one. Errors go to the global handler.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	log := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()
	log.Debug().Msg("handling request")

	bound := time.Now()
	if _, none := any(req).(*NoParams); !none {
		if err := validation.BindAndValidate(c, req); err != nil {
			took := time.Since(bound)
			log.Warn().Err(err).Dur("validation_duration", took).Msg("request validation failed")
			phase(txn, "validation", err, took)
			return err
		}
	}
	validated := time.Since(bound)
	phase(txn, "validation", nil, validated)

	queried := time.Now()
	result, err := handler(c, req)
	took := time.Since(queried)
	phase(txn, "handler", err, took)
	if txn != nil {
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
	}

	if err != nil {
		log.Error().
			Err(err).
			Dur("handler_duration", took).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")
		return err
	}

	responseHandler.AddAttributes(txn, result)
	log.Info().
		Dur("validation_duration", validated).
		Dur("handler_duration", took).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// phase reports <name>.status and <name>.duration_ms, noticing err.
func phase(txn *newrelic.Transaction, name string, err error, took time.Duration) {
	if txn == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		txn.NoticeError(nrpkgerrors.Wrap(err))
	}
	txn.AddAttribute(name+".status", status)
	txn.AddAttribute(name+".duration_ms", took.Milliseconds())
}

// Handle wraps a typed handler into an echo.HandlerFunc. newReq is
// called once per request so concurrent requests never share a payload.
//
//	r.GET("/weir", Handle(h.Handler, h.getWeirs, http.StatusOK, NewNoParams))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// NewNoParams is the newReq for routes without input.
func NewNoParams() *NoParams {
	return &NoParams{}
}
