package handler

import (
	"reflect"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/netanomics/internal/middleware"
	"github.com/deppfellow/netanomics/internal/server"
	"github.com/deppfellow/netanomics/internal/validation"
)

// Handler carries the shared server dependencies into every handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint. Req is a pointer to a request struct.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler writes a successful result and names it for logs and traces.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	txn.AddAttribute("response.status", h.status)
	if v := reflect.ValueOf(result); v.Kind() == reflect.Slice {
		txn.AddAttribute("response.items", v.Len())
	}
}

// newRequest allocates a zero request for one call so concurrent requests
// never share a bound struct.
func newRequest[Req validation.Validatable]() Req {
	var zero Req
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(Req)
	}
	return reflect.New(t).Elem().Interface().(Req)
}

// phaseTrace records how each phase of a request went on the New Relic
// transaction. A nil transaction records nothing.
type phaseTrace struct {
	txn *newrelic.Transaction
}

func (t phaseTrace) record(phase string, d time.Duration, err error) {
	if t.txn == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
		t.txn.NoticeError(nrpkgerrors.Wrap(err))
	}
	t.txn.AddAttribute(phase+".status", status)
	t.txn.AddAttribute(phase+".duration_ms", d.Milliseconds())
}

// handleRequest binds and validates req, runs the handler and writes the
// result. Bind and validation failures are returned untouched so the global
// error handler renders them.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	trace := phaseTrace{txn: newrelic.FromContext(c.Request().Context())}
	if trace.txn != nil {
		trace.txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", c.Path()).
		Logger()

	err := validation.BindAndValidate(c, req)
	validationDuration := time.Since(start)
	trace.record("validation", validationDuration, err)
	if err != nil {
		logger.Warn().Err(err).Dur("validation_duration", validationDuration).Msg("request validation failed")
		return err
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)
	trace.record("handler", handlerDuration, err)
	if err != nil {
		logger.Error().Err(err).Dur("handler_duration", handlerDuration).Msg("handler execution failed")
		return err
	}

	if trace.txn != nil {
		trace.txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		responseHandler.AddAttributes(trace.txn, result)
	}

	logger.Info().
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// Handle registers a typed handler that answers with JSON and the given status.
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest[Req](), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}
