package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/netanomics/internal/server"
)

type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{server: s, nrApp: nrApp}
}

// NewRelicMiddleware opens a transaction per request, or passes requests
// through when the agent is off.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing tags the transaction with the client, the request ID and
// the route parameters, so a slow dashboard can be traced to the
// constituency that was asked for. Handler errors are noticed with their
// stack.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			annotateRequest(txn, c)

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
			if userID := GetUserID(c); userID != "" {
				txn.AddAttribute("user.id", userID)
			}
			txn.AddAttribute("http.status_code", c.Response().Status)
			return err
		}
	}
}

func annotateRequest(txn *newrelic.Transaction, c echo.Context) {
	txn.AddAttribute("http.real_ip", c.RealIP())
	txn.AddAttribute("http.user_agent", c.Request().UserAgent())
	if id := GetRequestID(c); id != "" {
		txn.AddAttribute("request.id", id)
	}
	for i, name := range c.ParamNames() {
		txn.AddAttribute("route."+name, c.ParamValues()[i])
	}
}
