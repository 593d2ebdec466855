// Package router builds the Echo instance: global middleware in order, the
// system routes and the versioned API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/netanomics/internal/handler"
	"github.com/deppfellow/netanomics/internal/middleware"
	"github.com/deppfellow/netanomics/internal/server"
	"github.com/deppfellow/netanomics/internal/service"
)

func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Tracing and the request ID come before the context enhancer, which
	// copies both onto the request logger.
	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerPublicRoutes(v1, h, middlewares)

	var guard []echo.MiddlewareFunc
	if services.Auth.Enabled() {
		guard = append(guard, middlewares.Auth.RequireAuth)
	}
	registerProcessRoutes(v1, h, guard...)

	return router
}
