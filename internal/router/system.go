package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/netanomics/internal/handler"
)

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", handler.Welcome)
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.Static("/static", "static")
}
