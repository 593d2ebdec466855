package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/netanomics/internal/handler"
	"github.com/deppfellow/netanomics/internal/middleware"
)

func registerPublicRoutes(g *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	c := h.Constituency
	g.GET("/constituencies", handler.Handle(c.Handler, c.ListConstituencies, http.StatusOK))
	g.GET("/dashboard/:constituency_name", handler.Handle(c.Handler, c.GetDashboard, http.StatusOK))

	// These routes call the language model.
	a := h.Analysis
	limit := m.RateLimit.Limit()
	g.POST("/insights/detail", handler.Handle(a.Handler, a.InsightDetail, http.StatusOK), limit)
	g.POST("/legal/generate-docs", handler.Handle(a.Handler, a.GenerateLegalDocs, http.StatusOK), limit)
	g.POST("/budget/generate-optimal", handler.Handle(a.Handler, a.GenerateOptimalBudget, http.StatusOK), limit)
}

// registerProcessRoutes mounts the operator routes behind the given
// middleware, which is empty when authentication is not configured.
func registerProcessRoutes(g *echo.Group, h *handler.Handlers, guard ...echo.MiddlewareFunc) {
	p := h.Process
	g.POST("/process/run", handler.Handle(p.Handler, p.RunInbox, http.StatusOK), guard...)
	g.POST("/process/enqueue", handler.Handle(p.Handler, p.EnqueueInbox, http.StatusAccepted), guard...)
	g.POST("/audit/:constituency_id/run", handler.Handle(p.Handler, p.RunAudit, http.StatusOK), guard...)
}
