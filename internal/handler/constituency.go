package handler

import (
	"context"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/netanomics/internal/model"
	"github.com/deppfellow/netanomics/internal/server"
)

type constituencyService interface {
	List(ctx context.Context) ([]model.ConstituencyScorecard, error)
	Dashboard(ctx context.Context, name string) (*model.DashboardResponse, error)
}

type ConstituencyHandler struct {
	Handler
	service constituencyService
}

func NewConstituencyHandler(s *server.Server, service constituencyService) *ConstituencyHandler {
	return &ConstituencyHandler{
		Handler: NewHandler(s),
		service: service,
	}
}

func (h *ConstituencyHandler) ListConstituencies(c echo.Context, _ *model.EmptyRequest) ([]model.ConstituencyScorecard, error) {
	return h.service.List(c.Request().Context())
}

// GetDashboard accepts the constituency name URL-encoded in the path.
func (h *ConstituencyHandler) GetDashboard(c echo.Context, req *model.DashboardRequest) (*model.DashboardResponse, error) {
	name := req.ConstituencyName
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return h.service.Dashboard(c.Request().Context(), strings.TrimSpace(name))
}
