package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/netanomics/internal/model"
	"github.com/deppfellow/netanomics/internal/server"
)

type insightService interface {
	Detail(ctx context.Context, req *model.InsightDetailRequest) (*model.InsightDetailResponse, error)
}

type legalService interface {
	GenerateDocs(ctx context.Context, req *model.LegalRequest) (*model.LegalDocsResponse, error)
}

type budgetService interface {
	GenerateOptimal(ctx context.Context, req *model.BudgetRequest) (*model.BudgetResponse, error)
}

// AnalysisHandler serves the routes backed by the language model.
type AnalysisHandler struct {
	Handler
	insights insightService
	legal    legalService
	budget   budgetService
}

func NewAnalysisHandler(s *server.Server, insights insightService, legal legalService, budget budgetService) *AnalysisHandler {
	return &AnalysisHandler{
		Handler:  NewHandler(s),
		insights: insights,
		legal:    legal,
		budget:   budget,
	}
}

func (h *AnalysisHandler) InsightDetail(c echo.Context, req *model.InsightDetailRequest) (*model.InsightDetailResponse, error) {
	return h.insights.Detail(c.Request().Context(), req)
}

func (h *AnalysisHandler) GenerateLegalDocs(c echo.Context, req *model.LegalRequest) (*model.LegalDocsResponse, error) {
	return h.legal.GenerateDocs(c.Request().Context(), req)
}

func (h *AnalysisHandler) GenerateOptimalBudget(c echo.Context, req *model.BudgetRequest) (*model.BudgetResponse, error) {
	return h.budget.GenerateOptimal(c.Request().Context(), req)
}
