package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/errs"
	"github.com/deppfellow/netanomics/internal/lib/cache"
	"github.com/deppfellow/netanomics/internal/model"
)

const topContractorLimit = 10

type ConstituencyService struct {
	constituencies ConstituencyStore
	projects       ProjectStore
	insights       InsightStore
	cache          DashboardCache
	logger         *zerolog.Logger
}

func NewConstituencyService(
	constituencies ConstituencyStore,
	projects ProjectStore,
	insights InsightStore,
	cache DashboardCache,
	logger *zerolog.Logger,
) *ConstituencyService {
	return &ConstituencyService{
		constituencies: constituencies,
		projects:       projects,
		insights:       insights,
		cache:          cache,
		logger:         logger,
	}
}

func (s *ConstituencyService) List(ctx context.Context) ([]model.ConstituencyScorecard, error) {
	constituencies, err := s.constituencies.List(ctx)
	if err != nil {
		return nil, err
	}

	scorecards := make([]model.ConstituencyScorecard, len(constituencies))
	for i, c := range constituencies {
		scorecards[i] = c.Scorecard()
	}
	return scorecards, nil
}

// Dashboard builds the spending dashboard for a constituency looked up by
// name, case-insensitively.
func (s *ConstituencyService) Dashboard(ctx context.Context, name string) (*model.DashboardResponse, error) {
	name = strings.TrimSpace(name)
	key := dashboardKey(name)

	var cached model.DashboardResponse
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn().Err(err).Str("key", key).Msg("reading dashboard cache")
	}

	c, err := s.constituencies.GetByName(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewNotFoundError("Constituency data not found", true, nil)
	}
	if err != nil {
		return nil, err
	}

	summary, err := s.projects.Summary(ctx, c.ID, topContractorLimit)
	if err != nil {
		return nil, err
	}
	insights, err := s.insights.ListByConstituency(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	resp := &model.DashboardResponse{
		ID:                 c.ID,
		MPName:             c.MPName,
		ConstituencyName:   c.ConstituencyName,
		State:              c.State,
		LastReportDate:     c.LastReportDate,
		TotalExpenditure:   summary.TotalExpenditure,
		TotalProjects:      summary.TotalProjects,
		SpendingByCategory: make([]model.SpendingByCategory, 0, len(summary.Categories)),
		TopContractors:     summary.TopContractors,
		AIInsights:         insights,
	}
	if resp.TopContractors == nil {
		resp.TopContractors = []model.ContractorSpend{}
	}
	if resp.AIInsights == nil {
		resp.AIInsights = []model.Insight{}
	}
	for _, cat := range summary.Categories {
		var pct float64
		if summary.TotalExpenditure != 0 {
			pct = roundTo(cat.Amount/summary.TotalExpenditure*100, 1)
		}
		resp.SpendingByCategory = append(resp.SpendingByCategory, model.SpendingByCategory{
			Category:   cat.Category,
			Amount:     cat.Amount,
			Percentage: pct,
		})
	}

	if err := s.cache.SetJSON(ctx, key, resp); err != nil {
		s.logger.Warn().Err(err).Str("constituency", c.ConstituencyName).Msg("caching dashboard")
	}
	return resp, nil
}
