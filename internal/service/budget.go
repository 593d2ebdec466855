package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/errs"
	"github.com/deppfellow/netanomics/internal/lib/llm"
	"github.com/deppfellow/netanomics/internal/model"
)

type BudgetService struct {
	llm    llm.Completer
	logger *zerolog.Logger
}

func NewBudgetService(completer llm.Completer, logger *zerolog.Logger) *BudgetService {
	return &BudgetService{llm: completer, logger: logger}
}

func budgetPrompt(profile string, total float64) string {
	return fmt.Sprintf(`Act as an expert, ethical and data-driven District Commissioner in India who specialises in the MPLADS programme.

Create an optimal budget allocation for a constituency with this profile:
Constituency profile: %s
Total budget: %s INR

Allocate the whole budget across these categories: "%s".

Reply with a single valid JSON object with one key, "optimal_allocation", holding a list of objects. Each object must have:
1. "category" (string): the category name.
2. "amount" (number): the amount allocated in INR.
3. "justification" (string): one sentence on why the allocation matters for this profile.
4. "example_project" (string): one concrete project the category could fund.

The amounts must add up to the total budget.`,
		profile, formatAmount(total), strings.Join(model.Categories, `", "`))
}

type budgetReply struct {
	OptimalAllocation []struct {
		Category       string      `json:"category"`
		Amount         looseAmount `json:"amount"`
		Justification  string      `json:"justification"`
		ExampleProject string      `json:"example_project"`
	} `json:"optimal_allocation"`
}

func (s *BudgetService) GenerateOptimal(ctx context.Context, req *model.BudgetRequest) (*model.BudgetResponse, error) {
	total := req.TotalBudget
	if total <= 0 {
		total = model.DefaultTotalBudget
	}

	reply, err := s.llm.Complete(ctx, budgetPrompt(req.ConstituencyProfile, total))
	if err != nil {
		return nil, s.failed(err, req)
	}

	var parsed budgetReply
	if err := llm.DecodeJSON(reply, &parsed); err != nil {
		return nil, s.failed(err, req)
	}

	resp := &model.BudgetResponse{OptimalAllocation: make([]model.BudgetItem, 0, len(parsed.OptimalAllocation))}
	for _, item := range parsed.OptimalAllocation {
		resp.OptimalAllocation = append(resp.OptimalAllocation, model.BudgetItem{
			Category:       item.Category,
			Amount:         float64(item.Amount),
			Justification:  item.Justification,
			ExampleProject: item.ExampleProject,
		})
	}
	return resp, nil
}

func (s *BudgetService) failed(err error, req *model.BudgetRequest) error {
	s.logger.Error().Err(err).Str("constituency", req.ConstituencyName).Msg("generating budget allocation")
	return errs.NewBadGatewayError("AI budget generation failed", true)
}
