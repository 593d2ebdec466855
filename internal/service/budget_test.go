package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/deppfellow/netanomics/internal/errs"
	"github.com/deppfellow/netanomics/internal/model"
)

func TestGenerateOptimal(t *testing.T) {
	llm := &fakeLLM{fallback: "```json\n" + `{"optimal_allocation": [
		{"category": "Drinking Water", "amount": 30000000, "justification": "Drought prone.", "example_project": "Borewells"},
		{"category": "Education", "amount": "2,00,00,000", "justification": "Low literacy.", "example_project": "Smart classrooms"}
	]}` + "\n```"}
	svc := NewBudgetService(llm, nopLogger())

	resp, err := svc.GenerateOptimal(context.Background(), &model.BudgetRequest{
		ConstituencyName: "Chitradurga (SC)", ConstituencyProfile: "arid, rural",
	})
	if err != nil {
		t.Fatalf("GenerateOptimal() error = %v", err)
	}
	if len(resp.OptimalAllocation) != 2 || resp.OptimalAllocation[1].Amount != 20000000 {
		t.Fatalf("resp = %+v", resp)
	}
	if !strings.Contains(llm.prompts[0], "Total budget: 50,000,000 INR") {
		t.Errorf("prompt does not use the default budget:\n%s", llm.prompts[0])
	}
}

func TestGenerateOptimalMissingKey(t *testing.T) {
	svc := NewBudgetService(&fakeLLM{fallback: `{"allocation": []}`}, nopLogger())

	resp, err := svc.GenerateOptimal(context.Background(), &model.BudgetRequest{
		ConstituencyName: "Bidar", ConstituencyProfile: "urban", TotalBudget: 1000,
	})
	if err != nil {
		t.Fatalf("GenerateOptimal() error = %v", err)
	}
	if resp.OptimalAllocation == nil || len(resp.OptimalAllocation) != 0 {
		t.Fatalf("allocation = %#v, want empty list", resp.OptimalAllocation)
	}
}

func TestGenerateOptimalFailure(t *testing.T) {
	for name, llm := range map[string]*fakeLLM{
		"model error": {err: errModelDown},
		"not json":    {fallback: "Sorry, I cannot help."},
	} {
		svc := NewBudgetService(llm, nopLogger())
		_, err := svc.GenerateOptimal(context.Background(), &model.BudgetRequest{ConstituencyName: "Bidar", ConstituencyProfile: "x"})

		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Status != http.StatusBadGateway || httpErr.Message != "AI budget generation failed" {
			t.Errorf("%s: error = %v, want 502", name, err)
		}
	}
}
