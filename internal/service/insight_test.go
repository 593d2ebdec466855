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

func TestDetailWithoutEvidence(t *testing.T) {
	llm := &fakeLLM{}
	svc := NewInsightService(&fakeInsights{}, llm, nopLogger())

	resp, err := svc.Detail(context.Background(), &model.InsightDetailRequest{
		InsightID: 5, OriginalTitle: "Vague", OriginalFinding: "Found 2 projects",
	})
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}
	want := "**Finding:** Found 2 projects\n\n*No specific projects were automatically linked as evidence for this finding by the AI auditor.*"
	if resp.DetailedBrief != want {
		t.Errorf("brief = %q", resp.DetailedBrief)
	}
	if len(llm.prompts) != 0 {
		t.Error("model called without evidence")
	}
}

func TestDetailWithEvidence(t *testing.T) {
	insights := &fakeInsights{evidence: map[int64][]model.EvidenceDetail{
		5: {
			{Reasoning: "Contributed heavily.", Description: strPtr("CC road"), AllocatedAmount: 1240000, ContractorName: strPtr("Kaveri Builders")},
			{Reasoning: "No deliverable."},
		},
	}}
	llm := &fakeLLM{fallback: "\n1. Why one contractor?\n2. Where are the bids?\n"}
	svc := NewInsightService(insights, llm, nopLogger())

	resp, err := svc.Detail(context.Background(), &model.InsightDetailRequest{
		InsightID: 5, OriginalTitle: "High Fund Concentration", OriginalFinding: "60%",
	})
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}

	brief := resp.DetailedBrief
	for _, want := range []string{
		"## Detailed Analysis: High Fund Concentration",
		"- **Project:** *CC road*",
		"  - **Amount:** 1,240,000 INR",
		"  - **Contractor:** N/A",
		"  - **Auditor's Note:** No deliverable.",
		"\n### Suggested Questions for the MP\n1. Why one contractor?",
	} {
		if !strings.Contains(brief, want) {
			t.Errorf("brief missing %q\n%s", want, brief)
		}
	}
	if !strings.Contains(llm.prompts[0], "Kaveri Builders") {
		t.Error("prompt does not carry the evidence brief")
	}
}

func TestDetailModelFailure(t *testing.T) {
	insights := &fakeInsights{evidence: map[int64][]model.EvidenceDetail{1: {{Reasoning: "x"}}}}
	svc := NewInsightService(insights, &fakeLLM{err: errModelDown}, nopLogger())

	_, err := svc.Detail(context.Background(), &model.InsightDetailRequest{InsightID: 1, OriginalTitle: "t", OriginalFinding: "f"})
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusBadGateway {
		t.Fatalf("error = %v, want 502", err)
	}
}
