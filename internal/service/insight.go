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

const questionsHeading = "\n### Suggested Questions for the MP\n"

type InsightService struct {
	insights InsightStore
	llm      llm.Completer
	logger   *zerolog.Logger
}

func NewInsightService(insights InsightStore, completer llm.Completer, logger *zerolog.Logger) *InsightService {
	return &InsightService{insights: insights, llm: completer, logger: logger}
}

// Detail expands an insight into a markdown brief of its evidence followed
// by model-written questions for the MP.
func (s *InsightService) Detail(ctx context.Context, req *model.InsightDetailRequest) (*model.InsightDetailResponse, error) {
	evidence, err := s.insights.EvidenceForInsight(ctx, req.InsightID)
	if err != nil {
		return nil, err
	}

	if len(evidence) == 0 {
		return &model.InsightDetailResponse{DetailedBrief: fmt.Sprintf(
			"**Finding:** %s\n\n*No specific projects were automatically linked as evidence for this finding by the AI auditor.*",
			req.OriginalFinding,
		)}, nil
	}

	brief := evidenceBrief(req, evidence)

	questions, err := s.llm.Complete(ctx,
		"Based on the following evidence brief, write 2 specific, data-driven questions a journalist could ask the MP:\n\n"+brief)
	if err != nil {
		s.logger.Error().Err(err).Int64("insight_id", req.InsightID).Msg("generating journalist questions")
		return nil, errs.NewBadGatewayError("AI insight generation failed", true)
	}

	return &model.InsightDetailResponse{
		DetailedBrief: brief + questionsHeading + strings.TrimSpace(questions),
	}, nil
}

func evidenceBrief(req *model.InsightDetailRequest, evidence []model.EvidenceDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Detailed Analysis: %s\n\n", req.OriginalTitle)
	fmt.Fprintf(&b, "**Finding:** %s\n\n", req.OriginalFinding)
	b.WriteString("### Supporting Evidence from Report:\n")
	for _, e := range evidence {
		fmt.Fprintf(&b, "- **Project:** *%s*\n", orNA(e.Description))
		fmt.Fprintf(&b, "  - **Amount:** %s INR\n", formatAmount(e.AllocatedAmount))
		fmt.Fprintf(&b, "  - **Contractor:** %s\n", orNA(e.ContractorName))
		fmt.Fprintf(&b, "  - **Auditor's Note:** %s\n\n", e.Reasoning)
	}
	return b.String()
}
