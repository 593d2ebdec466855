package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/deppfellow/netanomics/internal/errs"
	"github.com/deppfellow/netanomics/internal/lib/llm"
	"github.com/deppfellow/netanomics/internal/model"
)

type LegalService struct {
	llm    llm.Completer
	logger *zerolog.Logger
}

func NewLegalService(completer llm.Completer, logger *zerolog.Logger) *LegalService {
	return &LegalService{llm: completer, logger: logger}
}

func pioAddress(constituencyName string) string {
	return fmt.Sprintf("Public Information Officer (PIO),\nOffice of the District Magistrate,\n%s District", constituencyName)
}

func rtiPrompt(req *model.LegalRequest) string {
	return fmt.Sprintf(`Act as a legal expert on India's Right to Information (RTI) Act, 2005, and draft a formal RTI application.

Finding: the MPLADS expenditure report for the %s Lok Sabha constituency (MP: %s) is '%s'.
Address the application to:
%s

The application must be concise, ready to file and ask for the exact information the finding calls for under the MPLADS scheme.
Return only the text of the application, starting with "To," and ending with "Sincerely,". No commentary and no markdown.`,
		req.ConstituencyName, req.MPName, req.Finding, pioAddress(req.ConstituencyName))
}

func appealPrompt(req *model.LegalRequest) string {
	return fmt.Sprintf(`Act as a senior RTI activist helping a citizen. The PIO gave an evasive or invalid reply to an RTI request about '%s' in the %s constituency.

Draft the First Appeal under Section 19(1) of the RTI Act to the First Appellate Authority at the same office. The appeal must reference the original RTI request, state that no satisfactory information was provided within 30 days, and explain briefly why replies such as "information is being compiled" are not valid under the Act.
Return only the text of the appeal.`,
		req.Finding, req.ConstituencyName)
}

func pilPrompt(req *model.LegalRequest) string {
	return fmt.Sprintf(`Act as a paralegal supporting a public interest litigation lawyer. The finding is '%s' for MP %s in %s.

Write a "Preliminary Note for Counsel" of under 150 words. In 2-3 sentences explain why a systemic failure of transparency in MPLADS funds may be a matter of public interest touching the rights of citizens under Article 21 of the Constitution. This is a summary for a lawyer to evaluate the case, not the petition itself.
Return only the text of the note.`,
		req.Finding, req.MPName, req.ConstituencyName)
}

// GenerateDocs drafts the RTI application, the first appeal and the PIL
// note concurrently.
func (s *LegalService) GenerateDocs(ctx context.Context, req *model.LegalRequest) (*model.LegalDocsResponse, error) {
	var resp model.LegalDocsResponse

	g, gctx := errgroup.WithContext(ctx)
	docs := []struct {
		prompt string
		out    *string
	}{
		{rtiPrompt(req), &resp.RTIApplication},
		{appealPrompt(req), &resp.FirstAppeal},
		{pilPrompt(req), &resp.PILBrief},
	}
	for _, doc := range docs {
		g.Go(func() error {
			text, err := s.llm.Complete(gctx, doc.prompt)
			if err != nil {
				return err
			}
			*doc.out = strings.TrimSpace(text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("constituency", req.ConstituencyName).Msg("generating legal documents")
		return nil, errs.NewBadGatewayError("AI legal document generation failed", true)
	}
	return &resp, nil
}
