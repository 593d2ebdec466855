package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
	"github.com/deppfellow/netanomics/internal/lib/email"
	"github.com/deppfellow/netanomics/internal/lib/job"
	"github.com/deppfellow/netanomics/internal/lib/llm"
	"github.com/deppfellow/netanomics/internal/model"
	"github.com/deppfellow/netanomics/internal/sqlerr"
)

const (
	titleConcentration = "High Fund Concentration"
	titleVague         = "Vague or Non-Specific Projects"
)

type AuditService struct {
	constituencies ConstituencyStore
	projects       ProjectStore
	insights       InsightStore
	llm            llm.Completer
	alerts         AlertQueue
	cache          DashboardCache
	cfg            config.PipelineConfig
	alertsCfg      config.AlertsConfig
	logger         *zerolog.Logger
}

func NewAuditService(
	constituencies ConstituencyStore,
	projects ProjectStore,
	insights InsightStore,
	completer llm.Completer,
	alerts AlertQueue,
	cache DashboardCache,
	cfg *config.Config,
	logger *zerolog.Logger,
) *AuditService {
	return &AuditService{
		constituencies: constituencies,
		projects:       projects,
		insights:       insights,
		llm:            completer,
		alerts:         alerts,
		cache:          cache,
		cfg:            cfg.Pipeline,
		alertsCfg:      cfg.Alerts,
		logger:         logger,
	}
}

type auditAgent struct {
	name string
	run  func(ctx context.Context, constituencyID int64, projects []model.Project) ([]model.Insight, error)
}

// RunAudit replaces the insights of a constituency with a fresh run of
// every agent. An agent that fails is logged and the next one still runs.
func (s *AuditService) RunAudit(ctx context.Context, constituencyID int64) ([]model.Insight, error) {
	logger := s.logger.With().Int64("constituency_id", constituencyID).Logger()

	projects, err := s.projects.ListByConstituency(ctx, constituencyID)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		logger.Info().Msg("no projects, skipping audit")
		return []model.Insight{}, nil
	}

	cleared, err := s.insights.ClearForConstituency(ctx, constituencyID)
	if err != nil {
		return nil, err
	}
	logger.Info().Int64("cleared", cleared).Int("projects", len(projects)).Msg("starting audit")

	agents := []auditAgent{
		{"concentration", s.concentrationAgent},
		{"vagueness", s.vaguenessAgent},
	}

	insights := []model.Insight{}
	for _, agent := range agents {
		found, err := agent.run(ctx, constituencyID, projects)
		if err != nil {
			logger.Error().Err(err).Str("agent", agent.name).Msg("audit agent failed")
			continue
		}
		logger.Info().Str("agent", agent.name).Int("insights", len(found)).Msg("audit agent finished")
		insights = append(insights, found...)
	}

	s.alertHighFindings(ctx, constituencyID, insights)
	return insights, nil
}

type contractorTotal struct {
	name   string
	amount float64
}

func (s *AuditService) concentrationAgent(ctx context.Context, constituencyID int64, projects []model.Project) ([]model.Insight, error) {
	var total float64
	byContractor := map[string]float64{}
	for _, p := range projects {
		total += p.AllocatedAmount
		if p.ContractorName == nil || p.AllocatedAmount == 0 {
			continue
		}
		if name := strings.TrimSpace(*p.ContractorName); name != "" {
			byContractor[name] += p.AllocatedAmount
		}
	}
	if total < s.cfg.MinExpenditure {
		s.logger.Debug().Float64("total", total).Msg("expenditure too low for concentration analysis")
		return nil, nil
	}

	var flagged []contractorTotal
	for name, amount := range byContractor {
		if amount/total*100 > s.cfg.ConcentrationThreshold {
			flagged = append(flagged, contractorTotal{name, amount})
		}
	}
	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].amount != flagged[j].amount {
			return flagged[i].amount > flagged[j].amount
		}
		return flagged[i].name < flagged[j].name
	})

	var insights []model.Insight
	for _, c := range flagged {
		finding := fmt.Sprintf(
			"A single contractor, '%s', received %s INR, which constitutes %.1f%% of the total reported expenditure. "+
				"This can be a red flag for a lack of competitive bidding.",
			c.name, formatAmount(c.amount), c.amount/total*100,
		)

		var evidence []model.NewEvidence
		for _, p := range projects {
			if p.ContractorName != nil && strings.TrimSpace(*p.ContractorName) == c.name {
				evidence = append(evidence, model.NewEvidence{
					ProjectID: p.ID,
					Reasoning: fmt.Sprintf("This project contributed %s INR to the total.", formatAmount(p.AllocatedAmount)),
				})
			}
		}

		insight, err := s.insights.CreateWithEvidence(ctx, model.NewInsight{
			ConstituencyID: constituencyID,
			Title:          titleConcentration,
			Finding:        finding,
			Severity:       model.SeverityHigh,
		}, evidence)
		if err != nil {
			return insights, fmt.Errorf("storing concentration insight for %q: %w", c.name, err)
		}
		insights = append(insights, *insight)
	}
	return insights, nil
}

// projectID accepts the id as a JSON number or a numeric string.
type projectID struct {
	value int64
	ok    bool
}

func (p *projectID) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		p.value, p.ok = n, true
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
		p.value, p.ok = int64(f), true
	}
	return nil
}

type vagueReply struct {
	VagueProjects []struct {
		ID     projectID `json:"id"`
		Reason string    `json:"reason"`
	} `json:"vague_projects"`
}

func vaguenessPrompt(projectLines string) string {
	return `Act as a forensic auditor reviewing MPLADS expenditure. Identify the projects below whose descriptions are vague, non-specific or suspicious.
A vague description lacks concrete detail about the work, the location or the purpose, for example "General works", "Constituency development" or "Miscellaneous repairs".

Projects:
---
` + projectLines + `
---

Reply with a single JSON object with one key, "vague_projects", holding a list of objects. Each object must have "id" (the integer project ID from the list) and "reason" (a short explanation).
Example: {"vague_projects": [{"id": 123, "reason": "Description 'Constituency development' names no deliverable."}]}
If no project is vague, return {"vague_projects": []}.`
}

func (s *AuditService) vaguenessAgent(ctx context.Context, constituencyID int64, projects []model.Project) ([]model.Insight, error) {
	known := make(map[int64]bool, len(projects))
	var lines []string
	for _, p := range projects {
		known[p.ID] = true
		if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
			lines = append(lines, fmt.Sprintf("ID %d: %s", p.ID, strings.TrimSpace(*p.Description)))
		}
	}
	if len(lines) == 0 {
		s.logger.Debug().Msg("no project descriptions to analyse")
		return nil, nil
	}

	reply, err := s.llm.Complete(ctx, vaguenessPrompt(strings.Join(lines, "\n")))
	if err != nil {
		return nil, fmt.Errorf("vagueness model call: %w", err)
	}

	var parsed vagueReply
	if err := llm.DecodeJSON(reply, &parsed); err != nil {
		return nil, err
	}

	var evidence []model.NewEvidence
	seen := map[int64]bool{}
	for _, item := range parsed.VagueProjects {
		reason := strings.TrimSpace(item.Reason)
		if !item.ID.ok || reason == "" || !known[item.ID.value] || seen[item.ID.value] {
			continue
		}
		seen[item.ID.value] = true
		evidence = append(evidence, model.NewEvidence{ProjectID: item.ID.value, Reasoning: reason})
	}
	if len(evidence) == 0 {
		return nil, nil
	}

	insight, err := s.insights.CreateWithEvidence(ctx, model.NewInsight{
		ConstituencyID: constituencyID,
		Title:          titleVague,
		Finding: fmt.Sprintf("Found %d projects with descriptions that lack specific details, "+
			"which can make auditing their actual impact difficult.", len(evidence)),
		Severity: model.SeverityMedium,
	}, evidence)
	if err != nil {
		return nil, fmt.Errorf("storing vagueness insight: %w", err)
	}
	return []model.Insight{*insight}, nil
}

// alertHighFindings queues an email when the run produced High findings.
// Failures are logged only.
func (s *AuditService) alertHighFindings(ctx context.Context, constituencyID int64, insights []model.Insight) {
	if !s.alertsCfg.Enabled || len(s.alertsCfg.Recipients) == 0 || s.alerts == nil {
		return
	}

	var findings []email.AlertFinding
	for _, i := range insights {
		if i.Severity == model.SeverityHigh {
			findings = append(findings, email.AlertFinding{Title: i.Title, Finding: i.Finding})
		}
	}
	if len(findings) == 0 {
		return
	}

	c, err := s.constituencies.GetByID(ctx, constituencyID)
	if err != nil {
		s.logger.Error().Err(err).Int64("constituency_id", constituencyID).Msg("loading constituency for alert")
		return
	}

	err = s.alerts.EnqueueAuditAlert(ctx, job.AuditAlertPayload{
		To:               s.alertsCfg.Recipients,
		ConstituencyName: c.ConstituencyName,
		MPName:           c.MPName,
		Findings:         findings,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("constituency_id", constituencyID).Msg("enqueueing audit alert")
	}
}

// Audit re-runs the agents for one constituency on request.
func (s *AuditService) Audit(ctx context.Context, req *model.AuditRequest) (*model.AuditResponse, error) {
	c, err := s.constituencies.GetByID(ctx, req.ConstituencyID)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	insights, err := s.RunAudit(ctx, req.ConstituencyID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, dashboardKey(c.ConstituencyName)); err != nil {
		s.logger.Warn().Err(err).Int64("constituency_id", c.ID).Msg("invalidating dashboard cache")
	}
	return &model.AuditResponse{ConstituencyID: req.ConstituencyID, Insights: insights}, nil
}
