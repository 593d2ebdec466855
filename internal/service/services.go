package service

import (
	"fmt"

	"github.com/deppfellow/netanomics/internal/lib/cache"
	"github.com/deppfellow/netanomics/internal/lib/inbox"
	"github.com/deppfellow/netanomics/internal/lib/job"
	"github.com/deppfellow/netanomics/internal/lib/llm"
	"github.com/deppfellow/netanomics/internal/lib/ocr"
	"github.com/deppfellow/netanomics/internal/repository"
	"github.com/deppfellow/netanomics/internal/server"
)

type Services struct {
	Auth         *AuthService
	Job          *job.JobService
	Constituency *ConstituencyService
	Insight      *InsightService
	Legal        *LegalService
	Budget       *BudgetService
	Audit        *AuditService
	Pipeline     *PipelineService
	Processor    *ProcessorService
	Seed         *SeedService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	cfg, logger := s.Config, s.Logger

	box := inbox.New(cfg.Inbox)
	if err := box.Ensure(); err != nil {
		return nil, fmt.Errorf("preparing report inbox: %w", err)
	}

	completer := llm.NewClient(cfg.LLM, logger)
	dashboards := cache.New(s.Redis, "dashboard", cfg.Server.DashboardCacheTTL)

	var alerts AlertQueue
	if s.Job != nil {
		alerts = s.Job
	}

	audit := NewAuditService(repos.Constituencies, repos.Projects, repos.Insights, completer, alerts, dashboards, cfg, logger)
	pipeline := NewPipelineService(
		repos.Constituencies,
		repos.Projects,
		ocr.NewExtractor(cfg.OCR, logger),
		completer,
		audit,
		dashboards,
		cfg.Pipeline,
		logger,
	)
	processor := NewProcessorService(repos.Constituencies, pipeline, box, cfg.Pipeline.DryRun, logger)

	if s.Job != nil {
		s.Job.RegisterInboxProcessor(processor)
	}

	return &Services{
		Auth:         NewAuthService(cfg.Auth, logger),
		Job:          s.Job,
		Constituency: NewConstituencyService(repos.Constituencies, repos.Projects, repos.Insights, dashboards, logger),
		Insight:      NewInsightService(repos.Insights, completer, logger),
		Legal:        NewLegalService(completer, logger),
		Budget:       NewBudgetService(completer, logger),
		Audit:        audit,
		Pipeline:     pipeline,
		Processor:    processor,
		Seed:         NewSeedService(repos.Constituencies, logger),
	}, nil
}
