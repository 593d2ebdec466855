package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/netanomics/internal/config"
	"github.com/deppfellow/netanomics/internal/lib/llm"
	"github.com/deppfellow/netanomics/internal/model"
)

var (
	ErrNoText     = errors.New("OCR failed: no text extracted")
	ErrNoProjects = errors.New("structuring failed: no projects extracted")
)

// Auditor runs the audit agents after a report is stored.
type Auditor interface {
	RunAudit(ctx context.Context, constituencyID int64) ([]model.Insight, error)
}

type PipelineService struct {
	constituencies ConstituencyStore
	projects       ProjectStore
	extractor      ReportExtractor
	llm            llm.Completer
	auditor        Auditor
	cache          DashboardCache
	cfg            config.PipelineConfig
	logger         *zerolog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPipelineService(
	constituencies ConstituencyStore,
	projects ProjectStore,
	extractor ReportExtractor,
	completer llm.Completer,
	auditor Auditor,
	cache DashboardCache,
	cfg config.PipelineConfig,
	logger *zerolog.Logger,
) *PipelineService {
	return &PipelineService{
		constituencies: constituencies,
		projects:       projects,
		extractor:      extractor,
		llm:            completer,
		auditor:        auditor,
		cache:          cache,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
		sleep:          sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RunFullPipeline ingests one report: OCR, structuring, storage, audit.
// If ingestion fails the constituency is marked Missing.
func (s *PipelineService) RunFullPipeline(ctx context.Context, constituencyID int64, pdfPath string) error {
	logger := s.logger.With().Int64("constituency_id", constituencyID).Str("report", pdfPath).Logger()
	logger.Info().Msg("starting report pipeline")

	if err := s.ingest(ctx, constituencyID, pdfPath, &logger); err != nil {
		logger.Error().Err(err).Msg("report pipeline failed")
		if statusErr := s.constituencies.SetStatus(context.WithoutCancel(ctx), constituencyID, model.StatusMissing, nil); statusErr != nil {
			logger.Error().Err(statusErr).Msg("marking constituency missing")
		}
		return err
	}

	if _, err := s.auditor.RunAudit(ctx, constituencyID); err != nil {
		logger.Error().Err(err).Msg("audit after ingestion failed")
	}

	s.invalidateDashboard(ctx, constituencyID, &logger)
	logger.Info().Msg("report pipeline finished")
	return nil
}

func (s *PipelineService) ingest(ctx context.Context, constituencyID int64, pdfPath string, logger *zerolog.Logger) error {
	pages, err := s.extractor.Extract(ctx, pdfPath)
	if err != nil {
		return fmt.Errorf("OCR failed: %w", err)
	}
	if strings.TrimSpace(strings.Join(pages, "")) == "" {
		return ErrNoText
	}
	logger.Info().Int("pages", len(pages)).Msg("report text extracted")

	projects, err := s.structure(ctx, pages, logger)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return ErrNoProjects
	}

	if err := s.projects.ReplaceReport(ctx, constituencyID, projects, s.now()); err != nil {
		return fmt.Errorf("storing projects: %w", err)
	}
	logger.Info().Int("projects", len(projects)).Msg("projects stored")
	return nil
}

func structuringPrompt(text string) string {
	return `Analyse the text below, taken from several pages of an MPLADS expenditure report, and extract every project.
For each project give "project_description", "allocated_amount", "location", "contractor_ngo_name" and a "category" chosen from ["` +
		strings.Join(model.Categories, `", "`) + `"].
Reply with a single JSON object with one key, "projects", holding the list of all projects found on these pages.
---
` + text + `
---`
}

type projectsReply struct {
	Projects []extractedProject `json:"projects"`
}

type extractedProject struct {
	Description looseString `json:"project_description"`
	Amount      looseAmount `json:"allocated_amount"`
	Location    looseString `json:"location"`
	Contractor  looseString `json:"contractor_ngo_name"`
	Category    looseString `json:"category"`
}

func (p extractedProject) toNewProject() model.NewProject {
	category := ""
	if p.Category.value != nil {
		category = *p.Category.value
	}
	return model.NewProject{
		Description:     p.Description.value,
		AllocatedAmount: float64(p.Amount),
		Location:        p.Location.value,
		ContractorName:  p.Contractor.value,
		Category:        model.NormalizeCategory(category),
	}
}

// structure sends the pages to the model BatchSize at a time. A batch that
// fails is logged and skipped.
func (s *PipelineService) structure(ctx context.Context, pages []string, logger *zerolog.Logger) ([]model.NewProject, error) {
	var projects []model.NewProject
	size := max(s.cfg.BatchSize, 1)

	for start := 0; start < len(pages); start += size {
		end := min(start+size, len(pages))
		batchLog := logger.With().Int("first_page", start+1).Int("last_page", end).Logger()

		if batchChars(pages[start:end]) < s.cfg.MinBatchChars {
			batchLog.Debug().Msg("batch has too little text, skipping")
			continue
		}

		found, err := s.structureBatch(ctx, strings.Join(pages[start:end], "\n\n"))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			batchLog.Warn().Err(err).Msg("batch structuring failed")
		} else {
			batchLog.Info().Int("projects", len(found)).Msg("batch structured")
			projects = append(projects, found...)
		}

		if end < len(pages) {
			if err := s.sleep(ctx, s.cfg.BatchDelay); err != nil {
				return nil, err
			}
		}
	}
	return projects, nil
}

// batchChars counts the characters of the pages as if concatenated without
// separators, ignoring leading and trailing whitespace.
func batchChars(pages []string) int {
	return utf8.RuneCountInString(strings.TrimSpace(strings.Join(pages, "")))
}

func (s *PipelineService) structureBatch(ctx context.Context, text string) ([]model.NewProject, error) {
	reply, err := s.llm.Complete(ctx, structuringPrompt(text))
	if err != nil {
		return nil, err
	}

	var parsed projectsReply
	if err := llm.DecodeJSON(reply, &parsed); err != nil {
		return nil, err
	}

	projects := make([]model.NewProject, 0, len(parsed.Projects))
	for _, p := range parsed.Projects {
		projects = append(projects, p.toNewProject())
	}
	return projects, nil
}

func (s *PipelineService) invalidateDashboard(ctx context.Context, constituencyID int64, logger *zerolog.Logger) {
	c, err := s.constituencies.GetByID(ctx, constituencyID)
	if err != nil {
		logger.Warn().Err(err).Msg("loading constituency for cache invalidation")
		return
	}
	if err := s.cache.Delete(ctx, dashboardKey(c.ConstituencyName)); err != nil {
		logger.Warn().Err(err).Msg("invalidating dashboard cache")
	}
}

// looseString takes whatever JSON scalar the model put in a text field.
// null and blank strings become nil.
type looseString struct {
	value *string
}

func (l *looseString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case float64:
		s = decimal.NewFromFloat(t).String()
	default:
		s = string(b)
	}
	if s = strings.TrimSpace(s); s != "" {
		l.value = &s
	}
	return nil
}

// looseAmount parses an amount given as a number or as text such as
// "Rs. 1,20,000/-". Anything unparsable is 0.
type looseAmount float64

var amountNoise = strings.NewReplacer(",", "", "₹", "", "rs.", "", "rs", "", "inr", "", "/-", "", " ", "")

func (a *looseAmount) UnmarshalJSON(b []byte) error {
	*a = looseAmount(parseAmount(strings.Trim(string(b), `"`)))
	return nil
}

func parseAmount(raw string) float64 {
	cleaned := amountNoise.Replace(strings.ToLower(strings.TrimSpace(raw)))
	if cleaned == "" || cleaned == "null" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
