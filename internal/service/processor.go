package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/lib/inbox"
	"github.com/deppfellow/netanomics/internal/model"
)

// ReportPipeline ingests a single matched report.
type ReportPipeline interface {
	RunFullPipeline(ctx context.Context, constituencyID int64, pdfPath string) error
}

type ProcessorService struct {
	constituencies ConstituencyStore
	pipeline       ReportPipeline
	inbox          *inbox.Inbox
	dryRun         bool
	logger         *zerolog.Logger

	// mu serialises inbox runs from the HTTP route and the job worker.
	mu sync.Mutex
}

func NewProcessorService(
	constituencies ConstituencyStore,
	pipeline ReportPipeline,
	box *inbox.Inbox,
	dryRun bool,
	logger *zerolog.Logger,
) *ProcessorService {
	return &ProcessorService{
		constituencies: constituencies,
		pipeline:       pipeline,
		inbox:          box,
		dryRun:         dryRun,
		logger:         logger,
	}
}

// ProcessInbox runs every PDF waiting in the inbox through the pipeline.
// A failing report is archived with a FAILED_ prefix and the run goes on.
func (s *ProcessorService) ProcessInbox(ctx context.Context) (*model.ProcessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inbox.Ensure(); err != nil {
		return nil, err
	}
	files, err := s.inbox.List()
	if err != nil {
		return nil, err
	}

	result := &model.ProcessResult{Status: "success"}
	if len(files) == 0 {
		s.logger.Info().Str("dir", s.inbox.Dir()).Msg("inbox is empty")
		result.Message = "Inbox empty"
		return result, nil
	}
	if s.dryRun {
		s.logger.Warn().Msg("dry run: reports are matched and archived without model calls")
	}

	constituencies, err := s.constituencies.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(constituencies))
	for i, c := range constituencies {
		names[i] = c.ConstituencyName
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := s.logger.With().Str("file", file).Logger()

		idx := inbox.Match(file, names)
		if idx < 0 {
			logger.Warn().Msg("no matching constituency")
			if _, err := s.inbox.Reject(file); err != nil {
				logger.Error().Err(err).Msg("moving unrecognised report")
			}
			result.Unrecognized = append(result.Unrecognized, file)
			continue
		}

		c := constituencies[idx]
		logger = logger.With().Int64("constituency_id", c.ID).Str("constituency", c.ConstituencyName).Logger()
		logger.Info().Msg("report matched")

		if err := s.ingest(ctx, c.ID, file); err != nil {
			logger.Error().Err(err).Msg("report failed")
			if _, moveErr := s.inbox.Fail(file); moveErr != nil {
				logger.Error().Err(moveErr).Msg("archiving failed report")
			}
			result.FailedReports++
			continue
		}

		if _, err := s.inbox.Archive(file); err != nil {
			logger.Error().Err(err).Msg("archiving report")
		}
		result.NewReportsProcessed++
	}

	s.logger.Info().
		Int("processed", result.NewReportsProcessed).
		Int("failed", result.FailedReports).
		Int("unrecognized", len(result.Unrecognized)).
		Msg("inbox run finished")
	return result, nil
}

func (s *ProcessorService) ingest(ctx context.Context, constituencyID int64, file string) error {
	if s.dryRun {
		return s.constituencies.SetStatus(ctx, constituencyID, model.StatusCurrent, nil)
	}
	return s.pipeline.RunFullPipeline(ctx, constituencyID, s.inbox.Path(file))
}
