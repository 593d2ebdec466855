package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/netanomics/internal/lib/email"
)

func (j *JobService) handleProcessInboxTask(ctx context.Context, _ *asynq.Task) error {
	if j.inbox == nil {
		return fmt.Errorf("no inbox processor registered: %w", asynq.SkipRetry)
	}

	j.logger.Info().Str("type", TaskProcessInbox).Msg("processing inbox task")

	result, err := j.inbox.ProcessInbox(ctx)
	if err != nil {
		j.logger.Error().Err(err).Str("type", TaskProcessInbox).Msg("inbox run failed")
		return err
	}

	j.logger.Info().
		Str("type", TaskProcessInbox).
		Int("processed", result.NewReportsProcessed).
		Int("failed", result.FailedReports).
		Msg("inbox run finished")
	return nil
}

func (j *JobService) handleAuditAlertTask(_ context.Context, t *asynq.Task) error {
	var p AuditAlertPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal audit alert payload: %v: %w", err, asynq.SkipRetry)
	}

	err := j.emailClient.SendAuditAlert(p.To, email.AuditAlertData{
		ConstituencyName: p.ConstituencyName,
		MPName:           p.MPName,
		Findings:         p.Findings,
	})
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("type", TaskAuditAlert).
			Str("constituency", p.ConstituencyName).
			Msg("failed to send audit alert")
		return err
	}

	j.logger.Info().
		Str("type", TaskAuditAlert).
		Str("constituency", p.ConstituencyName).
		Int("findings", len(p.Findings)).
		Msg("audit alert sent")
	return nil
}
