// Package job runs background work on asynq: queued inbox runs, the
// optional periodic inbox sweep, and audit alert emails.
package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
	"github.com/deppfellow/netanomics/internal/lib/email"
	"github.com/deppfellow/netanomics/internal/model"
)

// InboxProcessor is the work behind TaskProcessInbox.
type InboxProcessor interface {
	ProcessInbox(ctx context.Context) (*model.ProcessResult, error)
}

type JobService struct {
	Client *asynq.Client

	server      *asynq.Server
	scheduler   *asynq.Scheduler
	sweepCron   string
	emailClient *email.Client
	inbox       InboxProcessor
	logger      *zerolog.Logger
}

func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(redisOpt, asynq.Config{
		// Inbox runs are long and rate limited by the model API.
		Concurrency: 4,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	})

	j := &JobService{
		Client:      asynq.NewClient(redisOpt),
		server:      server,
		sweepCron:   cfg.Inbox.SweepCron,
		emailClient: email.NewClient(cfg.Integration, logger),
		logger:      logger,
	}
	if j.sweepCron != "" {
		j.scheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	}
	return j
}

// RegisterInboxProcessor sets the service invoked by TaskProcessInbox. It
// must be called before Start.
func (j *JobService) RegisterInboxProcessor(p InboxProcessor) {
	j.inbox = p
}

func (j *JobService) EnqueueProcessInbox(ctx context.Context) (*asynq.TaskInfo, error) {
	info, err := j.Client.EnqueueContext(ctx, NewProcessInboxTask())
	if err != nil {
		return nil, fmt.Errorf("enqueueing inbox run: %w", err)
	}
	return info, nil
}

func (j *JobService) EnqueueAuditAlert(ctx context.Context, p AuditAlertPayload) error {
	task, err := NewAuditAlertTask(p)
	if err != nil {
		return err
	}
	if _, err := j.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueueing audit alert: %w", err)
	}
	return nil
}

// Start launches the worker and, when a sweep schedule is configured, the
// scheduler. Neither call blocks.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskProcessInbox, j.handleProcessInboxTask)
	mux.HandleFunc(TaskAuditAlert, j.handleAuditAlertTask)

	j.logger.Info().Msg("starting background job server")
	if err := j.server.Start(mux); err != nil {
		return err
	}

	if j.scheduler != nil {
		if _, err := j.scheduler.Register(j.sweepCron, NewProcessInboxTask()); err != nil {
			return fmt.Errorf("registering inbox sweep %q: %w", j.sweepCron, err)
		}
		if err := j.scheduler.Start(); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		j.logger.Info().Str("cron", j.sweepCron).Msg("inbox sweep scheduled")
	}
	return nil
}

func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	if j.scheduler != nil {
		j.scheduler.Shutdown()
	}
	j.server.Shutdown()
	j.Client.Close()
}
