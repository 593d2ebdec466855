package handler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/netanomics/internal/model"
	"github.com/deppfellow/netanomics/internal/server"
)

type inboxProcessor interface {
	ProcessInbox(ctx context.Context) (*model.ProcessResult, error)
}

type inboxQueue interface {
	EnqueueProcessInbox(ctx context.Context) (*asynq.TaskInfo, error)
}

type auditService interface {
	Audit(ctx context.Context, req *model.AuditRequest) (*model.AuditResponse, error)
}

// ProcessHandler serves the operator routes that ingest reports and rerun
// audits.
type ProcessHandler struct {
	Handler
	processor inboxProcessor
	queue     inboxQueue
	audit     auditService
}

func NewProcessHandler(s *server.Server, processor inboxProcessor, queue inboxQueue, audit auditService) *ProcessHandler {
	return &ProcessHandler{
		Handler:   NewHandler(s),
		processor: processor,
		queue:     queue,
		audit:     audit,
	}
}

// RunInbox processes the inbox within the request.
func (h *ProcessHandler) RunInbox(c echo.Context, _ *model.EmptyRequest) (*model.ProcessResult, error) {
	return h.processor.ProcessInbox(c.Request().Context())
}

// EnqueueInbox hands the inbox run to the worker.
func (h *ProcessHandler) EnqueueInbox(c echo.Context, _ *model.EmptyRequest) (*model.EnqueueResponse, error) {
	info, err := h.queue.EnqueueProcessInbox(c.Request().Context())
	if err != nil {
		return nil, fmt.Errorf("enqueueing inbox run: %w", err)
	}
	return &model.EnqueueResponse{
		Status: "queued",
		TaskID: info.ID,
		Queue:  info.Queue,
	}, nil
}

func (h *ProcessHandler) RunAudit(c echo.Context, req *model.AuditRequest) (*model.AuditResponse, error) {
	return h.audit.Audit(c.Request().Context(), req)
}
