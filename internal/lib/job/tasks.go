package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/netanomics/internal/lib/email"
)

const (
	TaskProcessInbox = "report:process_inbox"
	TaskAuditAlert   = "email:audit_alert"
)

// processInboxUniqueTTL keeps a second inbox run from being queued while
// one is still pending.
const processInboxUniqueTTL = 10 * time.Minute

type AuditAlertPayload struct {
	To               []string             `json:"to"`
	ConstituencyName string               `json:"constituency_name"`
	MPName           string               `json:"mp_name"`
	Findings         []email.AlertFinding `json:"findings"`
}

func NewProcessInboxTask() *asynq.Task {
	return asynq.NewTask(
		TaskProcessInbox,
		nil,
		asynq.MaxRetry(1),
		asynq.Queue("default"),
		asynq.Timeout(2*time.Hour),
		asynq.Unique(processInboxUniqueTTL),
	)
}

func NewAuditAlertTask(p AuditAlertPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskAuditAlert,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(30*time.Second),
	), nil
}
