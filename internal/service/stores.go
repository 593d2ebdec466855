package service

import (
	"context"
	"time"

	"github.com/deppfellow/netanomics/internal/lib/job"
	"github.com/deppfellow/netanomics/internal/model"
)

// The interfaces below are satisfied by the repository package and by the
// in-memory fakes in the tests.

type ConstituencyStore interface {
	List(ctx context.Context) ([]model.Constituency, error)
	GetByID(ctx context.Context, id int64) (*model.Constituency, error)
	GetByName(ctx context.Context, name string) (*model.Constituency, error)
	SetStatus(ctx context.Context, id int64, status model.TransparencyStatus, reportDate *time.Time) error
	UpsertMany(ctx context.Context, constituencies []model.Constituency) (int, error)
}

type ProjectStore interface {
	ListByConstituency(ctx context.Context, constituencyID int64) ([]model.Project, error)
	ReplaceReport(ctx context.Context, constituencyID int64, projects []model.NewProject, reportDate time.Time) error
	Summary(ctx context.Context, constituencyID int64, topContractors int) (*model.ProjectSummary, error)
}

type InsightStore interface {
	ClearForConstituency(ctx context.Context, constituencyID int64) (int64, error)
	CreateWithEvidence(ctx context.Context, in model.NewInsight, evidence []model.NewEvidence) (*model.Insight, error)
	ListByConstituency(ctx context.Context, constituencyID int64) ([]model.Insight, error)
	EvidenceForInsight(ctx context.Context, insightID int64) ([]model.EvidenceDetail, error)
}

type DashboardCache interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

type AlertQueue interface {
	EnqueueAuditAlert(ctx context.Context, p job.AuditAlertPayload) error
}

type ReportExtractor interface {
	Extract(ctx context.Context, path string) ([]string, error)
}
