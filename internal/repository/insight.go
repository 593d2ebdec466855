package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/netanomics/internal/model"
	"github.com/deppfellow/netanomics/internal/server"
)

type InsightRepository struct {
	server *server.Server
}

func NewInsightRepository(s *server.Server) *InsightRepository {
	return &InsightRepository{server: s}
}

// ClearForConstituency deletes every insight of a constituency. Evidence
// rows cascade.
func (r *InsightRepository) ClearForConstituency(ctx context.Context, constituencyID int64) (int64, error) {
	tag, err := r.server.DB.Pool.Exec(ctx,
		`DELETE FROM ai_insights WHERE constituency_id = $1`, constituencyID)
	if err != nil {
		return 0, fmt.Errorf("clearing insights: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreateWithEvidence stores an insight and its evidence atomically.
func (r *InsightRepository) CreateWithEvidence(ctx context.Context, in model.NewInsight, evidence []model.NewEvidence) (*model.Insight, error) {
	insight := &model.Insight{
		ConstituencyID: in.ConstituencyID,
		Title:          in.Title,
		Finding:        in.Finding,
		Severity:       in.Severity,
	}

	err := pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO ai_insights (constituency_id, title, finding, severity)
			VALUES (@constituency_id, @title, @finding, @severity)
			RETURNING id`, pgx.NamedArgs{
			"constituency_id": in.ConstituencyID,
			"title":           in.Title,
			"finding":         in.Finding,
			"severity":        string(in.Severity),
		}).Scan(&insight.ID)
		if err != nil {
			return fmt.Errorf("inserting insight: %w", err)
		}

		if len(evidence) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, e := range evidence {
			batch.Queue(`
				INSERT INTO evidence (insight_id, project_id, reasoning)
				VALUES ($1, $2, $3)`, insight.ID, e.ProjectID, e.Reasoning)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting evidence: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return insight, nil
}

func (r *InsightRepository) ListByConstituency(ctx context.Context, constituencyID int64) ([]model.Insight, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `
		SELECT id, constituency_id, title, finding, severity
		FROM ai_insights
		WHERE constituency_id = $1
		ORDER BY id`, constituencyID)
	if err != nil {
		return nil, fmt.Errorf("listing insights: %w", err)
	}

	insights, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Insight, error) {
		var i model.Insight
		err := row.Scan(&i.ID, &i.ConstituencyID, &i.Title, &i.Finding, &i.Severity)
		return i, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning insights: %w", err)
	}
	return insights, nil
}

// EvidenceForInsight joins an insight's evidence with the cited projects.
func (r *InsightRepository) EvidenceForInsight(ctx context.Context, insightID int64) ([]model.EvidenceDetail, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `
		SELECT e.id, e.reasoning, p.id, p.project_description,
			p.allocated_amount, p.contractor_ngo_name
		FROM evidence e
		JOIN projects p ON p.id = e.project_id
		WHERE e.insight_id = $1
		ORDER BY e.id`, insightID)
	if err != nil {
		return nil, fmt.Errorf("listing evidence: %w", err)
	}

	details, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EvidenceDetail, error) {
		var d model.EvidenceDetail
		err := row.Scan(&d.EvidenceID, &d.Reasoning, &d.ProjectID, &d.Description, &d.AllocatedAmount, &d.ContractorName)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning evidence: %w", err)
	}
	return details, nil
}
