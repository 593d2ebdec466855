package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/netanomics/internal/model"
	"github.com/deppfellow/netanomics/internal/server"
)

type ProjectRepository struct {
	server *server.Server
}

func NewProjectRepository(s *server.Server) *ProjectRepository {
	return &ProjectRepository{server: s}
}

func (r *ProjectRepository) ListByConstituency(ctx context.Context, constituencyID int64) ([]model.Project, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `
		SELECT id, constituency_id, project_description, allocated_amount,
			expenditure_date, location, contractor_ngo_name, category
		FROM projects
		WHERE constituency_id = @constituency_id
		ORDER BY id`, pgx.NamedArgs{"constituency_id": constituencyID})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Project, error) {
		var (
			p               model.Project
			expenditureDate *time.Time
		)
		err := row.Scan(
			&p.ID,
			&p.ConstituencyID,
			&p.Description,
			&p.AllocatedAmount,
			&expenditureDate,
			&p.Location,
			&p.ContractorName,
			&p.Category,
		)
		p.ExpenditureDate = model.DateFromTime(expenditureDate)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning projects: %w", err)
	}
	return projects, nil
}

// ReplaceReport swaps a constituency's projects for a freshly extracted
// set and marks it Current as of reportDate. Old evidence goes with the old
// projects through ON DELETE CASCADE.
func (r *ProjectRepository) ReplaceReport(ctx context.Context, constituencyID int64, projects []model.NewProject, reportDate time.Time) error {
	return pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE constituency_id = $1`, constituencyID); err != nil {
			return fmt.Errorf("deleting old projects: %w", err)
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"projects"},
			[]string{"constituency_id", "project_description", "allocated_amount", "location", "contractor_ngo_name", "category"},
			pgx.CopyFromSlice(len(projects), func(i int) ([]any, error) {
				p := projects[i]
				return []any{constituencyID, p.Description, p.AllocatedAmount, p.Location, p.ContractorName, p.Category}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("inserting projects: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE constituencies
			SET transparency_status = $2, last_report_date = $3
			WHERE id = $1`, constituencyID, string(model.StatusCurrent), reportDate)
		if err != nil {
			return fmt.Errorf("marking constituency current: %w", err)
		}
		return nil
	})
}

// Summary aggregates spend for the dashboard. Contractors are grouped on
// their trimmed name and blank names are left out.
func (r *ProjectRepository) Summary(ctx context.Context, constituencyID int64, topContractors int) (*model.ProjectSummary, error) {
	summary := &model.ProjectSummary{}
	args := pgx.NamedArgs{"constituency_id": constituencyID, "limit": topContractors}

	err := r.server.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(allocated_amount), 0)::float8, COUNT(id)
		FROM projects
		WHERE constituency_id = @constituency_id`, args).
		Scan(&summary.TotalExpenditure, &summary.TotalProjects)
	if err != nil {
		return nil, fmt.Errorf("totalling projects: %w", err)
	}

	rows, err := r.server.DB.Pool.Query(ctx, `
		SELECT category, COALESCE(SUM(allocated_amount), 0)::float8 AS amount
		FROM projects
		WHERE constituency_id = @constituency_id
		GROUP BY category
		ORDER BY amount DESC, category`, args)
	if err != nil {
		return nil, fmt.Errorf("summing categories: %w", err)
	}
	summary.Categories, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.CategoryTotal, error) {
		var c model.CategoryTotal
		err := row.Scan(&c.Category, &c.Amount)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning categories: %w", err)
	}

	rows, err = r.server.DB.Pool.Query(ctx, `
		SELECT BTRIM(contractor_ngo_name) AS name, COALESCE(SUM(allocated_amount), 0)::float8 AS amount
		FROM projects
		WHERE constituency_id = @constituency_id
			AND contractor_ngo_name IS NOT NULL
			AND BTRIM(contractor_ngo_name) <> ''
		GROUP BY BTRIM(contractor_ngo_name)
		ORDER BY amount DESC, name
		LIMIT @limit`, args)
	if err != nil {
		return nil, fmt.Errorf("ranking contractors: %w", err)
	}
	summary.TopContractors, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ContractorSpend, error) {
		var c model.ContractorSpend
		err := row.Scan(&c.Name, &c.Amount)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning contractors: %w", err)
	}

	return summary, nil
}
