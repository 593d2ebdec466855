package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/netanomics/internal/model"
	"github.com/deppfellow/netanomics/internal/server"
	"github.com/deppfellow/netanomics/internal/sqlerr"
)

type ConstituencyRepository struct {
	server *server.Server
}

func NewConstituencyRepository(s *server.Server) *ConstituencyRepository {
	return &ConstituencyRepository{server: s}
}

const constituencyColumns = `
	id, mp_name, constituency_name, state, transparency_status,
	last_report_date, mp_email, mp_image_url`

func scanConstituency(row pgx.Row) (model.Constituency, error) {
	var (
		c          model.Constituency
		reportDate *time.Time
	)
	err := row.Scan(
		&c.ID,
		&c.MPName,
		&c.ConstituencyName,
		&c.State,
		&c.TransparencyStatus,
		&reportDate,
		&c.MPEmail,
		&c.MPImageURL,
	)
	c.LastReportDate = model.DateFromTime(reportDate)
	return c, err
}

// List returns every constituency ordered by state, then name.
func (r *ConstituencyRepository) List(ctx context.Context) ([]model.Constituency, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `
		SELECT`+constituencyColumns+`
		FROM constituencies
		ORDER BY state, constituency_name`)
	if err != nil {
		return nil, fmt.Errorf("listing constituencies: %w", err)
	}

	constituencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Constituency, error) {
		return scanConstituency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning constituencies: %w", err)
	}
	return constituencies, nil
}

func (r *ConstituencyRepository) GetByID(ctx context.Context, id int64) (*model.Constituency, error) {
	c, err := scanConstituency(r.server.DB.Pool.QueryRow(ctx, `
		SELECT`+constituencyColumns+`
		FROM constituencies
		WHERE id = @id`, pgx.NamedArgs{"id": id}))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NoRows("constituencies")
	}
	if err != nil {
		return nil, fmt.Errorf("getting constituency %d: %w", id, err)
	}
	return &c, nil
}

// GetByName matches the name case-insensitively.
func (r *ConstituencyRepository) GetByName(ctx context.Context, name string) (*model.Constituency, error) {
	c, err := scanConstituency(r.server.DB.Pool.QueryRow(ctx, `
		SELECT`+constituencyColumns+`
		FROM constituencies
		WHERE LOWER(constituency_name) = LOWER(@name)
		LIMIT 1`, pgx.NamedArgs{"name": name}))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NoRows("constituencies")
	}
	if err != nil {
		return nil, fmt.Errorf("getting constituency %q: %w", name, err)
	}
	return &c, nil
}

// SetStatus updates the transparency status. A nil reportDate leaves
// last_report_date untouched.
func (r *ConstituencyRepository) SetStatus(ctx context.Context, id int64, status model.TransparencyStatus, reportDate *time.Time) error {
	tag, err := r.server.DB.Pool.Exec(ctx, `
		UPDATE constituencies
		SET transparency_status = @status,
			last_report_date = COALESCE(@report_date, last_report_date)
		WHERE id = @id`, pgx.NamedArgs{
		"id":          id,
		"status":      string(status),
		"report_date": reportDate,
	})
	if err != nil {
		return fmt.Errorf("setting status of constituency %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NoRows("constituencies")
	}
	return nil
}

// UpsertMany inserts or updates constituencies by name in one transaction
// and reports how many rows were new.
func (r *ConstituencyRepository) UpsertMany(ctx context.Context, constituencies []model.Constituency) (inserted int, err error) {
	err = pgx.BeginFunc(ctx, r.server.DB.Pool, func(tx pgx.Tx) error {
		for _, c := range constituencies {
			var reportDate *time.Time
			if c.LastReportDate != nil {
				reportDate = &c.LastReportDate.Time
			}

			var isNew bool
			err := tx.QueryRow(ctx, `
				INSERT INTO constituencies (
					mp_name, constituency_name, state, transparency_status,
					last_report_date, mp_email, mp_image_url
				) VALUES (
					@mp_name, @constituency_name, @state, @status,
					@report_date, @mp_email, @mp_image_url
				)
				ON CONFLICT (constituency_name) DO UPDATE SET
					mp_name = EXCLUDED.mp_name,
					state = EXCLUDED.state,
					transparency_status = EXCLUDED.transparency_status,
					last_report_date = EXCLUDED.last_report_date,
					mp_email = EXCLUDED.mp_email,
					mp_image_url = EXCLUDED.mp_image_url
				RETURNING (xmax = 0)`, pgx.NamedArgs{
				"mp_name":           c.MPName,
				"constituency_name": c.ConstituencyName,
				"state":             c.State,
				"status":            string(c.TransparencyStatus),
				"report_date":       reportDate,
				"mp_email":          c.MPEmail,
				"mp_image_url":      c.MPImageURL,
			}).Scan(&isNew)
			if err != nil {
				return fmt.Errorf("upserting constituency %q: %w", c.ConstituencyName, err)
			}
			if isNew {
				inserted++
			}
		}
		return nil
	})
	return inserted, err
}
