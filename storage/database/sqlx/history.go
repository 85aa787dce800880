package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
)

// reportRow flattens a batch report for storage; row errors and scope failures
// land in JSONB columns.
type reportRow struct {
	ID            string          `db:"id"`
	Kind          string          `db:"kind"`
	Source        string          `db:"source"`
	Actor         string          `db:"actor"`
	Created       int             `db:"created"`
	Updated       int             `db:"updated"`
	Failed        int             `db:"failed"`
	Total         int             `db:"total"`
	Errors        json.RawMessage `db:"errors"`
	ScopeFailures json.RawMessage `db:"scope_failures"`
	Status        string          `db:"status"`
	Cancelled     bool            `db:"cancelled"`
	StartedAt     time.Time       `db:"started_at"`
	FinishedAt    time.Time       `db:"finished_at"`
}

type historyRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) importing.HistoryRepository {
	return &historyRepository{db: db}
}

func (repo *historyRepository) SaveReport(ctx context.Context, r *importing.Report) error {
	rowErrs, err := json.Marshal(r.Errors)
	if err != nil {
		return errors.Wrap(err, "encoding row errors")
	}
	scopeFails, err := json.Marshal(r.ScopeFailures)
	if err != nil {
		return errors.Wrap(err, "encoding scope failures")
	}

	row := reportRow{
		ID:            r.ID,
		Kind:          string(r.Kind),
		Source:        string(r.Source),
		Actor:         r.Actor,
		Created:       r.Created,
		Updated:       r.Updated,
		Failed:        r.Failed,
		Total:         r.Total,
		Errors:        rowErrs,
		ScopeFailures: scopeFails,
		Status:        string(r.Status),
		Cancelled:     r.Cancelled,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
	}
	q := `
	INSERT INTO import_report (
		id, kind, source, actor, created, updated, failed, total,
		errors, scope_failures, status, cancelled, started_at, finished_at
	) VALUES (
		:id, :kind, :source, :actor, :created, :updated, :failed, :total,
		:errors, :scope_failures, :status, :cancelled, :started_at, :finished_at
	)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "inserting import report")
	}
	return nil
}

func (repo *historyRepository) ListReports(ctx context.Context) ([]importing.Report, error) {
	var rows []reportRow
	q := `
	SELECT id, kind, source, actor, created, updated, failed, total,
	       errors, scope_failures, status, cancelled, started_at, finished_at
	FROM import_report
	ORDER BY started_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying import reports")
	}

	reports := make([]importing.Report, 0, len(rows))
	for _, row := range rows {
		r := importing.Report{
			ID:         row.ID,
			Kind:       importing.EntityKind(row.Kind),
			Source:     importing.SourceKind(row.Source),
			Actor:      row.Actor,
			Created:    row.Created,
			Updated:    row.Updated,
			Failed:     row.Failed,
			Total:      row.Total,
			Status:     importing.Status(row.Status),
			Cancelled:  row.Cancelled,
			StartedAt:  row.StartedAt,
			FinishedAt: row.FinishedAt,
		}
		if err := json.Unmarshal(row.Errors, &r.Errors); err != nil {
			return nil, errors.Wrap(err, "decoding row errors")
		}
		if err := json.Unmarshal(row.ScopeFailures, &r.ScopeFailures); err != nil {
			return nil, errors.Wrap(err, "decoding scope failures")
		}
		reports = append(reports, r)
	}
	return reports, nil
}
