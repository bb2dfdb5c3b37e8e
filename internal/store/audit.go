package store

import (
	"context"
	"fmt"
	"time"

	"submissionsbff/internal/utils"
	"submissionsbff/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditTableName = "protective_monitoring_events"

var auditTableColumns = utils.StructTagValues(types.ProtectiveMonitoringEvent{})

// auditTableDDL creates the table in the schema db.Connect puts on the search
// path.
const auditTableDDL = `
CREATE SCHEMA IF NOT EXISTS submissions_bff;

CREATE TABLE IF NOT EXISTS submissions_bff.protective_monitoring_events (
	id               TEXT PRIMARY KEY,
	session_id       TEXT NOT NULL,
	component        TEXT NOT NULL,
	pmc_code         TEXT NOT NULL,
	priority         SMALLINT NOT NULL,
	transaction_code TEXT NOT NULL,
	message          TEXT NOT NULL,
	additional_info  TEXT,
	user_id          TEXT,
	organisation_id  TEXT,
	submission_id    TEXT,
	file_id          TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS protective_monitoring_events_submission_id_idx
	ON submissions_bff.protective_monitoring_events (submission_id, created_at);`

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Migrate creates the audit table and its index when missing.
func (r *AuditRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, auditTableDDL); err != nil {
		return fmt.Errorf("create %s: %w", auditTableName, err)
	}
	return nil
}

// RecordEvent stores event, minting an id and timestamp when absent.
func (r *AuditRepository) RecordEvent(ctx context.Context, event types.ProtectiveMonitoringEvent) error {
	query, args, err := insertAuditEventQuery(event)
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	return nil
}

func (r *AuditRepository) EventsBySubmission(ctx context.Context, submissionID string) ([]*types.ProtectiveMonitoringEvent, error) {
	query, args, err := eventsBySubmissionQuery(submissionID)
	if err != nil {
		return nil, fmt.Errorf("build audit select: %w", err)
	}

	var events []*types.ProtectiveMonitoringEvent
	if err := pgxscan.Select(ctx, r.pool, &events, query, args...); err != nil {
		return nil, fmt.Errorf("select audit events: %w", err)
	}

	return events, nil
}

func insertAuditEventQuery(event types.ProtectiveMonitoringEvent) (string, []any, error) {
	if event.ID == "" {
		event.ID = utils.NanoID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	values := utils.StructToMap(event)
	for _, column := range []string{"additional_info", "user_id", "organisation_id", "submission_id", "file_id"} {
		values[column] = nullable(values[column].(string))
	}

	return psql().
		Insert(auditTableName).
		SetMap(values).
		ToSql()
}

func eventsBySubmissionQuery(submissionID string) (string, []any, error) {
	return psql().
		Select(auditTableColumns...).
		From(auditTableName).
		Where(sq.Eq{"submission_id": submissionID}).
		OrderBy("created_at ASC").
		ToSql()
}
