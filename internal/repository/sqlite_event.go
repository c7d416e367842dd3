package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/harlow-digital/atelier/internal/db"
	"github.com/harlow-digital/atelier/internal/domain"
)

const eventColumns = `id, entity, entity_id, project_id, actor_id, status, message, metadata, created_at`

// SQLiteEventRepo implements EventRepo over a DBTX. Append-only: no
// update or delete statements exist for workflow_events.
type SQLiteEventRepo struct {
	conn db.DBTX
}

// NewSQLiteEventRepo creates a new SQLiteEventRepo.
func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{conn: conn}
}

func (r *SQLiteEventRepo) Append(ctx context.Context, e *domain.WorkflowEvent) error {
	query := `INSERT INTO workflow_events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		e.ID,
		e.Entity,
		e.EntityID,
		e.ProjectID,
		e.ActorID,
		e.Status,
		e.Message,
		marshalJSON(e.Metadata, "{}"),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending workflow event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkflowEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM workflow_events
		WHERE project_id = ? ORDER BY created_at DESC, id`
	return r.queryEvents(ctx, query, projectID)
}

func (r *SQLiteEventRepo) ListByEntity(ctx context.Context, entity, entityID string) ([]*domain.WorkflowEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM workflow_events
		WHERE entity = ? AND entity_id = ? ORDER BY created_at DESC, id`
	return r.queryEvents(ctx, query, entity, entityID)
}

func (r *SQLiteEventRepo) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.WorkflowEvent, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing workflow events: %w", err)
	}
	defer rows.Close()

	var out []*domain.WorkflowEvent
	for rows.Next() {
		var e domain.WorkflowEvent
		var metadata, createdAt string
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.ProjectID,
			&e.ActorID, &e.Status, &e.Message, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning workflow event: %w", err)
		}
		e.Metadata = unmarshalMap(metadata)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, &e)
	}
	return out, rows.Err()
}
