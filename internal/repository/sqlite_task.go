package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harlow-digital/atelier/internal/db"
	"github.com/harlow-digital/atelier/internal/domain"
)

const taskColumns = `id, project_id, title, description, status, priority,
		due_date, assignee_id, is_deliverable, deliverable_key, created_at, updated_at`

const taskHistoryColumns = `id, task_id, from_status, to_status, note, actor_id, context, created_at`

// SQLiteTaskRepo implements TaskRepo over a DBTX.
type SQLiteTaskRepo struct {
	conn db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{conn: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableString(t.AssigneeID),
		boolToInt(t.IsDeliverable),
		t.DeliverableKey,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return r.scanTask(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY created_at`
	rows, err := r.conn.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
		due_date = ?, assignee_id = ?, is_deliverable = ?, deliverable_key = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableTimeToString(t.DueDate, dateLayout),
		nullableString(t.AssigneeID),
		boolToInt(t.IsDeliverable),
		t.DeliverableKey,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	// History rows cascade with the task.
	_, err := r.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) AppendHistory(ctx context.Context, e *domain.TaskHistoryEntry) error {
	query := `INSERT INTO task_status_history (` + taskHistoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		e.ID,
		e.TaskID,
		string(e.FromStatus),
		string(e.ToStatus),
		e.Note,
		e.ActorID,
		e.Context,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending task history: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) ListHistory(ctx context.Context, taskID string) ([]*domain.TaskHistoryEntry, error) {
	query := `SELECT ` + taskHistoryColumns + ` FROM task_status_history
		WHERE task_id = ? ORDER BY created_at, id`
	rows, err := r.conn.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing task history: %w", err)
	}
	defer rows.Close()

	var out []*domain.TaskHistoryEntry
	for rows.Next() {
		var e domain.TaskHistoryEntry
		var fromStatus, toStatus, createdAt string
		if err := rows.Scan(&e.ID, &e.TaskID, &fromStatus, &toStatus,
			&e.Note, &e.ActorID, &e.Context, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning task history: %w", err)
		}
		e.FromStatus = domain.TaskStatus(fromStatus)
		e.ToStatus = domain.TaskStatus(toStatus)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *SQLiteTaskRepo) scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status, priority string
	var dueDate, assigneeID sql.NullString
	var isDeliverable int
	var createdAt, updatedAt string

	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status, &priority,
		&dueDate, &assigneeID, &isDeliverable, &t.DeliverableKey, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.DueDate = parseNullableTime(dueDate, dateLayout)
	t.AssigneeID = stringPtr(assigneeID)
	t.IsDeliverable = intToBool(isDeliverable)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &t, nil
}
