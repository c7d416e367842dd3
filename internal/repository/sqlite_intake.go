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

const intakeColumns = `id, status, form_data, summary, priority, submitted_at,
		assigned_admin_id, approved_for_estimate_at, returned_for_info_at, client_decision_at,
		client_id, project_id, checklist, notes, created_at, updated_at`

// SQLiteIntakeRepo implements IntakeRepo over a DBTX.
type SQLiteIntakeRepo struct {
	conn db.DBTX
}

// NewSQLiteIntakeRepo creates a new SQLiteIntakeRepo.
func NewSQLiteIntakeRepo(conn db.DBTX) *SQLiteIntakeRepo {
	return &SQLiteIntakeRepo{conn: conn}
}

func (r *SQLiteIntakeRepo) Create(ctx context.Context, i *domain.Intake) error {
	query := `INSERT INTO intakes (` + intakeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		i.ID,
		string(i.Status),
		marshalJSON(i.FormData, "{}"),
		i.Summary,
		string(i.Priority),
		i.SubmittedAt.Format(time.RFC3339),
		nullableString(i.AssignedAdminID),
		nullableTimeToString(i.ApprovedForEstimateAt, time.RFC3339),
		nullableTimeToString(i.ReturnedForInfoAt, time.RFC3339),
		nullableTimeToString(i.ClientDecisionAt, time.RFC3339),
		i.ClientID,
		nullableString(i.ProjectID),
		marshalJSON(i.Checklist, "{}"),
		i.Notes,
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting intake: %w", err)
	}
	return nil
}

func (r *SQLiteIntakeRepo) GetByID(ctx context.Context, id string) (*domain.Intake, error) {
	query := `SELECT ` + intakeColumns + ` FROM intakes WHERE id = ?`
	return r.scanIntake(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteIntakeRepo) List(ctx context.Context) ([]*domain.Intake, error) {
	query := `SELECT ` + intakeColumns + ` FROM intakes ORDER BY submitted_at DESC`
	return r.queryIntakes(ctx, query)
}

func (r *SQLiteIntakeRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.Intake, error) {
	query := `SELECT ` + intakeColumns + ` FROM intakes WHERE client_id = ? ORDER BY submitted_at DESC`
	return r.queryIntakes(ctx, query, clientID)
}

func (r *SQLiteIntakeRepo) ListByStatus(ctx context.Context, status domain.IntakeStatus) ([]*domain.Intake, error) {
	query := `SELECT ` + intakeColumns + ` FROM intakes WHERE status = ? ORDER BY submitted_at DESC`
	return r.queryIntakes(ctx, query, string(status))
}

func (r *SQLiteIntakeRepo) Update(ctx context.Context, i *domain.Intake) error {
	query := `UPDATE intakes SET status = ?, form_data = ?, summary = ?, priority = ?,
		assigned_admin_id = ?, approved_for_estimate_at = ?, returned_for_info_at = ?,
		client_decision_at = ?, project_id = ?, checklist = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		string(i.Status),
		marshalJSON(i.FormData, "{}"),
		i.Summary,
		string(i.Priority),
		nullableString(i.AssignedAdminID),
		nullableTimeToString(i.ApprovedForEstimateAt, time.RFC3339),
		nullableTimeToString(i.ReturnedForInfoAt, time.RFC3339),
		nullableTimeToString(i.ClientDecisionAt, time.RFC3339),
		nullableString(i.ProjectID),
		marshalJSON(i.Checklist, "{}"),
		i.Notes,
		i.UpdatedAt.Format(time.RFC3339),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating intake: %w", err)
	}
	return nil
}

func (r *SQLiteIntakeRepo) queryIntakes(ctx context.Context, query string, args ...any) ([]*domain.Intake, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing intakes: %w", err)
	}
	defer rows.Close()

	var out []*domain.Intake
	for rows.Next() {
		i, err := r.scanIntake(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *SQLiteIntakeRepo) scanIntake(row rowScanner) (*domain.Intake, error) {
	var i domain.Intake
	var status, formData, priority, checklist string
	var submittedAt, createdAt, updatedAt string
	var assignedAdminID, projectID sql.NullString
	var approvedAt, returnedAt, decisionAt sql.NullString

	err := row.Scan(&i.ID, &status, &formData, &i.Summary, &priority, &submittedAt,
		&assignedAdminID, &approvedAt, &returnedAt, &decisionAt,
		&i.ClientID, &projectID, &checklist, &i.Notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("intake: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning intake: %w", err)
	}

	i.Status = domain.IntakeStatus(status)
	i.FormData = unmarshalMap(formData)
	i.Priority = domain.TaskPriority(priority)
	i.SubmittedAt, _ = time.Parse(time.RFC3339, submittedAt)
	i.AssignedAdminID = stringPtr(assignedAdminID)
	i.ApprovedForEstimateAt = parseNullableTime(approvedAt, time.RFC3339)
	i.ReturnedForInfoAt = parseNullableTime(returnedAt, time.RFC3339)
	i.ClientDecisionAt = parseNullableTime(decisionAt, time.RFC3339)
	i.ProjectID = stringPtr(projectID)
	i.Checklist = unmarshalBoolMap(checklist)
	i.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	i.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &i, nil
}
