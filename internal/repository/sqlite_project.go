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

const projectColumns = `id, name, status, workflow_phase, workflow_phase_updated_at,
		intake_status, client_id, project_manager_id, start_date, end_date,
		workflow_metadata, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo over a DBTX.
type SQLiteProjectRepo struct {
	conn db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{conn: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		p.ID,
		p.Name,
		string(p.Status),
		string(p.WorkflowPhase),
		nullableTimeToString(p.WorkflowPhaseUpdatedAt, time.RFC3339),
		string(p.IntakeStatus),
		p.ClientID,
		nullableString(p.ProjectManagerID),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		marshalJSON(p.WorkflowMetadata, "{}"),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return r.scanProject(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	return r.queryProjects(ctx, query)
}

func (r *SQLiteProjectRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE client_id = ? ORDER BY created_at DESC`
	return r.queryProjects(ctx, query, clientID)
}

func (r *SQLiteProjectRepo) ListByManager(ctx context.Context, managerID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_manager_id = ? ORDER BY created_at DESC`
	return r.queryProjects(ctx, query, managerID)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, status = ?, workflow_phase = ?,
		workflow_phase_updated_at = ?, intake_status = ?, project_manager_id = ?,
		start_date = ?, end_date = ?, workflow_metadata = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		p.Name,
		string(p.Status),
		string(p.WorkflowPhase),
		nullableTimeToString(p.WorkflowPhaseUpdatedAt, time.RFC3339),
		string(p.IntakeStatus),
		nullableString(p.ProjectManagerID),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		marshalJSON(p.WorkflowMetadata, "{}"),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) queryProjects(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := r.scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteProjectRepo) scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var status, phase, intakeStatus, metadata string
	var phaseUpdatedAt, managerID, startDate, endDate sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Name, &status, &phase, &phaseUpdatedAt,
		&intakeStatus, &p.ClientID, &managerID, &startDate, &endDate,
		&metadata, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Status = domain.ProjectStatus(status)
	p.WorkflowPhase = domain.ProjectPhase(phase)
	p.WorkflowPhaseUpdatedAt = parseNullableTime(phaseUpdatedAt, time.RFC3339)
	p.IntakeStatus = domain.IntakeStatus(intakeStatus)
	p.ProjectManagerID = stringPtr(managerID)
	p.StartDate = parseNullableTime(startDate, dateLayout)
	p.EndDate = parseNullableTime(endDate, dateLayout)
	p.WorkflowMetadata = unmarshalMap(metadata)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}
