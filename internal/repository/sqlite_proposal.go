package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harlow-digital/atelier/internal/db"
	"github.com/harlow-digital/atelier/internal/domain"
)

const proposalColumns = `id, status, summary, line_items, selected_modules,
		estimated_hours, estimate_cents, sent_at, client_approved_at, client_declined_at,
		approval_notes, intake_id, project_id, created_at, updated_at`

// SQLiteProposalRepo implements ProposalRepo over a DBTX.
type SQLiteProposalRepo struct {
	conn db.DBTX
}

// NewSQLiteProposalRepo creates a new SQLiteProposalRepo.
func NewSQLiteProposalRepo(conn db.DBTX) *SQLiteProposalRepo {
	return &SQLiteProposalRepo{conn: conn}
}

func (r *SQLiteProposalRepo) Create(ctx context.Context, p *domain.Proposal) error {
	query := `INSERT INTO proposals (` + proposalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		p.ID,
		string(p.Status),
		p.Summary,
		marshalJSON(p.LineItems, "[]"),
		marshalJSON(p.SelectedModules, "[]"),
		p.EstimatedHours,
		p.EstimateCents,
		nullableTimeToString(p.SentAt, time.RFC3339),
		nullableTimeToString(p.ClientApprovedAt, time.RFC3339),
		nullableTimeToString(p.ClientDeclinedAt, time.RFC3339),
		p.ApprovalNotes,
		p.IntakeID,
		nullableString(p.ProjectID),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}
	return nil
}

func (r *SQLiteProposalRepo) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = ?`
	return r.scanProposal(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteProposalRepo) ListByIntake(ctx context.Context, intakeID string) ([]*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE intake_id = ? ORDER BY created_at`
	return r.queryProposals(ctx, query, intakeID)
}

func (r *SQLiteProposalRepo) ListByStatus(ctx context.Context, status domain.ProposalStatus) ([]*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE status = ? ORDER BY created_at`
	return r.queryProposals(ctx, query, string(status))
}

func (r *SQLiteProposalRepo) Update(ctx context.Context, p *domain.Proposal) error {
	query := `UPDATE proposals SET status = ?, summary = ?, line_items = ?, selected_modules = ?,
		estimated_hours = ?, estimate_cents = ?, sent_at = ?, client_approved_at = ?,
		client_declined_at = ?, approval_notes = ?, project_id = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		string(p.Status),
		p.Summary,
		marshalJSON(p.LineItems, "[]"),
		marshalJSON(p.SelectedModules, "[]"),
		p.EstimatedHours,
		p.EstimateCents,
		nullableTimeToString(p.SentAt, time.RFC3339),
		nullableTimeToString(p.ClientApprovedAt, time.RFC3339),
		nullableTimeToString(p.ClientDeclinedAt, time.RFC3339),
		p.ApprovalNotes,
		nullableString(p.ProjectID),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating proposal: %w", err)
	}
	return nil
}

func (r *SQLiteProposalRepo) queryProposals(ctx context.Context, query string, args ...any) ([]*domain.Proposal, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var out []*domain.Proposal
	for rows.Next() {
		p, err := r.scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteProposalRepo) scanProposal(row rowScanner) (*domain.Proposal, error) {
	var p domain.Proposal
	var status, lineItems, modules string
	var sentAt, approvedAt, declinedAt, projectID sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &status, &p.Summary, &lineItems, &modules,
		&p.EstimatedHours, &p.EstimateCents, &sentAt, &approvedAt, &declinedAt,
		&p.ApprovalNotes, &p.IntakeID, &projectID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("proposal: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}

	p.Status = domain.ProposalStatus(status)
	if lineItems != "" {
		if err := json.Unmarshal([]byte(lineItems), &p.LineItems); err != nil {
			return nil, fmt.Errorf("decoding proposal line items: %w", err)
		}
	}
	p.SelectedModules = unmarshalStrings(modules)
	p.SentAt = parseNullableTime(sentAt, time.RFC3339)
	p.ClientApprovedAt = parseNullableTime(approvedAt, time.RFC3339)
	p.ClientDeclinedAt = parseNullableTime(declinedAt, time.RFC3339)
	p.ProjectID = stringPtr(projectID)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}
