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

const invoiceColumns = `id, invoice_number, amount_cents, status, issue_date, due_date,
		project_id, created_at, updated_at`

// SQLiteInvoiceRepo implements InvoiceRepo over a DBTX.
type SQLiteInvoiceRepo struct {
	conn db.DBTX
}

// NewSQLiteInvoiceRepo creates a new SQLiteInvoiceRepo.
func NewSQLiteInvoiceRepo(conn db.DBTX) *SQLiteInvoiceRepo {
	return &SQLiteInvoiceRepo{conn: conn}
}

func (r *SQLiteInvoiceRepo) Create(ctx context.Context, i *domain.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		i.ID,
		i.InvoiceNumber,
		i.AmountCents,
		string(i.Status),
		i.IssueDate.Format(dateLayout),
		i.DueDate.Format(dateLayout),
		i.ProjectID,
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("invoice number %q: %w", i.InvoiceNumber, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting invoice: %w", err)
	}
	return nil
}

func (r *SQLiteInvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	return r.scanInvoice(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteInvoiceRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE project_id = ? ORDER BY issue_date`
	return r.queryInvoices(ctx, query, projectID)
}

func (r *SQLiteInvoiceRepo) ListByStatus(ctx context.Context, status domain.InvoiceStatus) ([]*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = ? ORDER BY due_date`
	return r.queryInvoices(ctx, query, string(status))
}

func (r *SQLiteInvoiceRepo) Update(ctx context.Context, i *domain.Invoice) error {
	query := `UPDATE invoices SET invoice_number = ?, amount_cents = ?, status = ?,
		issue_date = ?, due_date = ?, updated_at = ? WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		i.InvoiceNumber,
		i.AmountCents,
		string(i.Status),
		i.IssueDate.Format(dateLayout),
		i.DueDate.Format(dateLayout),
		i.UpdatedAt.Format(time.RFC3339),
		i.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("invoice number %q: %w", i.InvoiceNumber, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}
	return nil
}

func (r *SQLiteInvoiceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}
	return nil
}

// CountByYear counts invoices issued in the given calendar year, used
// for sequential number suggestions.
func (r *SQLiteInvoiceRepo) CountByYear(ctx context.Context, year int) (int, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE issue_date >= ? AND issue_date < ?`
	start := fmt.Sprintf("%04d-01-01", year)
	end := fmt.Sprintf("%04d-01-01", year+1)
	var n int
	if err := r.conn.QueryRowContext(ctx, query, start, end).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting invoices: %w", err)
	}
	return n, nil
}

func (r *SQLiteInvoiceRepo) queryInvoices(ctx context.Context, query string, args ...any) ([]*domain.Invoice, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var out []*domain.Invoice
	for rows.Next() {
		i, err := r.scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *SQLiteInvoiceRepo) scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var i domain.Invoice
	var status, issueDate, dueDate, createdAt, updatedAt string

	err := row.Scan(&i.ID, &i.InvoiceNumber, &i.AmountCents, &status,
		&issueDate, &dueDate, &i.ProjectID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning invoice: %w", err)
	}

	i.Status = domain.InvoiceStatus(status)
	i.IssueDate, _ = time.Parse(dateLayout, issueDate)
	i.DueDate, _ = time.Parse(dateLayout, dueDate)
	i.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	i.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &i, nil
}
