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

const clientColumns = `id, company_name, contact_name, email, phone, website, notes, user_id, created_at, updated_at`

// SQLiteClientRepo implements ClientRepo over a DBTX.
type SQLiteClientRepo struct {
	conn db.DBTX
}

// NewSQLiteClientRepo creates a new SQLiteClientRepo.
func NewSQLiteClientRepo(conn db.DBTX) *SQLiteClientRepo {
	return &SQLiteClientRepo{conn: conn}
}

func (r *SQLiteClientRepo) Create(ctx context.Context, c *domain.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		c.ID,
		c.CompanyName,
		c.ContactName,
		c.Email,
		c.Phone,
		c.Website,
		c.Notes,
		nullableString(c.UserID),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("client email %q: %w", c.Email, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`
	return r.scanClient(r.conn.QueryRowContext(ctx, query, id))
}

func (r *SQLiteClientRepo) GetByUserID(ctx context.Context, userID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = ?`
	return r.scanClient(r.conn.QueryRowContext(ctx, query, userID))
}

func (r *SQLiteClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY company_name`
	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var out []*domain.Client
	for rows.Next() {
		c, err := r.scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteClientRepo) Update(ctx context.Context, c *domain.Client) error {
	query := `UPDATE clients SET company_name = ?, contact_name = ?, email = ?, phone = ?,
		website = ?, notes = ?, user_id = ?, updated_at = ? WHERE id = ?`
	_, err := r.conn.ExecContext(ctx, query,
		c.CompanyName,
		c.ContactName,
		c.Email,
		c.Phone,
		c.Website,
		c.Notes,
		nullableString(c.UserID),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("client email %q: %w", c.Email, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var userID sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.CompanyName, &c.ContactName, &c.Email, &c.Phone,
		&c.Website, &c.Notes, &userID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning client: %w", err)
	}
	c.UserID = stringPtr(userID)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &c, nil
}
