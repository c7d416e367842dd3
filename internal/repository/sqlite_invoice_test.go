package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/testutil"
)

func setupInvoiceRepo(t *testing.T) (*SQLiteInvoiceRepo, *domain.Project) {
	t.Helper()
	database := testutil.NewTestDB(t)
	clients := NewSQLiteClientRepo(database)
	projects := NewSQLiteProjectRepo(database)

	ctx := context.Background()
	client := testutil.NewTestClient("Acme")
	require.NoError(t, clients.Create(ctx, client))
	project := testutil.NewTestProject("Site", client.ID)
	require.NoError(t, projects.Create(ctx, project))

	return NewSQLiteInvoiceRepo(database), project
}

func TestInvoiceRepo_CreateAndGet(t *testing.T) {
	repo, project := setupInvoiceRepo(t)
	ctx := context.Background()

	inv := testutil.NewTestInvoice(project.ID)
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(t, inv.AmountCents, got.AmountCents)
	assert.Equal(t, domain.InvoiceDraft, got.Status)
	assert.Equal(t, inv.IssueDate.Format("2006-01-02"), got.IssueDate.Format("2006-01-02"))
}

func TestInvoiceRepo_GetMissingReturnsNotFound(t *testing.T) {
	repo, _ := setupInvoiceRepo(t)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvoiceRepo_DuplicateNumberIsConflict(t *testing.T) {
	repo, project := setupInvoiceRepo(t)
	ctx := context.Background()

	first := testutil.NewTestInvoice(project.ID)
	require.NoError(t, repo.Create(ctx, first))

	dup := testutil.NewTestInvoice(project.ID)
	dup.InvoiceNumber = first.InvoiceNumber
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestInvoiceRepo_ListByStatus(t *testing.T) {
	repo, project := setupInvoiceRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestInvoice(project.ID)))
	sent := testutil.NewTestInvoice(project.ID, testutil.WithInvoiceStatus(domain.InvoiceSent))
	require.NoError(t, repo.Create(ctx, sent))

	got, err := repo.ListByStatus(ctx, domain.InvoiceSent)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sent.ID, got[0].ID)
}

func TestInvoiceRepo_CountByYear(t *testing.T) {
	repo, project := setupInvoiceRepo(t)
	ctx := context.Background()

	year := time.Now().UTC().Year()
	mid := time.Date(year, time.June, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		inv := testutil.NewTestInvoice(project.ID)
		inv.IssueDate = mid
		inv.DueDate = mid.AddDate(0, 1, 0)
		require.NoError(t, repo.Create(ctx, inv))
	}

	n, err := repo.CountByYear(ctx, year)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountByYear(ctx, year-1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInvoiceRepo_Delete(t *testing.T) {
	repo, project := setupInvoiceRepo(t)
	ctx := context.Background()

	inv := testutil.NewTestInvoice(project.ID)
	require.NoError(t, repo.Create(ctx, inv))
	require.NoError(t, repo.Delete(ctx, inv.ID))

	_, err := repo.GetByID(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
