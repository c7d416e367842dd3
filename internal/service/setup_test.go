package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harlow-digital/atelier/internal/db"
	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/testutil"
)

// testEnv bundles the repositories and unit of work every service test
// needs, all backed by one in-memory database.
type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	users     repository.UserRepo
	clients   repository.ClientRepo
	intakes   repository.IntakeRepo
	proposals repository.ProposalRepo
	projects  repository.ProjectRepo
	tasks     repository.TaskRepo
	invoices  repository.InvoiceRepo
	events    repository.EventRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		users:     repository.NewSQLiteUserRepo(database),
		clients:   repository.NewSQLiteClientRepo(database),
		intakes:   repository.NewSQLiteIntakeRepo(database),
		proposals: repository.NewSQLiteProposalRepo(database),
		projects:  repository.NewSQLiteProjectRepo(database),
		tasks:     repository.NewSQLiteTaskRepo(database),
		invoices:  repository.NewSQLiteInvoiceRepo(database),
		events:    repository.NewSQLiteEventRepo(database),
	}
}

// seedClientAccount creates a client record plus the portal login that
// owns it, returning the client and its acting identity.
func (e *testEnv) seedClientAccount(t *testing.T, company string) (*domain.Client, policy.Actor) {
	t.Helper()
	ctx := context.Background()

	user := testutil.NewTestUser("Client User", testutil.WithRole(domain.RoleClient))
	require.NoError(t, e.users.Create(ctx, user))

	client := testutil.NewTestClient(company, testutil.WithClientUserID(user.ID))
	require.NoError(t, e.clients.Create(ctx, client))

	return client, policy.Actor{ID: user.ID, Role: domain.RoleClient, ClientID: client.ID}
}

func (e *testEnv) seedStaff(t *testing.T, name string, role domain.Role) policy.Actor {
	t.Helper()
	user := testutil.NewTestUser(name, testutil.WithRole(role))
	require.NoError(t, e.users.Create(context.Background(), user))
	return policy.Actor{ID: user.ID, Role: role}
}

func (e *testEnv) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
