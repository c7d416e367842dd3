package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/testutil"
)

func setupTaskRepo(t *testing.T) (*SQLiteTaskRepo, *domain.Project) {
	t.Helper()
	database := testutil.NewTestDB(t)
	clients := NewSQLiteClientRepo(database)
	projects := NewSQLiteProjectRepo(database)

	ctx := context.Background()
	client := testutil.NewTestClient("Acme")
	require.NoError(t, clients.Create(ctx, client))
	project := testutil.NewTestProject("Site", client.ID)
	require.NoError(t, projects.Create(ctx, project))

	return NewSQLiteTaskRepo(database), project
}

func TestTaskRepo_CreateAndGet(t *testing.T) {
	repo, project := setupTaskRepo(t)
	ctx := context.Background()

	task := testutil.NewTestTask(project.ID, "Design homepage",
		testutil.WithDeliverable("homepage"))
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design homepage", got.Title)
	assert.Equal(t, domain.TaskBacklog, got.Status)
	assert.True(t, got.IsDeliverable)
	assert.Equal(t, "homepage", got.DeliverableKey)
	assert.Nil(t, got.DueDate)
}

func TestTaskRepo_Update(t *testing.T) {
	repo, project := setupTaskRepo(t)
	ctx := context.Background()

	task := testutil.NewTestTask(project.ID, "Build")
	require.NoError(t, repo.Create(ctx, task))

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	task.Status = domain.TaskInProgress
	task.DueDate = &due
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, got.Status)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-10-01", got.DueDate.Format("2006-01-02"))
}

func TestTaskRepo_HistoryOrderedByCreation(t *testing.T) {
	repo, project := setupTaskRepo(t)
	ctx := context.Background()

	task := testutil.NewTestTask(project.ID, "Build")
	require.NoError(t, repo.Create(ctx, task))

	base := time.Now().UTC()
	entries := []*domain.TaskHistoryEntry{
		{
			ID: uuid.New().String(), TaskID: task.ID,
			FromStatus: domain.TaskBacklog, ToStatus: domain.TaskInProgress,
			Note: "picked up", ActorID: "u1", CreatedAt: base,
		},
		{
			ID: uuid.New().String(), TaskID: task.ID,
			FromStatus: domain.TaskInProgress, ToStatus: domain.TaskBlocked,
			Note: "waiting on assets", ActorID: "u1", CreatedAt: base.Add(time.Second),
		},
	}
	for _, e := range entries {
		require.NoError(t, repo.AppendHistory(ctx, e))
	}

	got, err := repo.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.TaskInProgress, got[0].ToStatus)
	assert.Equal(t, domain.TaskBlocked, got[1].ToStatus)
	assert.Equal(t, "waiting on assets", got[1].Note)
}

func TestTaskRepo_DeleteCascadesHistory(t *testing.T) {
	repo, project := setupTaskRepo(t)
	ctx := context.Background()

	task := testutil.NewTestTask(project.ID, "Temp")
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.AppendHistory(ctx, &domain.TaskHistoryEntry{
		ID: uuid.New().String(), TaskID: task.ID,
		FromStatus: domain.TaskBacklog, ToStatus: domain.TaskBacklog,
		Note: "created", ActorID: "u1", CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := repo.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
