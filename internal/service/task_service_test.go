package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/testutil"
	"github.com/harlow-digital/atelier/internal/workflow"
)

// seedProject stores a managed project for the given client, returning
// the project and its manager's identity.
func seedProject(t *testing.T, env *testEnv, clientID string) (*domain.Project, policy.Actor) {
	t.Helper()
	manager := env.seedStaff(t, "Petra Manager", domain.RoleProjectManager)
	project := testutil.NewTestProject("Brand refresh", clientID,
		testutil.WithProjectManager(manager.ID))
	require.NoError(t, env.projects.Create(context.Background(), project))
	return project, manager
}

func TestTaskCreate_RecordsCreationHistoryAndEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	task, err := svc.Create(ctx, manager, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Collect brand assets",
		Status:    string(domain.TaskInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)

	history, err := env.tasks.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "create", history[0].Context)
	assert.Equal(t, domain.TaskInProgress, history[0].ToStatus)

	events, err := env.events.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EntityTask, events[0].Entity)
	assert.Equal(t, task.ID, events[0].EntityID)
}

func TestTaskCreate_UnknownStatusFallsBackToBacklog(t *testing.T) {
	env := newTestEnv(t)
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	task, err := svc.Create(context.Background(), manager, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Untriaged idea",
		Status:    "SHIPPED",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskBacklog, task.Status)
}

func TestTaskCreate_BlockedRequiresNote(t *testing.T) {
	env := newTestEnv(t)
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	_, err := svc.Create(context.Background(), manager, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Waiting on client",
		Status:    string(domain.TaskBlocked),
	})
	require.ErrorIs(t, err, workflow.ErrNoteRequired)
	assert.Equal(t, 0, env.countRows(t, "tasks"))
}

func TestTaskCreate_ClientForbidden(t *testing.T) {
	env := newTestEnv(t)
	client, clientActor := env.seedClientAccount(t, "Acme")
	project, _ := seedProject(t, env, client.ID)

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	_, err := svc.Create(context.Background(), clientActor, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Client-made task",
	})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestTaskUpdate_StatusTransitionAppendsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	task := testutil.NewTestTask(project.ID, "Collect brand assets")
	require.NoError(t, env.tasks.Create(ctx, task))

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	review := string(domain.TaskReadyForReview)
	got, err := svc.Update(ctx, manager, task.ID, UpdateTaskInput{
		Status:         &review,
		TransitionNote: "logo concepts attached",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskReadyForReview, got.Status)

	history, err := env.tasks.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.TaskBacklog, history[0].FromStatus)
	assert.Equal(t, domain.TaskReadyForReview, history[0].ToStatus)
	assert.Equal(t, "logo concepts attached", history[0].Note)

	events, err := env.events.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestTaskUpdate_ReviewWithoutNoteRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	task := testutil.NewTestTask(project.ID, "Collect brand assets")
	require.NoError(t, env.tasks.Create(ctx, task))

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	review := string(domain.TaskReadyForReview)
	_, err := svc.Update(ctx, manager, task.ID, UpdateTaskInput{Status: &review})
	require.ErrorIs(t, err, workflow.ErrNoteRequired)

	unchanged, err := env.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskBacklog, unchanged.Status)
}

func TestTaskUpdate_SameStatusIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	task := testutil.NewTestTask(project.ID, "Collect brand assets")
	task.UpdatedAt = task.UpdatedAt.Add(-time.Hour)
	require.NoError(t, env.tasks.Create(ctx, task))

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	backlog := string(domain.TaskBacklog)
	got, err := svc.Update(ctx, manager, task.ID, UpdateTaskInput{Status: &backlog})
	require.NoError(t, err)
	assert.WithinDuration(t, task.UpdatedAt, got.UpdatedAt, time.Second)

	history, err := env.tasks.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTaskUpdate_DeferNoteKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	task := testutil.NewTestTask(project.ID, "Collect brand assets",
		testutil.WithTaskStatus(domain.TaskDone))
	require.NoError(t, env.tasks.Create(ctx, task))

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	got, err := svc.Update(ctx, manager, task.ID, UpdateTaskInput{
		DeferNote: "bill with the March retainer",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, got.Status)

	history, err := env.tasks.ListHistory(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.HistoryContextBillingDeferment, history[0].Context)
	assert.Equal(t, domain.TaskDone, history[0].FromStatus)
	assert.Equal(t, domain.TaskDone, history[0].ToStatus)
	assert.Equal(t, "bill with the March retainer", history[0].Note)
}

func TestTaskUpdate_FieldEditTouchesUpdatedAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	task := testutil.NewTestTask(project.ID, "Collect brand assets")
	task.UpdatedAt = task.UpdatedAt.Add(-time.Hour)
	require.NoError(t, env.tasks.Create(ctx, task))

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})
	title := "Collect brand assets and fonts"
	got, err := svc.Update(ctx, manager, task.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.True(t, got.UpdatedAt.After(task.UpdatedAt))
}

func TestTaskDelete_ScopedToManagerOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)
	developer := env.seedStaff(t, "Devin Developer", domain.RoleDeveloper)

	task := testutil.NewTestTask(project.ID, "Collect brand assets")
	require.NoError(t, env.tasks.Create(ctx, task))

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})

	err := svc.Delete(ctx, developer, task.ID)
	require.ErrorIs(t, err, policy.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, manager, task.ID))
	_, err = env.tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskHistory_HiddenFromForeignClients(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, owner := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)
	_, stranger := env.seedClientAccount(t, "Other Co")

	task := testutil.NewTestTask(project.ID, "Collect brand assets")
	require.NoError(t, env.tasks.Create(ctx, task))

	svc := NewTaskService(env.tasks, env.projects, env.uow, NoopUseCaseObserver{})

	_, err := svc.History(ctx, owner, task.ID)
	require.NoError(t, err)
	_, err = svc.History(ctx, manager, task.ID)
	require.NoError(t, err)

	_, err = svc.History(ctx, stranger, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
