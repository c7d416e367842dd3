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

func TestProjectUpdate_PhaseAdvancesAlongGraph(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, manager := seedProject(t, env, client.ID)

	svc := NewProjectService(env.projects, env.uow)

	delivery := string(domain.PhaseDelivery)
	got, err := svc.Update(ctx, manager, project.ID, UpdateProjectInput{WorkflowPhase: &delivery})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseDelivery, got.WorkflowPhase)
	require.NotNil(t, got.WorkflowPhaseUpdatedAt)

	events, err := env.events.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, delivery, events[0].Status)

	// Billing is only reachable through review.
	billing := string(domain.PhaseBilling)
	_, err = svc.Update(ctx, manager, project.ID, UpdateProjectInput{WorkflowPhase: &billing})
	assert.ErrorIs(t, err, workflow.ErrTransitionNotAllowed)
}

func TestProjectUpdate_SamePhaseIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	manager := env.seedStaff(t, "Petra Manager", domain.RoleProjectManager)
	project := testutil.NewTestProject("Brand refresh", client.ID,
		testutil.WithProjectManager(manager.ID))
	project.UpdatedAt = project.UpdatedAt.Add(-time.Hour)
	require.NoError(t, env.projects.Create(ctx, project))

	svc := NewProjectService(env.projects, env.uow)
	kickoff := string(domain.PhaseKickoff)
	got, err := svc.Update(ctx, manager, project.ID, UpdateProjectInput{WorkflowPhase: &kickoff})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseKickoff, got.WorkflowPhase)
	assert.Equal(t, 0, env.countRows(t, "workflow_events"))
	assert.WithinDuration(t, project.UpdatedAt, got.UpdatedAt, time.Second)

	stored, err := env.projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, project.UpdatedAt, stored.UpdatedAt, time.Second)
}

func TestProjectUpdate_ForeignManagerForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, _ := env.seedClientAccount(t, "Acme")
	project, _ := seedProject(t, env, client.ID)
	otherManager := env.seedStaff(t, "Morgan Manager", domain.RoleProjectManager)

	svc := NewProjectService(env.projects, env.uow)
	name := "Renamed engagement"
	_, err := svc.Update(ctx, otherManager, project.ID, UpdateProjectInput{Name: &name})
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestProjectList_ScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedStaff(t, "Ada Admin", domain.RoleAdmin)
	acme, acmeActor := env.seedClientAccount(t, "Acme")
	other, _ := env.seedClientAccount(t, "Other Co")

	mine, manager := seedProject(t, env, acme.ID)
	foreign := testutil.NewTestProject("Other build", other.ID)
	require.NoError(t, env.projects.Create(ctx, foreign))

	svc := NewProjectService(env.projects, env.uow)

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	managed, err := svc.List(ctx, manager)
	require.NoError(t, err)
	require.Len(t, managed, 1)
	assert.Equal(t, mine.ID, managed[0].ID)

	owned, err := svc.List(ctx, acmeActor)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, acme.ID, owned[0].ClientID)
}

func TestProjectGetByID_HiddenFromForeignClients(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	client, owner := env.seedClientAccount(t, "Acme")
	project, _ := seedProject(t, env, client.ID)
	_, stranger := env.seedClientAccount(t, "Other Co")

	svc := NewProjectService(env.projects, env.uow)

	got, err := svc.GetByID(ctx, owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = svc.GetByID(ctx, stranger, project.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
