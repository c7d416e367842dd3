package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harlow-digital/atelier/internal/domain"
)

var (
	admin     = Actor{ID: "u-admin", Role: domain.RoleAdmin}
	manager   = Actor{ID: "u-pm", Role: domain.RoleProjectManager}
	developer = Actor{ID: "u-dev", Role: domain.RoleDeveloper}
	client    = Actor{ID: "u-client", Role: domain.RoleClient, ClientID: "c-1"}
)

func TestClientCanSubmitIntake(t *testing.T) {
	assert.True(t, Can(client, ActionSubmitIntake, OwnerRefs{}))
}

func TestClientOwnershipGatesViews(t *testing.T) {
	own := OwnerRefs{ClientID: "c-1"}
	other := OwnerRefs{ClientID: "c-2"}

	for _, action := range []Action{
		ActionViewIntake, ActionViewProposal, ActionViewProject,
		ActionViewTask, ActionViewInvoice, ActionViewEvents,
	} {
		assert.True(t, Can(client, action, own), "%s on own resource", action)
		assert.False(t, Can(client, action, other), "%s on foreign resource", action)
	}
}

func TestClientNeverMutatesDirectly(t *testing.T) {
	own := OwnerRefs{ClientID: "c-1"}
	for _, action := range []Action{
		ActionUpdateIntake, ActionCreateProposal, ActionUpdateProposal,
		ActionUpdateProject, ActionCreateTask, ActionUpdateTask,
		ActionDeleteTask, ActionCreateInvoice, ActionUpdateInvoice,
		ActionDeleteInvoice, ActionManageClients,
	} {
		assert.False(t, Can(client, action, own), "client must not %s", action)
	}
}

func TestOnlyOwningClientResponds(t *testing.T) {
	assert.True(t, Can(client, ActionRespondProposal, OwnerRefs{ClientID: "c-1"}))
	assert.False(t, Can(client, ActionRespondProposal, OwnerRefs{ClientID: "c-2"}))

	// Staff can never answer on the client's behalf.
	assert.False(t, Can(admin, ActionRespondProposal, OwnerRefs{ClientID: "c-1"}))
	assert.False(t, Can(manager, ActionRespondProposal, OwnerRefs{ClientID: "c-1"}))
}

func TestTaskDeletionRestrictedToManagerOrAdmin(t *testing.T) {
	managed := OwnerRefs{ProjectManagerID: manager.ID}
	foreign := OwnerRefs{ProjectManagerID: "someone-else"}

	assert.True(t, Can(admin, ActionDeleteTask, foreign))
	assert.True(t, Can(manager, ActionDeleteTask, managed))
	assert.False(t, Can(manager, ActionDeleteTask, foreign))
	assert.False(t, Can(developer, ActionDeleteTask, foreign))
}

func TestProjectAndInvoiceMutationScopedToManager(t *testing.T) {
	managed := OwnerRefs{ProjectManagerID: manager.ID}
	foreign := OwnerRefs{ProjectManagerID: "someone-else"}

	for _, action := range []Action{ActionUpdateProject, ActionUpdateInvoice, ActionDeleteInvoice} {
		assert.True(t, Can(admin, action, foreign), "%s as admin", action)
		assert.True(t, Can(manager, action, managed), "%s as owning manager", action)
		assert.False(t, Can(manager, action, foreign), "%s as foreign manager", action)
	}
}

func TestStaffDefaultAllow(t *testing.T) {
	for _, actor := range []Actor{admin, manager, developer} {
		assert.True(t, Can(actor, ActionCreateProposal, OwnerRefs{}))
		assert.True(t, Can(actor, ActionUpdateIntake, OwnerRefs{}))
		assert.True(t, Can(actor, ActionCreateTask, OwnerRefs{}))
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	ghost := Actor{ID: "u-x", Role: domain.Role("CONTRACTOR")}
	assert.False(t, Can(ghost, ActionViewProject, OwnerRefs{}))
}

func TestRequireWrapsDenial(t *testing.T) {
	err := Require(client, ActionDeleteTask, OwnerRefs{ClientID: "c-1"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, Require(admin, ActionDeleteTask, OwnerRefs{}))
}
