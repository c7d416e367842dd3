package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlow-digital/atelier/internal/domain"
)

func TestDefinitions_EveryTransitionTargetIsEnumerated(t *testing.T) {
	for _, d := range Domains() {
		def, ok := Get(d)
		require.True(t, ok)
		for _, s := range def.States {
			for _, tr := range s.Transitions {
				assert.True(t, StateExists(d, tr.To),
					"domain %s state %s declares transition to unknown state %s", d, s.ID, tr.To)
			}
		}
	}
}

func TestDefinitions_InitialStateIsEnumerated(t *testing.T) {
	for _, d := range Domains() {
		assert.True(t, StateExists(d, Initial(d)), "domain %s initial state missing", d)
	}
}

func TestDefinitions_RequiresNoteStatesExist(t *testing.T) {
	for _, d := range Domains() {
		def, _ := Get(d)
		for status := range def.RequiresNote {
			assert.True(t, StateExists(d, status),
				"domain %s requires-note status %s is not enumerated", d, status)
		}
	}
}

func TestInvoiceTransitionMatrix(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{string(domain.InvoiceDraft), string(domain.InvoiceSent), true},
		{string(domain.InvoiceSent), string(domain.InvoicePaid), true},
		{string(domain.InvoiceSent), string(domain.InvoiceOverdue), true},
		{string(domain.InvoiceOverdue), string(domain.InvoicePaid), true},
		{string(domain.InvoiceDraft), string(domain.InvoicePaid), false},
		{string(domain.InvoicePaid), string(domain.InvoiceSent), false},
		{string(domain.InvoicePaid), string(domain.InvoiceDraft), false},
		{string(domain.InvoiceOverdue), string(domain.InvoiceDraft), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, Allowed(DomainInvoice, tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTaskDomainIsFree(t *testing.T) {
	def, ok := Get(DomainTask)
	require.True(t, ok)
	assert.True(t, def.Free)

	// Any enumerated pair is reachable, including "backwards" moves.
	assert.True(t, Allowed(DomainTask, string(domain.TaskDone), string(domain.TaskBacklog)))
	assert.True(t, Allowed(DomainTask, string(domain.TaskBacklog), string(domain.TaskClientApproved)))

	// Unenumerated states are still rejected.
	assert.False(t, Allowed(DomainTask, string(domain.TaskBacklog), "SHIPPED"))
}

func TestNoteRequired(t *testing.T) {
	assert.True(t, NoteRequired(DomainTask, string(domain.TaskReadyForReview)))
	assert.True(t, NoteRequired(DomainTask, string(domain.TaskClientApproved)))
	assert.True(t, NoteRequired(DomainTask, string(domain.TaskBlocked)))
	assert.False(t, NoteRequired(DomainTask, string(domain.TaskDone)))
	assert.False(t, NoteRequired(DomainIntake, string(domain.IntakeArchived)))
}

func TestTerminalStatesHaveNoTransitions(t *testing.T) {
	assert.Empty(t, TransitionsFrom(DomainIntake, string(domain.IntakeArchived)))
	assert.Empty(t, TransitionsFrom(DomainProposal, string(domain.ProposalApproved)))
	assert.Empty(t, TransitionsFrom(DomainProjectPhase, string(domain.PhaseArchived)))
	assert.Empty(t, TransitionsFrom(DomainInvoice, string(domain.InvoicePaid)))
}

func TestChecklist(t *testing.T) {
	kickoff := Checklist(DomainProjectPhase, string(domain.PhaseKickoff))
	require.NotEmpty(t, kickoff)
	assert.Contains(t, kickoff[0], "kickoff")

	assert.Nil(t, Checklist(DomainTask, string(domain.TaskDone)))
	assert.Nil(t, Checklist(DomainTask, "UNKNOWN"))
}
