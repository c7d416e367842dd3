package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlow-digital/atelier/internal/domain"
)

func TestApply_ValidTransition(t *testing.T) {
	res, err := Apply(DomainInvoice, string(domain.InvoiceDraft), string(domain.InvoiceSent), Context{})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, string(domain.InvoiceDraft), res.From)
	assert.Equal(t, string(domain.InvoiceSent), res.To)
	assert.Equal(t, "Status changed to Sent", res.Note)
	assert.False(t, res.At.IsZero())
}

func TestApply_SameStatusIsNoOp(t *testing.T) {
	res, err := Apply(DomainTask, string(domain.TaskInProgress), string(domain.TaskInProgress), Context{})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestApply_RejectsUnknownDomain(t *testing.T) {
	_, err := Apply(DomainID("payroll"), "A", "B", Context{})
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestApply_RejectsInvalidStatusOnUpdate(t *testing.T) {
	_, err := Apply(DomainTask, string(domain.TaskBacklog), "SHIPPED", Context{})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestApply_RejectsDisallowedTransition(t *testing.T) {
	_, err := Apply(DomainInvoice, string(domain.InvoicePaid), string(domain.InvoiceSent), Context{})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestApply_NoteGuard(t *testing.T) {
	_, err := Apply(DomainTask, string(domain.TaskInProgress), string(domain.TaskBlocked), Context{})
	assert.ErrorIs(t, err, ErrNoteRequired)

	res, err := Apply(DomainTask, string(domain.TaskInProgress), string(domain.TaskBlocked),
		Context{Note: "waiting on client credentials"})
	require.NoError(t, err)
	assert.Equal(t, "waiting on client credentials", res.Note)
}

func TestApply_NoteGuardRejectsWhitespaceOnly(t *testing.T) {
	_, err := Apply(DomainTask, string(domain.TaskInProgress), string(domain.TaskReadyForReview),
		Context{Note: "   \t"})
	assert.ErrorIs(t, err, ErrNoteRequired)
}

func TestApply_CreateSkipsAdjacency(t *testing.T) {
	res, err := Apply(DomainTask, "", string(domain.TaskDone), Context{Create: true})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, string(domain.TaskDone), res.To)
}

func TestApply_CreateFallsBackToInitialOnUnknownStatus(t *testing.T) {
	res, err := Apply(DomainTask, "", "NOT_A_STATUS", Context{Create: true})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, string(domain.TaskBacklog), res.To)
}

func TestApply_CreateStillEnforcesNoteGuard(t *testing.T) {
	_, err := Apply(DomainTask, "", string(domain.TaskBlocked), Context{Create: true})
	assert.ErrorIs(t, err, ErrNoteRequired)
}

func TestDefaultNote_UsesLabel(t *testing.T) {
	assert.Equal(t, "Status changed to In progress",
		DefaultNote(DomainTask, string(domain.TaskInProgress)))
	assert.Equal(t, "Status changed to SOMETHING", DefaultNote(DomainTask, "SOMETHING"))
}

func TestEventMessage(t *testing.T) {
	assert.Equal(t, "Invoice moved to Paid",
		EventMessage("invoice", DomainInvoice, string(domain.InvoicePaid)))
}
