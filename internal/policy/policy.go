// Package policy gates every mutating operation by role and ownership.
// It is a pure predicate over (actor, action, owner refs) so the rules
// are testable without any entity plumbing. Role and ownership are
// resolved fresh per request; nothing here is cached.
package policy

import (
	"errors"

	"github.com/harlow-digital/atelier/internal/domain"
)

// ErrForbidden is returned when the actor lacks role or ownership for
// the action. It is surfaced as-is and never retried.
var ErrForbidden = errors.New("forbidden")

// Actor is the resolved identity for one request.
type Actor struct {
	ID   string
	Role domain.Role

	// ClientID is the client account owned by this actor's login, empty
	// for staff.
	ClientID string
}

// Action names one gated operation.
type Action string

const (
	ActionSubmitIntake    Action = "intake.submit"
	ActionViewIntake      Action = "intake.view"
	ActionUpdateIntake    Action = "intake.update"
	ActionCreateProposal  Action = "proposal.create"
	ActionViewProposal    Action = "proposal.view"
	ActionUpdateProposal  Action = "proposal.update"
	ActionRespondProposal Action = "proposal.respond"
	ActionViewProject     Action = "project.view"
	ActionUpdateProject   Action = "project.update"
	ActionCreateTask      Action = "task.create"
	ActionViewTask        Action = "task.view"
	ActionUpdateTask      Action = "task.update"
	ActionDeleteTask      Action = "task.delete"
	ActionCreateInvoice   Action = "invoice.create"
	ActionViewInvoice     Action = "invoice.view"
	ActionUpdateInvoice   Action = "invoice.update"
	ActionDeleteInvoice   Action = "invoice.delete"
	ActionManageClients   Action = "client.manage"
	ActionViewEvents      Action = "events.view"
)

// OwnerRefs carries the ownership facts of the resource under decision.
// Zero values mean "no such owner".
type OwnerRefs struct {
	// ClientID owns the resource (intake/proposal/project/invoice).
	ClientID string

	// ProjectManagerID manages the resource's project.
	ProjectManagerID string
}

// Can reports whether the actor may perform the action on a resource
// with the given ownership.
func Can(actor Actor, action Action, refs OwnerRefs) bool {
	if actor.Role == domain.RoleClient {
		return clientCan(actor, action, refs)
	}
	if !actor.Role.IsStaff() {
		return false
	}
	return staffCan(actor, action, refs)
}

// Require is Can returning ErrForbidden on denial.
func Require(actor Actor, action Action, refs OwnerRefs) error {
	if !Can(actor, action, refs) {
		return ErrForbidden
	}
	return nil
}

// Clients may submit intakes, respond to proposals they own, and view
// their own records. They never create, update, or delete entities
// directly.
func clientCan(actor Actor, action Action, refs OwnerRefs) bool {
	switch action {
	case ActionSubmitIntake:
		return true
	case ActionRespondProposal:
		return ownsClient(actor, refs)
	case ActionViewIntake, ActionViewProposal, ActionViewProject,
		ActionViewTask, ActionViewInvoice, ActionViewEvents:
		return ownsClient(actor, refs)
	default:
		return false
	}
}

func staffCan(actor Actor, action Action, refs OwnerRefs) bool {
	switch action {
	case ActionDeleteTask:
		// Task deletion is restricted to the task's project manager.
		return actor.Role == domain.RoleAdmin || refs.ProjectManagerID == actor.ID
	case ActionUpdateProject, ActionUpdateInvoice, ActionDeleteInvoice:
		// Project and invoice mutation is scoped to records the actor
		// manages; admins are unscoped.
		return actor.Role == domain.RoleAdmin || refs.ProjectManagerID == actor.ID
	case ActionRespondProposal:
		// Proposal responses belong to the owning client alone.
		return false
	default:
		return true
	}
}

func ownsClient(actor Actor, refs OwnerRefs) bool {
	return actor.ClientID != "" && actor.ClientID == refs.ClientID
}
