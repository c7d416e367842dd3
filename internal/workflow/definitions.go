// Package workflow holds the declarative state tables for every
// engagement lifecycle and the engine that validates and applies
// transitions against them. The tables are the single source of truth:
// the engine, the services, and the tests all consult the same index.
package workflow

import "github.com/harlow-digital/atelier/internal/domain"

// DomainID identifies one workflow state machine.
type DomainID string

const (
	DomainIntake       DomainID = "intake"
	DomainProposal     DomainID = "proposal"
	DomainProjectPhase DomainID = "project_phase"
	DomainTask         DomainID = "task"
	DomainInvoice      DomainID = "invoice"
)

// Transition names a reachable target state.
type Transition struct {
	To    string
	Label string
}

// State declares one node of a workflow. The checklist is informational
// guidance shown to operators; it is not enforced programmatically.
type State struct {
	ID          string
	Label       string
	Description string
	Checklist   []string
	Transitions []Transition
}

// Definition is the full table for one workflow domain.
//
// Free marks a domain whose states are all mutually reachable: the
// engine skips graph-adjacency checks and relies on the note guard
// alone. Flexibility is declared here, never implied by omission.
type Definition struct {
	Domain       DomainID
	Initial      string
	Free         bool
	RequiresNote map[string]bool
	States       []State
}

var definitions = []Definition{
	{
		Domain:  DomainIntake,
		Initial: string(domain.IntakeReviewPending),
		States: []State{
			{
				ID:          string(domain.IntakeReviewPending),
				Label:       "Review pending",
				Description: "Submitted by the client, awaiting staff review.",
				Checklist: []string{
					"Confirm contact details",
					"Check request completeness",
				},
				Transitions: []Transition{
					{To: string(domain.IntakeApprovedForEstimate), Label: "Approve for estimate"},
					{To: string(domain.IntakeReturnedForInfo), Label: "Return for more information"},
					{To: string(domain.IntakeArchived), Label: "Archive"},
				},
			},
			{
				ID:          string(domain.IntakeReturnedForInfo),
				Label:       "Returned for info",
				Description: "Sent back to the client with questions.",
				Transitions: []Transition{
					{To: string(domain.IntakeReviewPending), Label: "Resubmit for review"},
					{To: string(domain.IntakeArchived), Label: "Archive"},
				},
			},
			{
				ID:          string(domain.IntakeApprovedForEstimate),
				Label:       "Approved for estimate",
				Description: "Cleared for proposal drafting.",
				Checklist: []string{
					"Assign an estimating admin",
					"Draft proposal line items",
				},
				Transitions: []Transition{
					{To: string(domain.IntakeClientScopeApproved), Label: "Client approved scope"},
					{To: string(domain.IntakeClientScopeDeclined), Label: "Client declined scope"},
					{To: string(domain.IntakeArchived), Label: "Archive"},
				},
			},
			{
				ID:          string(domain.IntakeClientScopeApproved),
				Label:       "Scope approved",
				Description: "Client accepted the proposal; a project exists.",
				Transitions: []Transition{
					{To: string(domain.IntakeArchived), Label: "Archive"},
				},
			},
			{
				ID:          string(domain.IntakeClientScopeDeclined),
				Label:       "Scope declined",
				Description: "Client declined the proposal.",
				Transitions: []Transition{
					{To: string(domain.IntakeApprovedForEstimate), Label: "Re-estimate"},
					{To: string(domain.IntakeArchived), Label: "Archive"},
				},
			},
			{
				ID:          string(domain.IntakeArchived),
				Label:       "Archived",
				Description: "Closed; no further transitions.",
			},
		},
	},
	{
		Domain:  DomainProposal,
		Initial: string(domain.ProposalDraft),
		States: []State{
			{
				ID:          string(domain.ProposalDraft),
				Label:       "Draft",
				Description: "Being assembled by staff.",
				Checklist: []string{
					"Add line items",
					"Review totals against intake scope",
				},
				Transitions: []Transition{
					{To: string(domain.ProposalClientApprovalPending), Label: "Send to client"},
				},
			},
			{
				ID:          string(domain.ProposalClientApprovalPending),
				Label:       "Awaiting client approval",
				Description: "Sent; waiting on the client's decision.",
				Transitions: []Transition{
					{To: string(domain.ProposalApproved), Label: "Client approves"},
					{To: string(domain.ProposalDeclined), Label: "Client declines"},
					{To: string(domain.ProposalDraft), Label: "Withdraw for revision"},
				},
			},
			{
				ID:          string(domain.ProposalApproved),
				Label:       "Approved",
				Description: "Accepted; project and onboarding created.",
			},
			{
				ID:          string(domain.ProposalDeclined),
				Label:       "Declined",
				Description: "Rejected with client feedback.",
				Transitions: []Transition{
					{To: string(domain.ProposalDraft), Label: "Rework estimate"},
				},
			},
		},
	},
	{
		Domain:  DomainProjectPhase,
		Initial: string(domain.PhaseIntake),
		States: []State{
			{
				ID:          string(domain.PhaseIntake),
				Label:       "Intake",
				Description: "Request captured, not yet scoped.",
				Transitions: []Transition{
					{To: string(domain.PhaseEstimation), Label: "Begin estimation"},
					{To: string(domain.PhaseArchived), Label: "Archive"},
				},
			},
			{
				ID:          string(domain.PhaseEstimation),
				Label:       "Estimation",
				Description: "Proposal under construction.",
				Transitions: []Transition{
					{To: string(domain.PhaseKickoff), Label: "Scope approved, kick off"},
					{To: string(domain.PhaseArchived), Label: "Archive"},
				},
			},
			{
				ID:          string(domain.PhaseKickoff),
				Label:       "Kickoff",
				Description: "Onboarding under way.",
				Checklist: []string{
					"Schedule kickoff call",
					"Collect brand assets and access credentials",
					"Confirm project plan with client",
				},
				Transitions: []Transition{
					{To: string(domain.PhaseDelivery), Label: "Start delivery"},
				},
			},
			{
				ID:          string(domain.PhaseDelivery),
				Label:       "Delivery",
				Description: "Active build.",
				Transitions: []Transition{
					{To: string(domain.PhaseReview), Label: "Submit for review"},
				},
			},
			{
				ID:          string(domain.PhaseReview),
				Label:       "Review",
				Description: "Client reviewing deliverables.",
				Transitions: []Transition{
					{To: string(domain.PhaseBilling), Label: "Review passed, bill"},
					{To: string(domain.PhaseDelivery), Label: "Revisions requested"},
				},
			},
			{
				ID:          string(domain.PhaseBilling),
				Label:       "Billing",
				Description: "Invoicing in progress.",
				Checklist: []string{
					"Issue final invoice",
					"Confirm payment received",
				},
				Transitions: []Transition{
					{To: string(domain.PhaseComplete), Label: "Paid in full"},
				},
			},
			{
				ID:          string(domain.PhaseComplete),
				Label:       "Complete",
				Description: "Engagement delivered and paid.",
				Transitions: []Transition{
					{To: string(domain.PhaseArchived), Label: "Archive"},
				},
			},
			{
				ID:          string(domain.PhaseArchived),
				Label:       "Archived",
				Description: "Closed; no further transitions.",
			},
		},
	},
	{
		Domain:  DomainTask,
		Initial: string(domain.TaskBacklog),
		Free:    true,
		RequiresNote: map[string]bool{
			string(domain.TaskReadyForReview): true,
			string(domain.TaskClientApproved): true,
			string(domain.TaskBlocked):        true,
		},
		States: []State{
			{
				ID:    string(domain.TaskBacklog),
				Label: "Backlog",
			},
			{
				ID:    string(domain.TaskInProgress),
				Label: "In progress",
			},
			{
				ID:          string(domain.TaskBlocked),
				Label:       "Blocked",
				Description: "Stalled; the blocking reason lives in the transition note.",
			},
			{
				ID:          string(domain.TaskReadyForReview),
				Label:       "Ready for review",
				Description: "Awaiting internal or client review.",
			},
			{
				ID:          string(domain.TaskClientApproved),
				Label:       "Client approved",
				Description: "Signed off by the client.",
			},
			{
				ID:    string(domain.TaskDone),
				Label: "Done",
			},
		},
	},
	{
		Domain:  DomainInvoice,
		Initial: string(domain.InvoiceDraft),
		States: []State{
			{
				ID:    string(domain.InvoiceDraft),
				Label: "Draft",
				Transitions: []Transition{
					{To: string(domain.InvoiceSent), Label: "Send"},
				},
			},
			{
				ID:    string(domain.InvoiceSent),
				Label: "Sent",
				Transitions: []Transition{
					{To: string(domain.InvoicePaid), Label: "Mark paid"},
					{To: string(domain.InvoiceOverdue), Label: "Mark overdue"},
				},
			},
			{
				ID:    string(domain.InvoiceOverdue),
				Label: "Overdue",
				Transitions: []Transition{
					{To: string(domain.InvoicePaid), Label: "Mark paid"},
				},
			},
			{
				ID:          string(domain.InvoicePaid),
				Label:       "Paid",
				Description: "Terminal; paid invoices are immutable.",
			},
		},
	},
}

// index provides O(1) lookup keyed by domain then state id.
var index = map[DomainID]*Definition{}

// stateIndex maps domain -> state id -> state.
var stateIndex = map[DomainID]map[string]*State{}

func init() {
	for i := range definitions {
		def := &definitions[i]
		index[def.Domain] = def
		states := make(map[string]*State, len(def.States))
		for j := range def.States {
			states[def.States[j].ID] = &def.States[j]
		}
		stateIndex[def.Domain] = states
	}
}

// Get returns the definition for a domain.
func Get(d DomainID) (*Definition, bool) {
	def, ok := index[d]
	return def, ok
}

// Domains lists every registered workflow domain.
func Domains() []DomainID {
	out := make([]DomainID, 0, len(definitions))
	for i := range definitions {
		out = append(out, definitions[i].Domain)
	}
	return out
}

// StateExists reports whether the status is an enumerated state of the
// domain.
func StateExists(d DomainID, status string) bool {
	states, ok := stateIndex[d]
	if !ok {
		return false
	}
	_, ok = states[status]
	return ok
}

// TransitionsFrom returns the declared transition set for a state, or
// nil if the state is unknown.
func TransitionsFrom(d DomainID, status string) []Transition {
	states, ok := stateIndex[d]
	if !ok {
		return nil
	}
	s, ok := states[status]
	if !ok {
		return nil
	}
	return s.Transitions
}

// Allowed reports whether from -> to is a declared transition. For free
// domains any pair of enumerated states is allowed.
func Allowed(d DomainID, from, to string) bool {
	def, ok := index[d]
	if !ok {
		return false
	}
	if !StateExists(d, from) || !StateExists(d, to) {
		return false
	}
	if def.Free {
		return true
	}
	for _, t := range TransitionsFrom(d, from) {
		if t.To == to {
			return true
		}
	}
	return false
}

// Initial returns the domain's initial state id.
func Initial(d DomainID) string {
	if def, ok := index[d]; ok {
		return def.Initial
	}
	return ""
}

// NoteRequired reports whether entering the status demands a non-empty
// transition note.
func NoteRequired(d DomainID, status string) bool {
	def, ok := index[d]
	if !ok {
		return false
	}
	return def.RequiresNote[status]
}

// Checklist returns the informational checklist for a state.
func Checklist(d DomainID, status string) []string {
	states, ok := stateIndex[d]
	if !ok {
		return nil
	}
	if s, ok := states[status]; ok {
		return s.Checklist
	}
	return nil
}
