package domain

import "time"

// Entity names used in workflow events.
const (
	EntityIntake   = "intake"
	EntityProposal = "proposal"
	EntityProject  = "project"
	EntityTask     = "task"
	EntityInvoice  = "invoice"
)

// WorkflowEvent is an immutable audit record of one state transition.
// Rows are append-only; there is no update or delete path.
type WorkflowEvent struct {
	ID        string
	Entity    string
	EntityID  string
	ProjectID string
	ActorID   string
	Status    string
	Message   string
	Metadata  map[string]any
	CreatedAt time.Time
}
