package domain

type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleDeveloper      Role = "DEVELOPER"
	RoleClient         Role = "CLIENT"
)

// IsStaff reports whether the role belongs to agency staff.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleProjectManager || r == RoleDeveloper
}

type IntakeStatus string

const (
	IntakeReviewPending       IntakeStatus = "REVIEW_PENDING"
	IntakeReturnedForInfo     IntakeStatus = "RETURNED_FOR_INFO"
	IntakeApprovedForEstimate IntakeStatus = "APPROVED_FOR_ESTIMATE"
	IntakeClientScopeApproved IntakeStatus = "CLIENT_SCOPE_APPROVED"
	IntakeClientScopeDeclined IntakeStatus = "CLIENT_SCOPE_DECLINED"
	IntakeArchived            IntakeStatus = "ARCHIVED"
)

type ProposalStatus string

const (
	ProposalDraft                 ProposalStatus = "DRAFT"
	ProposalClientApprovalPending ProposalStatus = "CLIENT_APPROVAL_PENDING"
	ProposalApproved              ProposalStatus = "APPROVED"
	ProposalDeclined              ProposalStatus = "DECLINED"
)

// ProjectStatus is the day-to-day delivery status, distinct from the
// macro workflow phase.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
)

type ProjectPhase string

const (
	PhaseIntake     ProjectPhase = "INTAKE"
	PhaseEstimation ProjectPhase = "ESTIMATION"
	PhaseKickoff    ProjectPhase = "KICKOFF"
	PhaseDelivery   ProjectPhase = "DELIVERY"
	PhaseReview     ProjectPhase = "REVIEW"
	PhaseBilling    ProjectPhase = "BILLING"
	PhaseComplete   ProjectPhase = "COMPLETE"
	PhaseArchived   ProjectPhase = "ARCHIVED"
)

type TaskStatus string

const (
	TaskBacklog        TaskStatus = "BACKLOG"
	TaskInProgress     TaskStatus = "IN_PROGRESS"
	TaskBlocked        TaskStatus = "BLOCKED"
	TaskReadyForReview TaskStatus = "READY_FOR_REVIEW"
	TaskClientApproved TaskStatus = "CLIENT_APPROVED"
	TaskDone           TaskStatus = "DONE"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// ValidTaskPriorities is the canonical set of accepted priority strings.
var ValidTaskPriorities = map[string]bool{
	"LOW": true, "MEDIUM": true, "HIGH": true, "URGENT": true,
}

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "DRAFT"
	InvoiceSent    InvoiceStatus = "SENT"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)
