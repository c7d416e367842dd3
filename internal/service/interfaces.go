package service

import (
	"context"
	"time"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
)

// SubmitIntakeInput captures a new project request. ClientID is only
// honored for staff actors; client actors always submit against their
// own account.
type SubmitIntakeInput struct {
	ClientID string
	Summary  string
	Priority string
	FormData map[string]any
}

// UpdateIntakeInput carries a partial intake update. A nil field means
// "leave unchanged". Status changes are routed through the workflow
// engine; TransitionNote feeds its note guard.
type UpdateIntakeInput struct {
	Status          *string
	TransitionNote  string
	Summary         *string
	Priority        *string
	AssignedAdminID *string
	Notes           *string
	Checklist       map[string]bool
}

type IntakeService interface {
	Submit(ctx context.Context, actor policy.Actor, in SubmitIntakeInput) (*domain.Intake, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Intake, error)
	List(ctx context.Context, actor policy.Actor) ([]*domain.Intake, error)
	Update(ctx context.Context, actor policy.Actor, id string, in UpdateIntakeInput) (*domain.Intake, error)
}

type CreateProposalInput struct {
	IntakeID        string
	Summary         string
	LineItems       []domain.LineItem
	SelectedModules []string
}

type UpdateProposalInput struct {
	Status          *string
	Summary         *string
	LineItems       []domain.LineItem
	SelectedModules []string
}

// Respond actions accepted by ProposalService.Respond.
const (
	RespondApprove = "approve"
	RespondDecline = "decline"
)

type ProposalService interface {
	Create(ctx context.Context, actor policy.Actor, in CreateProposalInput) (*domain.Proposal, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Proposal, error)
	ListByIntake(ctx context.Context, actor policy.Actor, intakeID string) ([]*domain.Proposal, error)
	Update(ctx context.Context, actor policy.Actor, id string, in UpdateProposalInput) (*domain.Proposal, error)

	// Respond applies the client's decision. Approval composes project
	// and onboarding-task creation plus intake sync in one transaction;
	// decline requires a non-empty comment.
	Respond(ctx context.Context, actor policy.Actor, id, action, comment string) (*domain.Proposal, error)
}

type UpdateProjectInput struct {
	Name           *string
	Status         *string
	WorkflowPhase  *string
	TransitionNote string
	StartDate      *time.Time
	EndDate        *time.Time
}

type ProjectService interface {
	GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Project, error)
	List(ctx context.Context, actor policy.Actor) ([]*domain.Project, error)
	Update(ctx context.Context, actor policy.Actor, id string, in UpdateProjectInput) (*domain.Project, error)
}

type CreateTaskInput struct {
	ProjectID      string
	Title          string
	Description    string
	Status         string
	Priority       string
	DueDate        *time.Time
	AssigneeID     *string
	IsDeliverable  bool
	DeliverableKey string
	TransitionNote string
}

// UpdateTaskInput mirrors the record-update transition surface: a
// status change rides the same call as field edits, guarded by
// TransitionNote. DeferNote appends a billing-deferment side-note
// without touching the status.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	DueDate        *time.Time
	AssigneeID     *string
	TransitionNote string
	DeferNote      string
}

type TaskService interface {
	Create(ctx context.Context, actor policy.Actor, in CreateTaskInput) (*domain.Task, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, actor policy.Actor, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, actor policy.Actor, id string, in UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	History(ctx context.Context, actor policy.Actor, id string) ([]*domain.TaskHistoryEntry, error)
}

type CreateInvoiceInput struct {
	ProjectID     string
	InvoiceNumber string
	AmountCents   int64
	IssueDate     time.Time
	DueDate       time.Time
}

type UpdateInvoiceInput struct {
	Status      *string
	AmountCents *int64
	DueDate     *time.Time
}

type InvoiceService interface {
	Create(ctx context.Context, actor policy.Actor, in CreateInvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Invoice, error)
	ListByProject(ctx context.Context, actor policy.Actor, projectID string) ([]*domain.Invoice, error)
	Update(ctx context.Context, actor policy.Actor, id string, in UpdateInvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	NextNumber(ctx context.Context, actor policy.Actor) (string, error)
}

type CreateClientInput struct {
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Website     string
	Notes       string
	UserID      *string
}

type ClientService interface {
	Create(ctx context.Context, actor policy.Actor, in CreateClientInput) (*domain.Client, error)
	GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Client, error)
	List(ctx context.Context, actor policy.Actor) ([]*domain.Client, error)
	Update(ctx context.Context, actor policy.Actor, id string, in CreateClientInput) (*domain.Client, error)
}

// ActivityService reads the append-only workflow event log.
type ActivityService interface {
	ListByProject(ctx context.Context, actor policy.Actor, projectID string) ([]*domain.WorkflowEvent, error)
	ListByEntity(ctx context.Context, actor policy.Actor, entity, entityID string) ([]*domain.WorkflowEvent, error)
}
