package repository

import (
	"context"

	"github.com/harlow-digital/atelier/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type ClientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

type IntakeRepo interface {
	Create(ctx context.Context, i *domain.Intake) error
	GetByID(ctx context.Context, id string) (*domain.Intake, error)
	List(ctx context.Context) ([]*domain.Intake, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Intake, error)
	ListByStatus(ctx context.Context, status domain.IntakeStatus) ([]*domain.Intake, error)
	Update(ctx context.Context, i *domain.Intake) error
}

type ProposalRepo interface {
	Create(ctx context.Context, p *domain.Proposal) error
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)
	ListByIntake(ctx context.Context, intakeID string) ([]*domain.Proposal, error)
	ListByStatus(ctx context.Context, status domain.ProposalStatus) ([]*domain.Proposal, error)
	Update(ctx context.Context, p *domain.Proposal) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Project, error)
	ListByManager(ctx context.Context, managerID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	AppendHistory(ctx context.Context, e *domain.TaskHistoryEntry) error
	ListHistory(ctx context.Context, taskID string) ([]*domain.TaskHistoryEntry, error)
}

type InvoiceRepo interface {
	Create(ctx context.Context, i *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Invoice, error)
	ListByStatus(ctx context.Context, status domain.InvoiceStatus) ([]*domain.Invoice, error)
	Update(ctx context.Context, i *domain.Invoice) error
	Delete(ctx context.Context, id string) error
	CountByYear(ctx context.Context, year int) (int, error)
}

// EventRepo is append-only; workflow events are never mutated or
// deleted.
type EventRepo interface {
	Append(ctx context.Context, e *domain.WorkflowEvent) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkflowEvent, error)
	ListByEntity(ctx context.Context, entity, entityID string) ([]*domain.WorkflowEvent, error)
}
