package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/harlow-digital/atelier/internal/domain"
)

var testEmailCounter atomic.Int64

func uniqueEmail(prefix string) string {
	n := testEmailCounter.Add(1)
	return fmt.Sprintf("%s%d@test.local", prefix, n)
}

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     uniqueEmail("user"),
		Name:      name,
		Role:      domain.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Client options
type ClientOption func(*domain.Client)

func WithClientUserID(userID string) ClientOption {
	return func(c *domain.Client) {
		c.UserID = &userID
	}
}

func NewTestClient(companyName string, opts ...ClientOption) *domain.Client {
	now := time.Now().UTC()
	c := &domain.Client{
		ID:          uuid.New().String(),
		CompanyName: companyName,
		ContactName: "Test Contact",
		Email:       uniqueEmail("client"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Intake options
type IntakeOption func(*domain.Intake)

func WithIntakeStatus(s domain.IntakeStatus) IntakeOption {
	return func(i *domain.Intake) {
		i.Status = s
	}
}

func WithIntakeProjectID(projectID string) IntakeOption {
	return func(i *domain.Intake) {
		i.ProjectID = &projectID
	}
}

func NewTestIntake(clientID string, opts ...IntakeOption) *domain.Intake {
	now := time.Now().UTC()
	i := &domain.Intake{
		ID:          uuid.New().String(),
		Status:      domain.IntakeReviewPending,
		Summary:     "Test project request",
		Priority:    domain.PriorityMedium,
		SubmittedAt: now,
		ClientID:    clientID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Proposal options
type ProposalOption func(*domain.Proposal)

func WithProposalStatus(s domain.ProposalStatus) ProposalOption {
	return func(p *domain.Proposal) {
		p.Status = s
	}
}

func WithLineItems(items ...domain.LineItem) ProposalOption {
	return func(p *domain.Proposal) {
		p.LineItems = items
		p.RecalculateTotals()
	}
}

func WithProposalProjectID(projectID string) ProposalOption {
	return func(p *domain.Proposal) {
		p.ProjectID = &projectID
	}
}

func NewTestProposal(intakeID string, opts ...ProposalOption) *domain.Proposal {
	now := time.Now().UTC()
	p := &domain.Proposal{
		ID:       uuid.New().String(),
		Status:   domain.ProposalDraft,
		Summary:  "Test proposal",
		IntakeID: intakeID,
		LineItems: []domain.LineItem{
			{Title: "Design", Hours: 20, RateCents: 15000},
			{Title: "Build", Hours: 60, RateCents: 15000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.RecalculateTotals()
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectPhase(phase domain.ProjectPhase) ProjectOption {
	return func(p *domain.Project) {
		p.WorkflowPhase = phase
	}
}

func WithProjectManager(userID string) ProjectOption {
	return func(p *domain.Project) {
		p.ProjectManagerID = &userID
	}
}

func NewTestProject(name, clientID string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:            uuid.New().String(),
		Name:          name,
		Status:        domain.ProjectActive,
		WorkflowPhase: domain.PhaseKickoff,
		IntakeStatus:  domain.IntakeClientScopeApproved,
		ClientID:      clientID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithAssignee(userID string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = &userID
	}
}

func WithDeliverable(key string) TaskOption {
	return func(t *domain.Task) {
		t.IsDeliverable = true
		t.DeliverableKey = key
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	task := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.TaskBacklog,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// Invoice options
type InvoiceOption func(*domain.Invoice)

func WithInvoiceStatus(s domain.InvoiceStatus) InvoiceOption {
	return func(i *domain.Invoice) {
		i.Status = s
	}
}

func WithDueDate(d time.Time) InvoiceOption {
	return func(i *domain.Invoice) {
		i.DueDate = d
	}
}

var testInvoiceCounter atomic.Int64

func NewTestInvoice(projectID string, opts ...InvoiceOption) *domain.Invoice {
	now := time.Now().UTC()
	n := testInvoiceCounter.Add(1)
	inv := &domain.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: fmt.Sprintf("INV-%04d-%04d", now.Year(), n),
		AmountCents:   250000,
		Status:        domain.InvoiceDraft,
		IssueDate:     now.AddDate(0, 0, -1),
		DueDate:       now.AddDate(0, 1, 0),
		ProjectID:     projectID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}
