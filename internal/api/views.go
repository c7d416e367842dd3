package api

import (
	"time"

	"github.com/harlow-digital/atelier/internal/domain"
)

// View structs shape the JSON surface. Domain entities stay free of
// serialization tags; conversion happens only here.

const dateLayout = "2006-01-02"

type intakeView struct {
	ID                    string          `json:"id"`
	Status                string          `json:"status"`
	FormData              map[string]any  `json:"formData,omitempty"`
	Summary               string          `json:"summary"`
	Priority              string          `json:"priority,omitempty"`
	SubmittedAt           time.Time       `json:"submittedAt"`
	AssignedAdminID       *string         `json:"assignedAdminId,omitempty"`
	ApprovedForEstimateAt *time.Time      `json:"approvedForEstimateAt,omitempty"`
	ReturnedForInfoAt     *time.Time      `json:"returnedForInfoAt,omitempty"`
	ClientDecisionAt      *time.Time      `json:"clientDecisionAt,omitempty"`
	ClientID              string          `json:"clientId"`
	ProjectID             *string         `json:"projectId,omitempty"`
	Checklist             map[string]bool `json:"checklist,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

func toIntakeView(i *domain.Intake) intakeView {
	return intakeView{
		ID:                    i.ID,
		Status:                string(i.Status),
		FormData:              i.FormData,
		Summary:               i.Summary,
		Priority:              string(i.Priority),
		SubmittedAt:           i.SubmittedAt,
		AssignedAdminID:       i.AssignedAdminID,
		ApprovedForEstimateAt: i.ApprovedForEstimateAt,
		ReturnedForInfoAt:     i.ReturnedForInfoAt,
		ClientDecisionAt:      i.ClientDecisionAt,
		ClientID:              i.ClientID,
		ProjectID:             i.ProjectID,
		Checklist:             i.Checklist,
		Notes:                 i.Notes,
		CreatedAt:             i.CreatedAt,
		UpdatedAt:             i.UpdatedAt,
	}
}

func toIntakeViews(items []*domain.Intake) []intakeView {
	out := make([]intakeView, 0, len(items))
	for _, i := range items {
		out = append(out, toIntakeView(i))
	}
	return out
}

type proposalView struct {
	ID               string            `json:"id"`
	Status           string            `json:"status"`
	Summary          string            `json:"summary"`
	LineItems        []domain.LineItem `json:"lineItems"`
	SelectedModules  []string          `json:"selectedModules,omitempty"`
	EstimatedHours   float64           `json:"estimatedHours"`
	EstimateCents    int64             `json:"estimateCents"`
	SentAt           *time.Time        `json:"sentAt,omitempty"`
	ClientApprovedAt *time.Time        `json:"clientApprovedAt,omitempty"`
	ClientDeclinedAt *time.Time        `json:"clientDeclinedAt,omitempty"`
	ApprovalNotes    string            `json:"approvalNotes,omitempty"`
	IntakeID         string            `json:"intakeId"`
	ProjectID        *string           `json:"projectId,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func toProposalView(p *domain.Proposal) proposalView {
	return proposalView{
		ID:               p.ID,
		Status:           string(p.Status),
		Summary:          p.Summary,
		LineItems:        p.LineItems,
		SelectedModules:  p.SelectedModules,
		EstimatedHours:   p.EstimatedHours,
		EstimateCents:    p.EstimateCents,
		SentAt:           p.SentAt,
		ClientApprovedAt: p.ClientApprovedAt,
		ClientDeclinedAt: p.ClientDeclinedAt,
		ApprovalNotes:    p.ApprovalNotes,
		IntakeID:         p.IntakeID,
		ProjectID:        p.ProjectID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toProposalViews(items []*domain.Proposal) []proposalView {
	out := make([]proposalView, 0, len(items))
	for _, p := range items {
		out = append(out, toProposalView(p))
	}
	return out
}

type projectView struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	Status                 string         `json:"status"`
	WorkflowPhase          string         `json:"workflowPhase"`
	WorkflowPhaseUpdatedAt *time.Time     `json:"workflowPhaseUpdatedAt,omitempty"`
	IntakeStatus           string         `json:"intakeStatus,omitempty"`
	ClientID               string         `json:"clientId"`
	ProjectManagerID       *string        `json:"projectManagerId,omitempty"`
	StartDate              *string        `json:"startDate,omitempty"`
	EndDate                *string        `json:"endDate,omitempty"`
	WorkflowMetadata       map[string]any `json:"workflowMetadata,omitempty"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

func toProjectView(p *domain.Project) projectView {
	return projectView{
		ID:                     p.ID,
		Name:                   p.Name,
		Status:                 string(p.Status),
		WorkflowPhase:          string(p.WorkflowPhase),
		WorkflowPhaseUpdatedAt: p.WorkflowPhaseUpdatedAt,
		IntakeStatus:           string(p.IntakeStatus),
		ClientID:               p.ClientID,
		ProjectManagerID:       p.ProjectManagerID,
		StartDate:              formatDate(p.StartDate),
		EndDate:                formatDate(p.EndDate),
		WorkflowMetadata:       p.WorkflowMetadata,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

func toProjectViews(items []*domain.Project) []projectView {
	out := make([]projectView, 0, len(items))
	for _, p := range items {
		out = append(out, toProjectView(p))
	}
	return out
}

type taskView struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"projectId"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority,omitempty"`
	DueDate        *string   `json:"dueDate,omitempty"`
	AssigneeID     *string   `json:"assigneeId,omitempty"`
	IsDeliverable  bool      `json:"isDeliverable"`
	DeliverableKey string    `json:"deliverableKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toTaskView(t *domain.Task) taskView {
	return taskView{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		DueDate:        formatDate(t.DueDate),
		AssigneeID:     t.AssigneeID,
		IsDeliverable:  t.IsDeliverable,
		DeliverableKey: t.DeliverableKey,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toTaskViews(items []*domain.Task) []taskView {
	out := make([]taskView, 0, len(items))
	for _, t := range items {
		out = append(out, toTaskView(t))
	}
	return out
}

type taskHistoryView struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"taskId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Note       string    `json:"note,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	Context    string    `json:"context,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toTaskHistoryViews(items []*domain.TaskHistoryEntry) []taskHistoryView {
	out := make([]taskHistoryView, 0, len(items))
	for _, e := range items {
		out = append(out, taskHistoryView{
			ID:         e.ID,
			TaskID:     e.TaskID,
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			Note:       e.Note,
			ActorID:    e.ActorID,
			Context:    e.Context,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}

type invoiceView struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoiceNumber"`
	AmountCents   int64     `json:"amountCents"`
	Status        string    `json:"status"`
	IssueDate     string    `json:"issueDate"`
	DueDate       string    `json:"dueDate"`
	ProjectID     string    `json:"projectId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toInvoiceView(i *domain.Invoice) invoiceView {
	return invoiceView{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		AmountCents:   i.AmountCents,
		Status:        string(i.Status),
		IssueDate:     i.IssueDate.Format(dateLayout),
		DueDate:       i.DueDate.Format(dateLayout),
		ProjectID:     i.ProjectID,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func toInvoiceViews(items []*domain.Invoice) []invoiceView {
	out := make([]invoiceView, 0, len(items))
	for _, i := range items {
		out = append(out, toInvoiceView(i))
	}
	return out
}

type clientView struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	ContactName string    `json:"contactName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Website     string    `json:"website,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	UserID      *string   `json:"userId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toClientView(c *domain.Client) clientView {
	return clientView{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Website:     c.Website,
		Notes:       c.Notes,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toClientViews(items []*domain.Client) []clientView {
	out := make([]clientView, 0, len(items))
	for _, c := range items {
		out = append(out, toClientView(c))
	}
	return out
}

type eventView struct {
	ID        string         `json:"id"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityId"`
	ProjectID string         `json:"projectId,omitempty"`
	ActorID   string         `json:"actorId,omitempty"`
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toEventViews(items []*domain.WorkflowEvent) []eventView {
	out := make([]eventView, 0, len(items))
	for _, e := range items {
		out = append(out, eventView{
			ID:        e.ID,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			ProjectID: e.ProjectID,
			ActorID:   e.ActorID,
			Status:    e.Status,
			Message:   e.Message,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, &domain.ValidationError{Field: "date", Message: "Dates must use YYYY-MM-DD"}
	}
	return &t, nil
}
