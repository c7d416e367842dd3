package domain

import "time"

// Invoice is a billing artifact tied to a project. Only DRAFT invoices
// may be deleted.
type Invoice struct {
	ID            string
	InvoiceNumber string
	AmountCents   int64
	Status        InvoiceStatus
	IssueDate     time.Time
	DueDate       time.Time
	ProjectID     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (i *Invoice) Validate() error {
	if i.InvoiceNumber == "" {
		return &ValidationError{Field: "invoiceNumber", Message: "Invoice number is required"}
	}
	if i.ProjectID == "" {
		return &ValidationError{Field: "projectId", Message: "Project is required"}
	}
	if i.AmountCents <= 0 {
		return &ValidationError{Field: "amount", Message: "Amount must be positive"}
	}
	if !i.DueDate.After(i.IssueDate) {
		return &ValidationError{Field: "dueDate", Message: "Due date must be after issue date"}
	}
	return nil
}
