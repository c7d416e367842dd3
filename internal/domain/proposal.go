package domain

import (
	"math"
	"time"
)

// LineItem is one priced row in a proposal. AmountCents is derived from
// hours * rate and recomputed whenever line items change.
type LineItem struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	RateCents   int64   `json:"rateCents"`
	AmountCents int64   `json:"amountCents"`
}

// Proposal is a priced estimate built against an intake.
type Proposal struct {
	ID               string
	Status           ProposalStatus
	Summary          string
	LineItems        []LineItem
	SelectedModules  []string
	EstimatedHours   float64
	EstimateCents    int64
	SentAt           *time.Time
	ClientApprovedAt *time.Time
	ClientDeclinedAt *time.Time
	ApprovalNotes    string
	IntakeID         string
	ProjectID        *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecalculateTotals rewrites each line item's amount from hours * rate
// and refreshes the derived estimate sums. Call after any line item
// mutation so the stored totals never drift from the rows.
func (p *Proposal) RecalculateTotals() {
	var hours float64
	var cents int64
	for idx := range p.LineItems {
		li := &p.LineItems[idx]
		// Round to the nearest cent; truncation loses money on
		// fractional hours.
		li.AmountCents = int64(math.Round(li.Hours * float64(li.RateCents)))
		hours += li.Hours
		cents += li.AmountCents
	}
	p.EstimatedHours = hours
	p.EstimateCents = cents
}

func (p *Proposal) Validate() error {
	if p.IntakeID == "" {
		return &ValidationError{Field: "intakeId", Message: "Intake is required"}
	}
	for _, li := range p.LineItems {
		if li.Title == "" {
			return &ValidationError{Field: "lineItems", Message: "Line item title is required"}
		}
		if li.Hours < 0 {
			return &ValidationError{Field: "lineItems", Message: "Line item hours must not be negative"}
		}
		if li.RateCents < 0 {
			return &ValidationError{Field: "lineItems", Message: "Line item rate must not be negative"}
		}
	}
	return nil
}
