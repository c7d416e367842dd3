package domain

import "time"

// Intake is a prospective client's submitted project request.
type Intake struct {
	ID                    string
	Status                IntakeStatus
	FormData              map[string]any
	Summary               string
	Priority              TaskPriority
	SubmittedAt           time.Time
	AssignedAdminID       *string
	ApprovedForEstimateAt *time.Time
	ReturnedForInfoAt     *time.Time
	ClientDecisionAt      *time.Time
	ClientID              string
	ProjectID             *string
	Checklist             map[string]bool
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (i *Intake) Validate() error {
	if i.ClientID == "" {
		return &ValidationError{Field: "clientId", Message: "Client is required"}
	}
	if i.Summary == "" {
		return &ValidationError{Field: "summary", Message: "Summary is required"}
	}
	if i.Priority != "" && !ValidTaskPriorities[string(i.Priority)] {
		return &ValidationError{Field: "priority", Message: "Unknown priority"}
	}
	return nil
}
