package domain

import "time"

// Project is a contracted engagement. WorkflowPhase is the macro
// lifecycle stage; Status tracks day-to-day delivery.
type Project struct {
	ID                     string
	Name                   string
	Status                 ProjectStatus
	WorkflowPhase          ProjectPhase
	WorkflowPhaseUpdatedAt *time.Time
	IntakeStatus           IntakeStatus
	ClientID               string
	ProjectManagerID       *string
	StartDate              *time.Time
	EndDate                *time.Time
	WorkflowMetadata       map[string]any
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "Project name is required"}
	}
	if p.ClientID == "" {
		return &ValidationError{Field: "clientId", Message: "Client is required"}
	}
	if p.StartDate != nil && p.EndDate != nil && !p.EndDate.After(*p.StartDate) {
		return &ValidationError{Field: "endDate", Message: "End date must be after start date"}
	}
	return nil
}
