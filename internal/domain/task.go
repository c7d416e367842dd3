package domain

import "time"

// Task is a unit of work within a project.
type Task struct {
	ID             string
	ProjectID      string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	DueDate        *time.Time
	AssigneeID     *string
	IsDeliverable  bool
	DeliverableKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskHistoryEntry is one row of a task's append-only status log. A
// billing deferment note is recorded with Context set and FromStatus
// equal to ToStatus.
type TaskHistoryEntry struct {
	ID         string
	TaskID     string
	FromStatus TaskStatus
	ToStatus   TaskStatus
	Note       string
	ActorID    string
	Context    string
	CreatedAt  time.Time
}

// HistoryContextBillingDeferment marks a side-note appended without a
// status change.
const HistoryContextBillingDeferment = "billing_deferment"

func (t *Task) Validate() error {
	if t.ProjectID == "" {
		return &ValidationError{Field: "projectId", Message: "Project is required"}
	}
	if t.Title == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if t.Priority != "" && !ValidTaskPriorities[string(t.Priority)] {
		return &ValidationError{Field: "priority", Message: "Unknown priority"}
	}
	return nil
}
