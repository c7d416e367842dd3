package workflow

import "github.com/harlow-digital/atelier/internal/domain"

// OnboardingTaskTemplate is one starter task instantiated when a
// project is created from an approved proposal.
type OnboardingTaskTemplate struct {
	Title          string
	Description    string
	Priority       domain.TaskPriority
	IsDeliverable  bool
	DeliverableKey string
}

// OnboardingTasks is the fixed template list applied on proposal
// approval. Order is the creation order.
var OnboardingTasks = []OnboardingTaskTemplate{
	{
		Title:       "Schedule kickoff call",
		Description: "Book the kickoff meeting with the client and delivery team.",
		Priority:    domain.PriorityHigh,
	},
	{
		Title:       "Collect brand assets",
		Description: "Gather logos, style guides, copy, and existing collateral.",
		Priority:    domain.PriorityMedium,
	},
	{
		Title:       "Set up project accesses",
		Description: "Provision repositories, hosting, and third-party credentials.",
		Priority:    domain.PriorityMedium,
	},
	{
		Title:          "Confirm project plan",
		Description:    "Review milestones and timeline with the client and sign off.",
		Priority:       domain.PriorityHigh,
		IsDeliverable:  true,
		DeliverableKey: "project-plan",
	},
}

// KickoffChecklistSnapshot returns the kickoff checklist as a map of
// item -> done, stored into the new project's workflow metadata.
func KickoffChecklistSnapshot() map[string]any {
	items := Checklist(DomainProjectPhase, string(domain.PhaseKickoff))
	snap := make(map[string]any, len(items))
	for _, item := range items {
		snap[item] = false
	}
	return snap
}
