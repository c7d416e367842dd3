package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harlow-digital/atelier/internal/db"
	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/workflow"
)

type proposalService struct {
	proposals repository.ProposalRepo
	intakes   repository.IntakeRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewProposalService(proposals repository.ProposalRepo, intakes repository.IntakeRepo, uow db.UnitOfWork, observer UseCaseObserver) ProposalService {
	return &proposalService{proposals: proposals, intakes: intakes, uow: uow, observer: observer}
}

func (s *proposalService) Create(ctx context.Context, actor policy.Actor, in CreateProposalInput) (*domain.Proposal, error) {
	if err := policy.Require(actor, policy.ActionCreateProposal, policy.OwnerRefs{}); err != nil {
		return nil, err
	}

	intake, err := s.intakes.GetByID(ctx, in.IntakeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Proposal{
		ID:              uuid.New().String(),
		Status:          domain.ProposalStatus(workflow.Initial(workflow.DomainProposal)),
		Summary:         in.Summary,
		LineItems:       in.LineItems,
		SelectedModules: in.SelectedModules,
		IntakeID:        intake.ID,
		ProjectID:       intake.ProjectID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.RecalculateTotals()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.proposals.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *proposalService) GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Proposal, error) {
	p, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	intake, err := s.intakes.GetByID(ctx, p.IntakeID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewProposal, policy.OwnerRefs{ClientID: intake.ClientID}) {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *proposalService) ListByIntake(ctx context.Context, actor policy.Actor, intakeID string) ([]*domain.Proposal, error) {
	intake, err := s.intakes.GetByID(ctx, intakeID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewProposal, policy.OwnerRefs{ClientID: intake.ClientID}) {
		return nil, repository.ErrNotFound
	}
	return s.proposals.ListByIntake(ctx, intakeID)
}

func (s *proposalService) Update(ctx context.Context, actor policy.Actor, id string, in UpdateProposalInput) (*domain.Proposal, error) {
	if err := policy.Require(actor, policy.ActionUpdateProposal, policy.OwnerRefs{}); err != nil {
		return nil, err
	}

	var updated *domain.Proposal
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProposals := repository.NewSQLiteProposalRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		p, err := txProposals.GetByID(ctx, id)
		if err != nil {
			return err
		}

		changed := in.Summary != nil || in.LineItems != nil || in.SelectedModules != nil
		if in.Summary != nil {
			p.Summary = *in.Summary
		}
		if in.LineItems != nil {
			p.LineItems = in.LineItems
		}
		if in.SelectedModules != nil {
			p.SelectedModules = in.SelectedModules
		}
		p.RecalculateTotals()
		if err := p.Validate(); err != nil {
			return err
		}

		now := time.Now().UTC()
		if in.Status != nil {
			// Client decisions go through Respond, not Update.
			if *in.Status == string(domain.ProposalApproved) || *in.Status == string(domain.ProposalDeclined) {
				return fmt.Errorf("%q must be set via respond: %w", *in.Status, workflow.ErrTransitionNotAllowed)
			}
			res, err := workflow.Apply(workflow.DomainProposal, string(p.Status), *in.Status, workflow.Context{ActorID: actor.ID})
			if err != nil {
				return err
			}
			if res != nil {
				changed = true
				p.Status = domain.ProposalStatus(res.To)
				if p.Status == domain.ProposalClientApprovalPending {
					p.SentAt = &now
				}
				if err := txEvents.Append(ctx, &domain.WorkflowEvent{
					ID:        uuid.New().String(),
					Entity:    domain.EntityProposal,
					EntityID:  p.ID,
					ProjectID: derefOrEmpty(p.ProjectID),
					ActorID:   actor.ID,
					Status:    res.To,
					Message:   workflow.EventMessage(domain.EntityProposal, workflow.DomainProposal, res.To),
					Metadata:  map[string]any{"note": res.Note, "from": res.From},
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}
		}

		// A same-status request with no field edits leaves the row alone.
		if changed {
			p.UpdatedAt = now
			if err := txProposals.Update(ctx, p); err != nil {
				return err
			}
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Respond applies the client's approve or decline decision. Every read
// and write happens inside one transaction so concurrent responses to
// the same proposal cannot both create a project.
func (s *proposalService) Respond(ctx context.Context, actor policy.Actor, id, action, comment string) (p *domain.Proposal, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "proposal.respond", start, err, map[string]any{
			"proposal_id": id,
			"action":      action,
		})
	}()

	comment = strings.TrimSpace(comment)
	switch action {
	case RespondApprove:
	case RespondDecline:
		// Declining without feedback is rejected before any read or write.
		if comment == "" {
			return nil, fmt.Errorf("a comment is required when declining a proposal: %w", workflow.ErrNoteRequired)
		}
	default:
		return nil, &domain.ValidationError{Field: "action", Message: "Action must be approve or decline"}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProposals := repository.NewSQLiteProposalRepo(tx)
		txIntakes := repository.NewSQLiteIntakeRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txUsers := repository.NewSQLiteUserRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		proposal, err := txProposals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		intake, err := txIntakes.GetByID(ctx, proposal.IntakeID)
		if err != nil {
			return err
		}
		var project *domain.Project
		if proposal.ProjectID != nil {
			project, err = txProjects.GetByID(ctx, *proposal.ProjectID)
			if err != nil {
				return err
			}
		}

		refs := policy.OwnerRefs{ClientID: intake.ClientID}
		if project != nil {
			refs.ClientID = project.ClientID
		}
		if err := policy.Require(actor, policy.ActionRespondProposal, refs); err != nil {
			return err
		}

		target := domain.ProposalApproved
		if action == RespondDecline {
			target = domain.ProposalDeclined
		}
		res, err := workflow.Apply(workflow.DomainProposal, string(proposal.Status), string(target), workflow.Context{
			ActorID: actor.ID,
			Note:    comment,
		})
		if err != nil {
			return err
		}
		if res == nil {
			p = proposal
			return nil
		}

		now := time.Now().UTC()
		proposal.Status = target
		proposal.ApprovalNotes = comment
		if target == domain.ProposalApproved {
			proposal.ClientApprovedAt = &now
			proposal.ClientDeclinedAt = nil
		} else {
			proposal.ClientDeclinedAt = &now
			proposal.ClientApprovedAt = nil
		}

		intakeStatus := domain.IntakeClientScopeApproved
		if target == domain.ProposalDeclined {
			intakeStatus = domain.IntakeClientScopeDeclined
		}

		if target == domain.ProposalApproved {
			if project == nil {
				project, err = s.synthesizeProject(ctx, txUsers, actor, proposal, intake, now)
				if err != nil {
					return err
				}
				if err := txProjects.Create(ctx, project); err != nil {
					return err
				}
				if err := s.createOnboardingTasks(ctx, txTasks, actor, project, now); err != nil {
					return err
				}
				intake.ProjectID = &project.ID
				proposal.ProjectID = &project.ID
			} else {
				// Phase sync only follows a declared transition; a
				// project already past kickoff keeps its phase.
				phaseRes, err := workflow.Apply(workflow.DomainProjectPhase, string(project.WorkflowPhase), string(domain.PhaseKickoff), workflow.Context{ActorID: actor.ID})
				if err != nil && !errors.Is(err, workflow.ErrTransitionNotAllowed) {
					return err
				}
				if phaseRes != nil {
					project.WorkflowPhase = domain.PhaseKickoff
					project.WorkflowPhaseUpdatedAt = &now
				}
				project.IntakeStatus = intakeStatus
				project.UpdatedAt = now
				if err := txProjects.Update(ctx, project); err != nil {
					return err
				}
			}
		}

		intake.Status = intakeStatus
		intake.ClientDecisionAt = &now
		intake.UpdatedAt = now
		if err := txIntakes.Update(ctx, intake); err != nil {
			return err
		}

		proposal.UpdatedAt = now
		if err := txProposals.Update(ctx, proposal); err != nil {
			return err
		}

		projectID := derefOrEmpty(proposal.ProjectID)
		if err := txEvents.Append(ctx, &domain.WorkflowEvent{
			ID:        uuid.New().String(),
			Entity:    domain.EntityProposal,
			EntityID:  proposal.ID,
			ProjectID: projectID,
			ActorID:   actor.ID,
			Status:    string(target),
			Message:   workflow.EventMessage(domain.EntityProposal, workflow.DomainProposal, string(target)),
			Metadata:  map[string]any{"comment": comment},
			CreatedAt: now,
		}); err != nil {
			return err
		}
		if err := txEvents.Append(ctx, &domain.WorkflowEvent{
			ID:        uuid.New().String(),
			Entity:    domain.EntityIntake,
			EntityID:  intake.ID,
			ProjectID: projectID,
			ActorID:   actor.ID,
			Status:    string(intakeStatus),
			Message:   workflow.EventMessage(domain.EntityIntake, workflow.DomainIntake, string(intakeStatus)),
			CreatedAt: now,
		}); err != nil {
			return err
		}

		p = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// synthesizeProject builds the project created by an approval: kickoff
// phase, onboarding checklist snapshot, and provenance back to the
// proposal.
func (s *proposalService) synthesizeProject(ctx context.Context, users repository.UserRepo, actor policy.Actor, proposal *domain.Proposal, intake *domain.Intake, now time.Time) (*domain.Project, error) {
	managerID, err := pickProjectManager(ctx, users, intake, actor)
	if err != nil {
		return nil, err
	}

	name := intake.Summary
	if name == "" {
		name = "New engagement"
	}

	return &domain.Project{
		ID:                     uuid.New().String(),
		Name:                   name,
		Status:                 domain.ProjectActive,
		WorkflowPhase:          domain.PhaseKickoff,
		WorkflowPhaseUpdatedAt: &now,
		IntakeStatus:           domain.IntakeClientScopeApproved,
		ClientID:               intake.ClientID,
		ProjectManagerID:       &managerID,
		StartDate:              &now,
		WorkflowMetadata: map[string]any{
			"onboardingChecklist": workflow.KickoffChecklistSnapshot(),
			"createdFromProposal": proposal.ID,
			"createdFromIntake":   intake.ID,
			"estimateCents":       proposal.EstimateCents,
			"estimatedHours":      proposal.EstimatedHours,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *proposalService) createOnboardingTasks(ctx context.Context, tasks repository.TaskRepo, actor policy.Actor, project *domain.Project, now time.Time) error {
	for _, tpl := range workflow.OnboardingTasks {
		task := &domain.Task{
			ID:             uuid.New().String(),
			ProjectID:      project.ID,
			Title:          tpl.Title,
			Description:    tpl.Description,
			Status:         domain.TaskBacklog,
			Priority:       tpl.Priority,
			AssigneeID:     project.ProjectManagerID,
			IsDeliverable:  tpl.IsDeliverable,
			DeliverableKey: tpl.DeliverableKey,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tasks.Create(ctx, task); err != nil {
			return err
		}
		// Every task carries its creation as the first history entry.
		if err := tasks.AppendHistory(ctx, &domain.TaskHistoryEntry{
			ID:         uuid.New().String(),
			TaskID:     task.ID,
			FromStatus: task.Status,
			ToStatus:   task.Status,
			Note:       "Created from onboarding template",
			ActorID:    actor.ID,
			Context:    "onboarding",
			CreatedAt:  now,
		}); err != nil {
			return err
		}
	}
	return nil
}

// pickProjectManager selects the new project's manager: the intake's
// assigned admin, else any PROJECT_MANAGER user (stable email order),
// else the acting user.
func pickProjectManager(ctx context.Context, users repository.UserRepo, intake *domain.Intake, actor policy.Actor) (string, error) {
	if intake.AssignedAdminID != nil && *intake.AssignedAdminID != "" {
		return *intake.AssignedAdminID, nil
	}
	pms, err := users.ListByRole(ctx, domain.RoleProjectManager)
	if err != nil {
		return "", err
	}
	if len(pms) > 0 {
		return pms[0].ID, nil
	}
	return actor.ID, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
