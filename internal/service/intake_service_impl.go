package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harlow-digital/atelier/internal/db"
	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/workflow"
)

type intakeService struct {
	intakes repository.IntakeRepo
	clients repository.ClientRepo
	uow     db.UnitOfWork
}

func NewIntakeService(intakes repository.IntakeRepo, clients repository.ClientRepo, uow db.UnitOfWork) IntakeService {
	return &intakeService{intakes: intakes, clients: clients, uow: uow}
}

func (s *intakeService) Submit(ctx context.Context, actor policy.Actor, in SubmitIntakeInput) (*domain.Intake, error) {
	if err := policy.Require(actor, policy.ActionSubmitIntake, policy.OwnerRefs{}); err != nil {
		return nil, err
	}

	clientID := in.ClientID
	if actor.Role == domain.RoleClient {
		// Client actors always submit against their own account.
		clientID = actor.ClientID
	}

	now := time.Now().UTC()
	intake := &domain.Intake{
		ID:          uuid.New().String(),
		Status:      domain.IntakeStatus(workflow.Initial(workflow.DomainIntake)),
		FormData:    in.FormData,
		Summary:     in.Summary,
		Priority:    domain.TaskPriority(in.Priority),
		SubmittedAt: now,
		ClientID:    clientID,
		Checklist:   map[string]bool{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if intake.Priority == "" {
		intake.Priority = domain.PriorityMedium
	}
	if err := intake.Validate(); err != nil {
		return nil, err
	}

	// Confirm the client exists before accepting the request.
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txIntakes := repository.NewSQLiteIntakeRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		if err := txIntakes.Create(ctx, intake); err != nil {
			return err
		}
		return txEvents.Append(ctx, &domain.WorkflowEvent{
			ID:        uuid.New().String(),
			Entity:    domain.EntityIntake,
			EntityID:  intake.ID,
			ActorID:   actor.ID,
			Status:    string(intake.Status),
			Message:   workflow.EventMessage(domain.EntityIntake, workflow.DomainIntake, string(intake.Status)),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return intake, nil
}

func (s *intakeService) GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Intake, error) {
	intake, err := s.intakes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewIntake, policy.OwnerRefs{ClientID: intake.ClientID}) {
		// Hidden and missing intakes are indistinguishable to callers.
		return nil, repository.ErrNotFound
	}
	return intake, nil
}

func (s *intakeService) List(ctx context.Context, actor policy.Actor) ([]*domain.Intake, error) {
	if actor.Role == domain.RoleClient {
		return s.intakes.ListByClient(ctx, actor.ClientID)
	}
	return s.intakes.List(ctx)
}

func (s *intakeService) Update(ctx context.Context, actor policy.Actor, id string, in UpdateIntakeInput) (*domain.Intake, error) {
	var updated *domain.Intake
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txIntakes := repository.NewSQLiteIntakeRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		intake, err := txIntakes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.Require(actor, policy.ActionUpdateIntake, policy.OwnerRefs{ClientID: intake.ClientID}); err != nil {
			return err
		}

		changed := in.Summary != nil || in.Priority != nil || in.AssignedAdminID != nil ||
			in.Notes != nil || in.Checklist != nil
		if in.Summary != nil {
			intake.Summary = *in.Summary
		}
		if in.Priority != nil {
			intake.Priority = domain.TaskPriority(*in.Priority)
		}
		if in.AssignedAdminID != nil {
			intake.AssignedAdminID = in.AssignedAdminID
		}
		if in.Notes != nil {
			intake.Notes = *in.Notes
		}
		if in.Checklist != nil {
			intake.Checklist = in.Checklist
		}
		if err := intake.Validate(); err != nil {
			return err
		}

		now := time.Now().UTC()
		if in.Status != nil {
			res, err := workflow.Apply(workflow.DomainIntake, string(intake.Status), *in.Status, workflow.Context{
				ActorID: actor.ID,
				Note:    in.TransitionNote,
			})
			if err != nil {
				return err
			}
			if res != nil {
				changed = true
				intake.Status = domain.IntakeStatus(res.To)
				stampIntakeStatus(intake, now)

				projectID := ""
				if intake.ProjectID != nil {
					projectID = *intake.ProjectID
				}
				if err := txEvents.Append(ctx, &domain.WorkflowEvent{
					ID:        uuid.New().String(),
					Entity:    domain.EntityIntake,
					EntityID:  intake.ID,
					ProjectID: projectID,
					ActorID:   actor.ID,
					Status:    res.To,
					Message:   workflow.EventMessage(domain.EntityIntake, workflow.DomainIntake, res.To),
					Metadata:  map[string]any{"note": res.Note, "from": res.From},
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}
		}

		// A same-status request with no field edits leaves the row alone.
		if changed {
			intake.UpdatedAt = now
			if err := txIntakes.Update(ctx, intake); err != nil {
				return err
			}
		}
		updated = intake
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// stampIntakeStatus records the per-status timestamp that the portal
// surfaces on the intake timeline.
func stampIntakeStatus(intake *domain.Intake, now time.Time) {
	switch intake.Status {
	case domain.IntakeApprovedForEstimate:
		intake.ApprovedForEstimateAt = &now
	case domain.IntakeReturnedForInfo:
		intake.ReturnedForInfoAt = &now
	case domain.IntakeClientScopeApproved, domain.IntakeClientScopeDeclined:
		intake.ClientDecisionAt = &now
	}
}
