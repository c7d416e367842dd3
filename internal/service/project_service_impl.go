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

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork) ProjectService {
	return &projectService{projects: projects, uow: uow}
}

func (s *projectService) GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewProject, ownerRefsForProject(project)) {
		return nil, repository.ErrNotFound
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, actor policy.Actor) ([]*domain.Project, error) {
	switch {
	case actor.Role == domain.RoleClient:
		return s.projects.ListByClient(ctx, actor.ClientID)
	case actor.Role == domain.RoleAdmin:
		return s.projects.List(ctx)
	default:
		return s.projects.ListByManager(ctx, actor.ID)
	}
}

func (s *projectService) Update(ctx context.Context, actor policy.Actor, id string, in UpdateProjectInput) (*domain.Project, error) {
	var updated *domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		project, err := txProjects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.Require(actor, policy.ActionUpdateProject, ownerRefsForProject(project)); err != nil {
			return err
		}

		changed := in.Name != nil || in.Status != nil || in.StartDate != nil || in.EndDate != nil
		if in.Name != nil {
			project.Name = *in.Name
		}
		if in.Status != nil {
			project.Status = domain.ProjectStatus(*in.Status)
		}
		if in.StartDate != nil {
			project.StartDate = in.StartDate
		}
		if in.EndDate != nil {
			project.EndDate = in.EndDate
		}
		if err := project.Validate(); err != nil {
			return err
		}

		now := time.Now().UTC()
		if in.WorkflowPhase != nil {
			res, err := workflow.Apply(workflow.DomainProjectPhase, string(project.WorkflowPhase), *in.WorkflowPhase, workflow.Context{
				ActorID: actor.ID,
				Note:    in.TransitionNote,
			})
			if err != nil {
				return err
			}
			if res != nil {
				changed = true
				project.WorkflowPhase = domain.ProjectPhase(res.To)
				project.WorkflowPhaseUpdatedAt = &now
				if err := txEvents.Append(ctx, &domain.WorkflowEvent{
					ID:        uuid.New().String(),
					Entity:    domain.EntityProject,
					EntityID:  project.ID,
					ProjectID: project.ID,
					ActorID:   actor.ID,
					Status:    res.To,
					Message:   workflow.EventMessage(domain.EntityProject, workflow.DomainProjectPhase, res.To),
					Metadata:  map[string]any{"note": res.Note, "from": res.From},
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}
		}

		// A same-phase request with no field edits leaves the row alone.
		if changed {
			project.UpdatedAt = now
			if err := txProjects.Update(ctx, project); err != nil {
				return err
			}
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
