package service

import (
	"context"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
)

type activityService struct {
	events   repository.EventRepo
	projects repository.ProjectRepo
}

func NewActivityService(events repository.EventRepo, projects repository.ProjectRepo) ActivityService {
	return &activityService{events: events, projects: projects}
}

func (s *activityService) ListByProject(ctx context.Context, actor policy.Actor, projectID string) ([]*domain.WorkflowEvent, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewEvents, ownerRefsForProject(project)) {
		return nil, repository.ErrNotFound
	}
	return s.events.ListByProject(ctx, projectID)
}

func (s *activityService) ListByEntity(ctx context.Context, actor policy.Actor, entity, entityID string) ([]*domain.WorkflowEvent, error) {
	// Entity-scoped feeds are a staff surface.
	if !actor.Role.IsStaff() {
		return nil, policy.ErrForbidden
	}
	return s.events.ListByEntity(ctx, entity, entityID)
}
