package service

import (
	"context"
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

type taskService struct {
	tasks    repository.TaskRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, projects repository.ProjectRepo, uow db.UnitOfWork, observer UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, projects: projects, uow: uow, observer: observer}
}

func (s *taskService) Create(ctx context.Context, actor policy.Actor, in CreateTaskInput) (*domain.Task, error) {
	project, err := s.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	refs := ownerRefsForProject(project)
	if err := policy.Require(actor, policy.ActionCreateTask, refs); err != nil {
		return nil, err
	}

	// Creation is a transition out of "not yet existing": an initial
	// requires-note status demands a note just like an update would,
	// and an unknown status falls back to BACKLOG.
	res, err := workflow.Apply(workflow.DomainTask, "", in.Status, workflow.Context{
		ActorID: actor.ID,
		Note:    in.TransitionNote,
		Create:  true,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:             uuid.New().String(),
		ProjectID:      project.ID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         domain.TaskStatus(res.To),
		Priority:       domain.TaskPriority(in.Priority),
		DueDate:        in.DueDate,
		AssigneeID:     in.AssigneeID,
		IsDeliverable:  in.IsDeliverable,
		DeliverableKey: in.DeliverableKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		if err := txTasks.Create(ctx, task); err != nil {
			return err
		}
		if err := txTasks.AppendHistory(ctx, &domain.TaskHistoryEntry{
			ID:         uuid.New().String(),
			TaskID:     task.ID,
			FromStatus: task.Status,
			ToStatus:   task.Status,
			Note:       res.Note,
			ActorID:    actor.ID,
			Context:    "create",
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		return txEvents.Append(ctx, &domain.WorkflowEvent{
			ID:        uuid.New().String(),
			Entity:    domain.EntityTask,
			EntityID:  task.ID,
			ProjectID: task.ProjectID,
			ActorID:   actor.ID,
			Status:    string(task.Status),
			Message:   workflow.EventMessage(domain.EntityTask, workflow.DomainTask, string(task.Status)),
			Metadata:  map[string]any{"note": res.Note},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewTask, ownerRefsForProject(project)) {
		return nil, repository.ErrNotFound
	}
	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, actor policy.Actor, projectID string) ([]*domain.Task, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewTask, ownerRefsForProject(project)) {
		return nil, repository.ErrNotFound
	}
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, actor policy.Actor, id string, in UpdateTaskInput) (task *domain.Task, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "task.update", start, err, map[string]any{"task_id": id})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		project, err := txProjects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		if err := policy.Require(actor, policy.ActionUpdateTask, ownerRefsForProject(project)); err != nil {
			return err
		}

		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Priority != nil {
			t.Priority = domain.TaskPriority(*in.Priority)
		}
		if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		if in.AssigneeID != nil {
			t.AssigneeID = in.AssigneeID
		}
		if err := t.Validate(); err != nil {
			return err
		}

		now := time.Now().UTC()
		if in.Status != nil {
			res, err := workflow.Apply(workflow.DomainTask, string(t.Status), *in.Status, workflow.Context{
				ActorID: actor.ID,
				Note:    in.TransitionNote,
			})
			if err != nil {
				return err
			}
			if res != nil {
				from := t.Status
				t.Status = domain.TaskStatus(res.To)
				if err := txTasks.AppendHistory(ctx, &domain.TaskHistoryEntry{
					ID:         uuid.New().String(),
					TaskID:     t.ID,
					FromStatus: from,
					ToStatus:   t.Status,
					Note:       res.Note,
					ActorID:    actor.ID,
					CreatedAt:  now,
				}); err != nil {
					return err
				}
				if err := txEvents.Append(ctx, &domain.WorkflowEvent{
					ID:        uuid.New().String(),
					Entity:    domain.EntityTask,
					EntityID:  t.ID,
					ProjectID: t.ProjectID,
					ActorID:   actor.ID,
					Status:    res.To,
					Message:   workflow.EventMessage(domain.EntityTask, workflow.DomainTask, res.To),
					Metadata:  map[string]any{"note": res.Note, "from": res.From},
					CreatedAt: now,
				}); err != nil {
					return err
				}
				t.UpdatedAt = now
			}
		}

		if in.DeferNote != "" {
			if strings.TrimSpace(in.DeferNote) == "" {
				return fmt.Errorf("a note is required to defer billing: %w", workflow.ErrNoteRequired)
			}
			// Billing deferment is a side-note: status unchanged.
			if err := txTasks.AppendHistory(ctx, &domain.TaskHistoryEntry{
				ID:         uuid.New().String(),
				TaskID:     t.ID,
				FromStatus: t.Status,
				ToStatus:   t.Status,
				Note:       strings.TrimSpace(in.DeferNote),
				ActorID:    actor.ID,
				Context:    domain.HistoryContextBillingDeferment,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			t.UpdatedAt = now
		}

		if in.Title != nil || in.Description != nil || in.Priority != nil ||
			in.DueDate != nil || in.AssigneeID != nil {
			t.UpdatedAt = now
		}

		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if err := policy.Require(actor, policy.ActionDeleteTask, ownerRefsForProject(project)); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) History(ctx context.Context, actor policy.Actor, id string) ([]*domain.TaskHistoryEntry, error) {
	if _, err := s.GetByID(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.tasks.ListHistory(ctx, id)
}

// ownerRefsForProject extracts the ownership facts policy decisions
// need from a project record.
func ownerRefsForProject(p *domain.Project) policy.OwnerRefs {
	refs := policy.OwnerRefs{ClientID: p.ClientID}
	if p.ProjectManagerID != nil {
		refs.ProjectManagerID = *p.ProjectManagerID
	}
	return refs
}
