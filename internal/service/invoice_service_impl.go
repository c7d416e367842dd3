package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harlow-digital/atelier/internal/db"
	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/workflow"
)

type invoiceService struct {
	invoices repository.InvoiceRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
}

func NewInvoiceService(invoices repository.InvoiceRepo, projects repository.ProjectRepo, uow db.UnitOfWork) InvoiceService {
	return &invoiceService{invoices: invoices, projects: projects, uow: uow}
}

func (s *invoiceService) Create(ctx context.Context, actor policy.Actor, in CreateInvoiceInput) (*domain.Invoice, error) {
	project, err := s.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := policy.Require(actor, policy.ActionCreateInvoice, ownerRefsForProject(project)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := &domain.Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: in.InvoiceNumber,
		AmountCents:   in.AmountCents,
		Status:        domain.InvoiceStatus(workflow.Initial(workflow.DomainInvoice)),
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		ProjectID:     project.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// Date ordering and amount are checked before any store write.
	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInvoices := repository.NewSQLiteInvoiceRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		if err := txInvoices.Create(ctx, invoice); err != nil {
			return err
		}
		return txEvents.Append(ctx, &domain.WorkflowEvent{
			ID:        uuid.New().String(),
			Entity:    domain.EntityInvoice,
			EntityID:  invoice.ID,
			ProjectID: invoice.ProjectID,
			ActorID:   actor.ID,
			Status:    string(invoice.Status),
			Message:   workflow.EventMessage(domain.EntityInvoice, workflow.DomainInvoice, string(invoice.Status)),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, invoice.ProjectID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewInvoice, ownerRefsForProject(project)) {
		return nil, repository.ErrNotFound
	}
	return invoice, nil
}

func (s *invoiceService) ListByProject(ctx context.Context, actor policy.Actor, projectID string) ([]*domain.Invoice, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(actor, policy.ActionViewInvoice, ownerRefsForProject(project)) {
		return nil, repository.ErrNotFound
	}
	return s.invoices.ListByProject(ctx, projectID)
}

func (s *invoiceService) Update(ctx context.Context, actor policy.Actor, id string, in UpdateInvoiceInput) (*domain.Invoice, error) {
	var updated *domain.Invoice
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInvoices := repository.NewSQLiteInvoiceRepo(tx)
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txEvents := repository.NewSQLiteEventRepo(tx)

		invoice, err := txInvoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		project, err := txProjects.GetByID(ctx, invoice.ProjectID)
		if err != nil {
			return err
		}
		if err := policy.Require(actor, policy.ActionUpdateInvoice, ownerRefsForProject(project)); err != nil {
			return err
		}

		// Paid invoices are immutable.
		if invoice.Status == domain.InvoicePaid {
			if in.Status != nil && *in.Status != string(domain.InvoicePaid) {
				return fmt.Errorf("invoice cannot move %s -> %s: %w", invoice.Status, *in.Status, workflow.ErrTransitionNotAllowed)
			}
			if in.AmountCents != nil || in.DueDate != nil {
				return &domain.ValidationError{Field: "status", Message: "Paid invoices cannot be modified"}
			}
		}

		changed := in.AmountCents != nil || in.DueDate != nil
		if in.AmountCents != nil {
			invoice.AmountCents = *in.AmountCents
		}
		if in.DueDate != nil {
			invoice.DueDate = *in.DueDate
		}
		if err := invoice.Validate(); err != nil {
			return err
		}

		now := time.Now().UTC()
		if in.Status != nil {
			res, err := workflow.Apply(workflow.DomainInvoice, string(invoice.Status), *in.Status, workflow.Context{ActorID: actor.ID})
			if err != nil {
				return err
			}
			if res != nil {
				changed = true
				invoice.Status = domain.InvoiceStatus(res.To)
				if err := txEvents.Append(ctx, &domain.WorkflowEvent{
					ID:        uuid.New().String(),
					Entity:    domain.EntityInvoice,
					EntityID:  invoice.ID,
					ProjectID: invoice.ProjectID,
					ActorID:   actor.ID,
					Status:    res.To,
					Message:   workflow.EventMessage(domain.EntityInvoice, workflow.DomainInvoice, res.To),
					Metadata:  map[string]any{"from": res.From},
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}
		}

		// A same-status request with no field edits leaves the row alone.
		if changed {
			invoice.UpdatedAt = now
			if err := txInvoices.Update(ctx, invoice); err != nil {
				return err
			}
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *invoiceService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, invoice.ProjectID)
	if err != nil {
		return err
	}
	if err := policy.Require(actor, policy.ActionDeleteInvoice, ownerRefsForProject(project)); err != nil {
		return err
	}
	// Only drafts may be deleted; issued invoices are permanent records.
	if invoice.Status != domain.InvoiceDraft {
		return &domain.ValidationError{Field: "status", Message: "Only draft invoices can be deleted"}
	}
	return s.invoices.Delete(ctx, id)
}

// NextNumber suggests the next sequential invoice number for the
// current year, formatted INV-YYYY-NNNN.
func (s *invoiceService) NextNumber(ctx context.Context, actor policy.Actor) (string, error) {
	if !actor.Role.IsStaff() {
		return "", policy.ErrForbidden
	}
	year := time.Now().UTC().Year()
	n, err := s.invoices.CountByYear(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%04d-%04d", year, n+1), nil
}
