package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
)

type clientService struct {
	clients repository.ClientRepo
}

func NewClientService(clients repository.ClientRepo) ClientService {
	return &clientService{clients: clients}
}

func (s *clientService) Create(ctx context.Context, actor policy.Actor, in CreateClientInput) (*domain.Client, error) {
	if err := policy.Require(actor, policy.ActionManageClients, policy.OwnerRefs{}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Client{
		ID:          uuid.New().String(),
		CompanyName: in.CompanyName,
		ContactName: in.ContactName,
		Email:       in.Email,
		Phone:       in.Phone,
		Website:     in.Website,
		Notes:       in.Notes,
		UserID:      in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) GetByID(ctx context.Context, actor policy.Actor, id string) (*domain.Client, error) {
	if err := policy.Require(actor, policy.ActionManageClients, policy.OwnerRefs{}); err != nil {
		return nil, err
	}
	return s.clients.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context, actor policy.Actor) ([]*domain.Client, error) {
	if err := policy.Require(actor, policy.ActionManageClients, policy.OwnerRefs{}); err != nil {
		return nil, err
	}
	return s.clients.List(ctx)
}

func (s *clientService) Update(ctx context.Context, actor policy.Actor, id string, in CreateClientInput) (*domain.Client, error) {
	if err := policy.Require(actor, policy.ActionManageClients, policy.OwnerRefs{}); err != nil {
		return nil, err
	}

	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.CompanyName = in.CompanyName
	c.ContactName = in.ContactName
	c.Email = in.Email
	c.Phone = in.Phone
	c.Website = in.Website
	c.Notes = in.Notes
	if in.UserID != nil {
		c.UserID = in.UserID
	}
	c.UpdatedAt = time.Now().UTC()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
