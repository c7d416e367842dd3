package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/service"
)

type createProposalRequest struct {
	IntakeID        string            `json:"intakeId"`
	Summary         string            `json:"summary"`
	LineItems       []domain.LineItem `json:"lineItems"`
	SelectedModules []string          `json:"selectedModules"`
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var req createProposalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	proposal, err := s.proposals.Create(r.Context(), actorFrom(r), service.CreateProposalInput{
		IntakeID:        req.IntakeID,
		Summary:         req.Summary,
		LineItems:       req.LineItems,
		SelectedModules: req.SelectedModules,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProposalView(proposal))
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := s.proposals.GetByID(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalView(proposal))
}

func (s *Server) handleListProposalsByIntake(w http.ResponseWriter, r *http.Request) {
	proposals, err := s.proposals.ListByIntake(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalViews(proposals))
}

type updateProposalRequest struct {
	Status          *string           `json:"status"`
	Summary         *string           `json:"summary"`
	LineItems       []domain.LineItem `json:"lineItems"`
	SelectedModules []string          `json:"selectedModules"`
}

func (s *Server) handleUpdateProposal(w http.ResponseWriter, r *http.Request) {
	var req updateProposalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	proposal, err := s.proposals.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), service.UpdateProposalInput{
		Status:          req.Status,
		Summary:         req.Summary,
		LineItems:       req.LineItems,
		SelectedModules: req.SelectedModules,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalView(proposal))
}

type respondProposalRequest struct {
	Action  string `json:"action"`
	Comment string `json:"comment"`
}

func (s *Server) handleRespondProposal(w http.ResponseWriter, r *http.Request) {
	var req respondProposalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	proposal, err := s.proposals.Respond(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.Action, req.Comment)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalView(proposal))
}
