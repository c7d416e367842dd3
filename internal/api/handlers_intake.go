package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlow-digital/atelier/internal/service"
)

type submitIntakeRequest struct {
	ClientID string         `json:"clientId"`
	Summary  string         `json:"summary"`
	Priority string         `json:"priority"`
	FormData map[string]any `json:"formData"`
}

func (s *Server) handleSubmitIntake(w http.ResponseWriter, r *http.Request) {
	var req submitIntakeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	intake, err := s.intakes.Submit(r.Context(), actorFrom(r), service.SubmitIntakeInput{
		ClientID: req.ClientID,
		Summary:  req.Summary,
		Priority: req.Priority,
		FormData: req.FormData,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIntakeView(intake))
}

func (s *Server) handleListIntakes(w http.ResponseWriter, r *http.Request) {
	intakes, err := s.intakes.List(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toIntakeViews(intakes))
}

func (s *Server) handleGetIntake(w http.ResponseWriter, r *http.Request) {
	intake, err := s.intakes.GetByID(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toIntakeView(intake))
}

type updateIntakeRequest struct {
	Status          *string         `json:"status"`
	TransitionNote  string          `json:"transitionNote"`
	Summary         *string         `json:"summary"`
	Priority        *string         `json:"priority"`
	AssignedAdminID *string         `json:"assignedAdminId"`
	Notes           *string         `json:"notes"`
	Checklist       map[string]bool `json:"checklist"`
}

func (s *Server) handleUpdateIntake(w http.ResponseWriter, r *http.Request) {
	var req updateIntakeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	intake, err := s.intakes.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), service.UpdateIntakeInput{
		Status:          req.Status,
		TransitionNote:  req.TransitionNote,
		Summary:         req.Summary,
		Priority:        req.Priority,
		AssignedAdminID: req.AssignedAdminID,
		Notes:           req.Notes,
		Checklist:       req.Checklist,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toIntakeView(intake))
}
