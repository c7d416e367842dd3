package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harlow-digital/atelier/internal/service"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectViews(projects))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.GetByID(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(project))
}

type updateProjectRequest struct {
	Name           *string `json:"name"`
	Status         *string `json:"status"`
	WorkflowPhase  *string `json:"workflowPhase"`
	TransitionNote string  `json:"transitionNote"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	in := service.UpdateProjectInput{
		Name:           req.Name,
		Status:         req.Status,
		WorkflowPhase:  req.WorkflowPhase,
		TransitionNote: req.TransitionNote,
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		in.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		in.EndDate = d
	}
	project, err := s.projects.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectView(project))
}

func (s *Server) handleListEventsByProject(w http.ResponseWriter, r *http.Request) {
	events, err := s.activity.ListByProject(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventViews(events))
}

func (s *Server) handleListEventsByEntity(w http.ResponseWriter, r *http.Request) {
	events, err := s.activity.ListByEntity(r.Context(), actorFrom(r), chi.URLParam(r, "entity"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventViews(events))
}
