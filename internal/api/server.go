// Package api exposes the platform over an authenticated JSON HTTP
// surface.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harlow-digital/atelier/internal/auth"
	"github.com/harlow-digital/atelier/internal/service"
)

type Server struct {
	logger    *slog.Logger
	resolver  *auth.Resolver
	intakes   service.IntakeService
	proposals service.ProposalService
	projects  service.ProjectService
	tasks     service.TaskService
	invoices  service.InvoiceService
	clients   service.ClientService
	activity  service.ActivityService
}

type Services struct {
	Intakes   service.IntakeService
	Proposals service.ProposalService
	Projects  service.ProjectService
	Tasks     service.TaskService
	Invoices  service.InvoiceService
	Clients   service.ClientService
	Activity  service.ActivityService
}

func NewServer(logger *slog.Logger, resolver *auth.Resolver, svcs Services) *Server {
	return &Server{
		logger:    logger,
		resolver:  resolver,
		intakes:   svcs.Intakes,
		proposals: svcs.Proposals,
		projects:  svcs.Projects,
		tasks:     svcs.Tasks,
		invoices:  svcs.Invoices,
		clients:   svcs.Clients,
		activity:  svcs.Activity,
	}
}

// Router builds the full route tree. Everything under /api requires a
// valid bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireActor)

		r.Get("/me", s.handleMe)

		r.Route("/intakes", func(r chi.Router) {
			r.Post("/", s.handleSubmitIntake)
			r.Get("/", s.handleListIntakes)
			r.Get("/{id}", s.handleGetIntake)
			r.Patch("/{id}", s.handleUpdateIntake)
			r.Get("/{id}/proposals", s.handleListProposalsByIntake)
		})

		r.Route("/proposals", func(r chi.Router) {
			r.Post("/", s.handleCreateProposal)
			r.Get("/{id}", s.handleGetProposal)
			r.Patch("/{id}", s.handleUpdateProposal)
			r.Post("/{id}/respond", s.handleRespondProposal)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Get("/{id}", s.handleGetProject)
			r.Patch("/{id}", s.handleUpdateProject)
			r.Get("/{id}/tasks", s.handleListTasksByProject)
			r.Get("/{id}/invoices", s.handleListInvoicesByProject)
			r.Get("/{id}/events", s.handleListEventsByProject)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.handleCreateTask)
			r.Get("/{id}", s.handleGetTask)
			r.Patch("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
			r.Get("/{id}/history", s.handleTaskHistory)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", s.handleCreateInvoice)
			r.Get("/next-number", s.handleNextInvoiceNumber)
			r.Get("/{id}", s.handleGetInvoice)
			r.Patch("/{id}", s.handleUpdateInvoice)
			r.Delete("/{id}", s.handleDeleteInvoice)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", s.handleCreateClient)
			r.Get("/", s.handleListClients)
			r.Get("/{id}", s.handleGetClient)
			r.Patch("/{id}", s.handleUpdateClient)
		})

		r.Get("/events/{entity}/{id}", s.handleListEventsByEntity)
	})

	return r
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":       actor.ID,
		"role":     string(actor.Role),
		"clientId": actor.ClientID,
	})
}
