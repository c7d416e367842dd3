package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/service"
)

type createInvoiceRequest struct {
	ProjectID     string `json:"projectId"`
	InvoiceNumber string `json:"invoiceNumber"`
	AmountCents   int64  `json:"amountCents"`
	IssueDate     string `json:"issueDate"`
	DueDate       string `json:"dueDate"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	issue, err := requireDate("issueDate", req.IssueDate)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	due, err := requireDate("dueDate", req.DueDate)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	invoice, err := s.invoices.Create(r.Context(), actorFrom(r), service.CreateInvoiceInput{
		ProjectID:     req.ProjectID,
		InvoiceNumber: req.InvoiceNumber,
		AmountCents:   req.AmountCents,
		IssueDate:     issue,
		DueDate:       due,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceView(invoice))
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.invoices.GetByID(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceView(invoice))
}

func (s *Server) handleListInvoicesByProject(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.invoices.ListByProject(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceViews(invoices))
}

type updateInvoiceRequest struct {
	Status      *string `json:"status"`
	AmountCents *int64  `json:"amountCents"`
	DueDate     *string `json:"dueDate"`
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req updateInvoiceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	in := service.UpdateInvoiceInput{
		Status:      req.Status,
		AmountCents: req.AmountCents,
	}
	if req.DueDate != nil {
		d, err := requireDate("dueDate", *req.DueDate)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		in.DueDate = &d
	}
	invoice, err := s.invoices.Update(r.Context(), actorFrom(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceView(invoice))
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.invoices.Delete(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNextInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	number, err := s.invoices.NextNumber(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"invoiceNumber": number})
}

func requireDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Message: "Dates must use YYYY-MM-DD"}
	}
	return t, nil
}
