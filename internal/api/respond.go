package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/harlow-digital/atelier/internal/auth"
	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/workflow"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError translates domain, workflow, and policy errors into HTTP
// responses. Unrecognized errors become a 500 with a generic body so
// internals never leak to callers.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
	case errors.Is(err, policy.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, repository.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: vErr.Message, Field: vErr.Field})
	case errors.Is(err, workflow.ErrNoteRequired),
		errors.Is(err, workflow.ErrInvalidStatus),
		errors.Is(err, workflow.ErrTransitionNotAllowed),
		errors.Is(err, workflow.ErrUnknownDomain):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domain.ValidationError{Field: "body", Message: "Invalid JSON body"}
	}
	return nil
}
