package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/harlow-digital/atelier/internal/auth"
	"github.com/harlow-digital/atelier/internal/policy"
)

type contextKey string

const actorKey contextKey = "actor"

// requireActor rejects requests without a valid bearer token and stores
// the resolved actor on the request context.
func (s *Server) requireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, s.logger, auth.ErrUnauthenticated)
			return
		}
		actor, err := s.resolver.ResolveActor(r.Context(), token)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) policy.Actor {
	actor, _ := r.Context().Value(actorKey).(policy.Actor)
	return actor
}
