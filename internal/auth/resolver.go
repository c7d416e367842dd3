package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
)

// Resolver turns bearer tokens into authorization actors.
type Resolver struct {
	secret  []byte
	users   repository.UserRepo
	clients repository.ClientRepo
}

func NewResolver(secret []byte, users repository.UserRepo, clients repository.ClientRepo) *Resolver {
	return &Resolver{secret: secret, users: users, clients: clients}
}

// ResolveActor verifies the token and loads the user it names. Client
// users additionally carry the client record they belong to.
func (r *Resolver) ResolveActor(ctx context.Context, token string) (policy.Actor, error) {
	userID, err := Verify(r.secret, token)
	if err != nil {
		return policy.Actor{}, err
	}
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return policy.Actor{}, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return policy.Actor{}, fmt.Errorf("resolve actor: %w", err)
	}
	actor := policy.Actor{ID: user.ID, Role: user.Role}
	if user.Role == domain.RoleClient {
		client, err := r.clients.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return policy.Actor{}, fmt.Errorf("%w: client user has no client record", ErrUnauthenticated)
			}
			return policy.Actor{}, fmt.Errorf("resolve actor: %w", err)
		}
		actor.ClientID = client.ID
	}
	return actor, nil
}
