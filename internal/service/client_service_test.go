package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
)

func TestClientService_StaffOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedStaff(t, "Ada Admin", domain.RoleAdmin)
	_, clientActor := env.seedClientAccount(t, "Acme")

	svc := NewClientService(env.clients)

	created, err := svc.Create(ctx, admin, CreateClientInput{
		CompanyName: "Northwind Traders",
		ContactName: "Nora North",
		Email:       "nora@northwind.test",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = svc.Create(ctx, clientActor, CreateClientInput{CompanyName: "Shadow Co"})
	assert.ErrorIs(t, err, policy.ErrForbidden)

	_, err = svc.List(ctx, clientActor)
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

func TestClientService_CreateValidates(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedStaff(t, "Ada Admin", domain.RoleAdmin)

	svc := NewClientService(env.clients)
	_, err := svc.Create(context.Background(), admin, CreateClientInput{})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "companyName", vErr.Field)
}

func TestClientService_UpdateReplacesProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedStaff(t, "Ada Admin", domain.RoleAdmin)
	client, _ := env.seedClientAccount(t, "Acme")

	svc := NewClientService(env.clients)
	got, err := svc.Update(ctx, admin, client.ID, CreateClientInput{
		CompanyName: "Acme Industries",
		ContactName: "Wile E.",
		Email:       "wile@acme.test",
		Website:     "https://acme.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Industries", got.CompanyName)
	assert.Equal(t, "https://acme.test", got.Website)
	// Portal login link survives a profile rewrite.
	assert.Equal(t, client.UserID, got.UserID)
}
