// Package cli implements the atelier command-line surface.
package cli

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/harlow-digital/atelier/internal/api"
	"github.com/harlow-digital/atelier/internal/config"
	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/service"
)

// App holds everything CLI commands need: configuration, repositories
// for operator queries, and the service layer for mutations.
type App struct {
	Config config.Config
	Logger *slog.Logger
	DB     *sql.DB

	Users     repository.UserRepo
	Clients   repository.ClientRepo
	Intakes   repository.IntakeRepo
	Proposals repository.ProposalRepo
	Invoices  repository.InvoiceRepo

	IntakeSvc service.IntakeService
	ClientSvc service.ClientService

	Server *api.Server

	// IsInteractive reports whether stdin is a terminal; the intake
	// form refuses to run without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "atelier" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "atelier",
		Short: "Client engagement workflow platform",
	}

	root.AddCommand(
		newServeCmd(app),
		newMigrateCmd(app),
		newSeedCmd(app),
		newTokenCmd(app),
		newStatusCmd(app),
		newIntakeCmd(app),
	)

	return root
}

// operatorActor resolves the actor CLI commands run as: the first
// admin user when one exists, otherwise a synthetic local admin so a
// fresh database can still be seeded.
func operatorActor(ctx context.Context, users repository.UserRepo) policy.Actor {
	admins, err := users.ListByRole(ctx, domain.RoleAdmin)
	if err == nil && len(admins) > 0 {
		return policy.Actor{ID: admins[0].ID, Role: domain.RoleAdmin}
	}
	return policy.Actor{ID: "local-operator", Role: domain.RoleAdmin}
}
