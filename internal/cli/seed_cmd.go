package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/policy"
	"github.com/harlow-digital/atelier/internal/service"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a demo dataset (users, client, sample intake)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			existing, err := app.Users.ListByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return fmt.Errorf("checking for existing admin: %w", err)
			}
			if len(existing) > 0 {
				fmt.Fprintln(out, render(styleYellow, "database already seeded, nothing to do"))
				return nil
			}

			now := time.Now().UTC()
			admin, err := seedUser(ctx, app, "admin@atelier.test", "Ada Admin", domain.RoleAdmin, now)
			if err != nil {
				return err
			}
			if _, err := seedUser(ctx, app, "pm@atelier.test", "Petra Manager", domain.RoleProjectManager, now); err != nil {
				return err
			}
			if _, err := seedUser(ctx, app, "dev@atelier.test", "Devin Coder", domain.RoleDeveloper, now); err != nil {
				return err
			}
			clientUser, err := seedUser(ctx, app, "client@acme.test", "Casey Client", domain.RoleClient, now)
			if err != nil {
				return err
			}

			adminActor := policy.Actor{ID: admin.ID, Role: domain.RoleAdmin}
			client, err := app.ClientSvc.Create(ctx, adminActor, service.CreateClientInput{
				CompanyName: "Acme Industries",
				ContactName: "Casey Client",
				Email:       "billing@acme.test",
				Website:     "https://acme.test",
				UserID:      &clientUser.ID,
			})
			if err != nil {
				return fmt.Errorf("creating demo client: %w", err)
			}

			clientActor := policy.Actor{ID: clientUser.ID, Role: domain.RoleClient, ClientID: client.ID}
			intake, err := app.IntakeSvc.Submit(ctx, clientActor, service.SubmitIntakeInput{
				Summary:  "Marketing site redesign with a customer portal",
				Priority: string(domain.PriorityHigh),
				FormData: map[string]any{
					"budgetRange": "25k-50k",
					"timeline":    "Q1",
				},
			})
			if err != nil {
				return fmt.Errorf("submitting demo intake: %w", err)
			}

			fmt.Fprintln(out, render(styleGreen, "seeded demo dataset"))
			fmt.Fprintf(out, "  admin   %s\n", admin.Email)
			fmt.Fprintf(out, "  client  %s (%s)\n", client.CompanyName, clientUser.Email)
			fmt.Fprintf(out, "  intake  %s  %s\n", intake.ID, render(styleDim, intake.Summary))
			return nil
		},
	}
}

func seedUser(ctx context.Context, app *App, email, name string, role domain.Role, now time.Time) (*domain.User, error) {
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := app.Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user %s: %w", email, err)
	}
	return u, nil
}
