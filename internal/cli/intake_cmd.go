package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/harlow-digital/atelier/internal/domain"
	"github.com/harlow-digital/atelier/internal/service"
)

func newIntakeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "intake",
		Short: "Submit a project intake interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("intake requires an interactive terminal")
			}
			ctx := cmd.Context()

			clients, err := app.Clients.List(ctx)
			if err != nil {
				return err
			}
			if len(clients) == 0 {
				return fmt.Errorf("no clients exist yet; create one first")
			}
			clientOpts := make([]huh.Option[string], 0, len(clients))
			for _, c := range clients {
				clientOpts = append(clientOpts, huh.NewOption(c.CompanyName, c.ID))
			}

			var (
				clientID string
				summary  string
				priority = string(domain.PriorityMedium)
				budget   string
				timeline string
			)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Client").
						Options(clientOpts...).
						Value(&clientID),
					huh.NewText().
						Title("Project summary").
						Placeholder("What does the client want built?").
						Validate(func(s string) error {
							if strings.TrimSpace(s) == "" {
								return fmt.Errorf("summary is required")
							}
							return nil
						}).
						Value(&summary),
					huh.NewSelect[string]().
						Title("Priority").
						Options(
							huh.NewOption("Low", string(domain.PriorityLow)),
							huh.NewOption("Medium", string(domain.PriorityMedium)),
							huh.NewOption("High", string(domain.PriorityHigh)),
							huh.NewOption("Urgent", string(domain.PriorityUrgent)),
						).
						Value(&priority),
					huh.NewInput().
						Title("Budget range").
						Placeholder("25k-50k").
						Value(&budget),
					huh.NewInput().
						Title("Timeline").
						Placeholder("Q1").
						Value(&timeline),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			formData := map[string]any{}
			if budget != "" {
				formData["budgetRange"] = budget
			}
			if timeline != "" {
				formData["timeline"] = timeline
			}

			actor := operatorActor(ctx, app.Users)
			intake, err := app.IntakeSvc.Submit(ctx, actor, service.SubmitIntakeInput{
				ClientID: clientID,
				Summary:  summary,
				Priority: priority,
				FormData: formData,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				render(styleGreen, "submitted intake"), intake.ID)
			return nil
		},
	}
}
