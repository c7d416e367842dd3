package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harlow-digital/atelier/internal/auth"
	"github.com/harlow-digital/atelier/internal/repository"
)

func newTokenCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.RequireSecret(); err != nil {
				return err
			}
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			user, err := app.Users.GetByEmail(cmd.Context(), email)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("no user with email %s", email)
				}
				return err
			}
			token, err := auth.Mint([]byte(app.Config.JWTSecret), user.ID, app.Config.TokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the user to mint a token for")

	return cmd
}
