package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harlow-digital/atelier/internal/domain"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a snapshot of work awaiting attention",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			pendingIntakes, err := app.Intakes.ListByStatus(ctx, domain.IntakeReviewPending)
			if err != nil {
				return err
			}
			awaiting, err := app.Proposals.ListByStatus(ctx, domain.ProposalClientApprovalPending)
			if err != nil {
				return err
			}
			overdue, err := app.Invoices.ListByStatus(ctx, domain.InvoiceOverdue)
			if err != nil {
				return err
			}
			sent, err := app.Invoices.ListByStatus(ctx, domain.InvoiceSent)
			if err != nil {
				return err
			}
			today := time.Now().UTC().Truncate(24 * time.Hour)
			for _, inv := range sent {
				if inv.DueDate.Before(today) {
					overdue = append(overdue, inv)
				}
			}

			fmt.Fprintln(out, header("INTAKES AWAITING REVIEW"))
			if len(pendingIntakes) == 0 {
				fmt.Fprintln(out, render(styleDim, "  none"))
			}
			for _, i := range pendingIntakes {
				fmt.Fprintf(out, "  %s  %s  %s\n",
					render(styleYellow, string(i.Status)), i.ID, i.Summary)
			}

			fmt.Fprintln(out, header("PROPOSALS AWAITING CLIENT DECISION"))
			if len(awaiting) == 0 {
				fmt.Fprintln(out, render(styleDim, "  none"))
			}
			for _, p := range awaiting {
				fmt.Fprintf(out, "  %s  %s  $%.2f\n",
					render(styleYellow, string(p.Status)), p.ID, float64(p.EstimateCents)/100)
			}

			fmt.Fprintln(out, header("OVERDUE INVOICES"))
			if len(overdue) == 0 {
				fmt.Fprintln(out, render(styleGreen, "  none"))
			}
			for _, inv := range overdue {
				fmt.Fprintf(out, "  %s  %s  $%.2f due %s\n",
					render(styleRed, inv.InvoiceNumber), inv.ID,
					float64(inv.AmountCents)/100, inv.DueDate.Format("2006-01-02"))
			}

			return nil
		},
	}
}
