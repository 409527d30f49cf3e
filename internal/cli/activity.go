package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/vaultctl/internal/cli/render"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// NewActivityCmd creates the activity command
func NewActivityCmd() *cobra.Command {
	var (
		filterName   string
		output       string
		interactive  bool
		selectFilter bool
		refresh      bool
	)

	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"ls"},
		Short:   "List vault activity",
		Long: `List deposits, withdrawals, claims, redemptions and share transfers of the
vault on the active network, newest first.

Filters: all, cancellable, deposit, withdraw, claim, redeem, claim_and_redeem, transfers.`,
		Example: `  # Show everything
  vaultctl activity

  # Only deposit requests that can still be cancelled
  vaultctl activity --filter cancellable

  # Browse interactively (tab: filter, c: cancel, r: refresh, q: quit)
  vaultctl activity -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			filter, err := domain.ParseActivityFilter(filterName)
			if err != nil {
				return err
			}
			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}
			if app.Config.JSON {
				format = render.FormatJSON
			}

			if selectFilter {
				filter, err = app.Prompter.SelectFilter(cmd.Context(), filter)
				if err != nil {
					return err
				}
			}

			if interactive {
				if app.Config.NonInteractive || format != render.FormatTable {
					return fmt.Errorf("--interactive cannot be combined with --non-interactive or structured output")
				}
				return runActivityTUI(cmd, app, filter)
			}

			// Run use case
			result, err := app.ListActivity.Run(cmd.Context(), usecase.ListActivityParams{
				Filter:  filter,
				Refresh: refresh,
			})
			if err != nil {
				return err
			}

			// Render output
			renderer := render.NewActivityRenderer(cmd.OutOrStdout(), useColor(app), app.Config.Network)
			return renderer.Render(result, format)
		},
	}

	cmd.Flags().StringVarP(&filterName, "filter", "f", "all", "Filter activity (all, cancellable, deposit, withdraw, claim, redeem, claim_and_redeem, transfers)")
	cmd.Flags().StringVarP(&output, "output", "o", render.FormatTable, "Output format (table, json, yaml)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse activity in an interactive view")
	cmd.Flags().BoolVar(&selectFilter, "select-filter", false, "Pick the filter from a list")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass cached activity data")

	return cmd
}
