package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/vaultctl/internal/app"
	"github.com/trebuchet-org/vaultctl/internal/cli/render"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// errAborted is returned when the user declines a confirmation
var errAborted = errors.New("aborted by user")

// NewDepositCmd creates the deposit command
func NewDepositCmd() *cobra.Command {
	var (
		wrap     bool
		strategy string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Request a deposit into the vault",
		Long: `Submit an asynchronous deposit request for <amount> of the vault's asset.

The submission strategy decides how the calls reach the chain:
  smart-account  one ERC-4337 user operation from the owner's smart account
  multicall      operator grant, then approve + requestDeposit through Multicall3
  sequential     wrap, approve and requestDeposit as separate transactions
  auto           smart-account (when a bundler is configured), then multicall

A failed strategy falls back to the next one; sequential is always last.`,
		Example: `  # Deposit 100 units of the asset
  vaultctl deposit 100

  # Wrap 0.5 native coin first, then deposit it, without prompting
  vaultctl deposit 0.5 --wrap --yes

  # Force plain transactions
  vaultctl deposit 10 --strategy sequential`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.SubmitDepositParams{
				Amount: args[0],
				Wrap:   wrap,
				Mode:   strategy,
			}

			plan, err := app.SubmitDeposit.Plan(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewDepositRenderer(cmd.OutOrStdout(), useColor(app), app.Config.Network)
			if !app.Config.JSON {
				if err := renderer.RenderPlan(plan); err != nil {
					return err
				}
			}

			if err := confirm(cmd, app, yes, "Submit deposit request"); err != nil {
				return err
			}

			result, err := app.SubmitDeposit.Execute(cmd.Context(), plan)
			finishProgress(app)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderStructured(cmd.OutOrStdout(), render.FormatJSON, result.Receipt)
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVar(&wrap, "wrap", false, "Wrap native currency into the vault asset first")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Submission strategy (auto, sequential, multicall, smart-account)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// confirm asks before broadcasting unless --yes was passed
func confirm(cmd *cobra.Command, a *app.App, yes bool, message string) error {
	if yes {
		return nil
	}
	ok, err := a.Prompter.Confirm(cmd.Context(), message)
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}

// NewCancelCmd creates the cancel command
func NewCancelCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the pending deposit request",
		Long: `Cancel the wallet's pending deposit request with a direct
cancelRequestDeposit() call. There is no batching and no fallback.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := confirm(cmd, app, yes, "Cancel pending deposit request"); err != nil {
				return err
			}

			result, err := app.CancelDeposit.Run(cmd.Context())
			finishProgress(app)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderStructured(cmd.OutOrStdout(), render.FormatJSON, result)
			}
			renderer := render.NewDepositRenderer(cmd.OutOrStdout(), useColor(app), app.Config.Network)
			return renderer.RenderCancel(result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// NewAccountCmd creates the account command
func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Show the wallet's smart account",
		Long: `Derive the counterfactual smart account owned by the configured wallet,
check whether it is deployed and cache its address in .vaultctl/storage.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.PrepareAccount.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to prepare smart account: %w", err)
			}

			if app.Config.JSON {
				return render.RenderStructured(cmd.OutOrStdout(), render.FormatJSON, result.Account)
			}
			return render.NewAccountRenderer(cmd.OutOrStdout(), useColor(app)).Render(result)
		},
	}

	cmd.Flags().String("backend", "", "Smart account implementation (safe, thirdweb)")

	return cmd
}
