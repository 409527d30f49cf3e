package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/vaultctl/internal/app"
	"github.com/trebuchet-org/vaultctl/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vaultctl",
		Short: "Vault activity and deposit client",
		Long: `vaultctl lists a vault's activity and submits or cancels asynchronous
deposit requests, either as plain transactions, as one Multicall3 batch or
as one ERC-4337 user operation from a Safe or thirdweb smart account.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// Find project root
			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			// Set up viper with every flag of this command bound
			v := config.SetupViper(projectRoot, cmd)

			// Initialize app with DI
			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				// Store cancel func to be called on command completion
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output machine-readable JSON")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (name or chain ID from vaultctl.toml)")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	activityCmd := NewActivityCmd()
	activityCmd.GroupID = "main"
	rootCmd.AddCommand(activityCmd)

	depositCmd := NewDepositCmd()
	depositCmd.GroupID = "main"
	rootCmd.AddCommand(depositCmd)

	cancelCmd := NewCancelCmd()
	cancelCmd.GroupID = "main"
	rootCmd.AddCommand(cancelCmd)

	// Management commands
	accountCmd := NewAccountCmd()
	accountCmd.GroupID = "management"
	rootCmd.AddCommand(accountCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	// Version command
	versionCmd := NewVersionCmd()
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// finishProgress stops a running spinner before the result is printed
func finishProgress(a *app.App) {
	if done, ok := a.Progress.(interface{ Done() }); ok {
		done.Done()
	}
}

// useColor reports whether renderers should emit ANSI colors
func useColor(a *app.App) bool {
	return !a.Config.NonInteractive && !a.Config.JSON
}
