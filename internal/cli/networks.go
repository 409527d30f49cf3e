package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/vaultctl/internal/cli/render"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks configured in vaultctl.toml",
		Long: `List all networks configured in the [networks] section of vaultctl.toml.

The active network (selected with --network, or the only configured one) is
marked with an asterisk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			// Run use case
			params := usecase.ListNetworksParams{}
			result, err := app.ListNetworks.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderStructured(cmd.OutOrStdout(), render.FormatJSON, networksJSON(result))
			}

			// Render output
			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), useColor(app))
			return renderer.RenderNetworksList(result)
		},
	}

	return cmd
}

type networkJSON struct {
	Name        string `json:"name"`
	ChainID     uint64 `json:"chainId,omitempty"`
	Vault       string `json:"vault,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Active      bool   `json:"active"`
	Error       string `json:"error,omitempty"`
}

func networksJSON(result *usecase.ListNetworksResult) []networkJSON {
	return lo.Map(result.Networks, func(n usecase.NetworkStatus, _ int) networkJSON {
		out := networkJSON{
			Name:        n.Name,
			ChainID:     n.ChainID,
			Vault:       n.Vault,
			ExplorerURL: n.ExplorerURL,
			Active:      n.Name == result.Active,
		}
		if n.Error != nil {
			out.Error = n.Error.Error()
		}
		return out
	})
}
