package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:   out,
		color: color,
	}
}

// RenderNetworksList renders the list of configured networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in vaultctl.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{PaddingRight: "  ", MiddleHorizontal: "─"}
	t.AppendHeader(table.Row{"", "NETWORK", "CHAIN ID", "VAULT", "EXPLORER"})

	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Active {
			marker = "*"
		}
		if network.Error != nil {
			msg := "❌ " + network.Error.Error()
			t.AppendRow(table.Row{marker, network.Name, styled(r.color, failedStyle, msg), "", ""})
			continue
		}
		t.AppendRow(table.Row{marker, network.Name, network.ChainID, network.Vault, network.ExplorerURL})
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}
