package config

import (
	"context"

	"github.com/trebuchet-org/vaultctl/internal/config"
	domainconfig "github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// NetworkResolverAdapter resolves networks from the project's vaultctl.toml
type NetworkResolverAdapter struct {
	vaultFile *domainconfig.VaultFileConfig
	active    string
}

// NewNetworkResolverAdapter creates a new adapter
func NewNetworkResolverAdapter(cfg *domainconfig.RuntimeConfig) *NetworkResolverAdapter {
	a := &NetworkResolverAdapter{vaultFile: cfg.VaultFile}
	if cfg.Network != nil {
		a.active = cfg.Network.Name
	}
	return a
}

// GetNetworks returns all configured network names
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return config.NetworkNames(a.vaultFile)
}

// ResolveNetwork resolves a network name or chain ID to its configuration
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, name string) (*usecase.NetworkInfo, error) {
	network, err := config.ResolveNetwork(a.vaultFile, name)
	if err != nil {
		return nil, err
	}
	return &usecase.NetworkInfo{
		Name:        network.Name,
		ChainID:     network.ChainID,
		Vault:       network.Vault.Hex(),
		ExplorerURL: network.ExplorerURL,
	}, nil
}

// ActiveNetwork returns the network selected for this run, if any
func (a *NetworkResolverAdapter) ActiveNetwork() string {
	return a.active
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
