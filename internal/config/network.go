package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
)

// Well-known deployments shared by every supported chain
var (
	// Multicall3Address is the canonical Multicall3 deployment
	Multicall3Address = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

	// EntryPointV07Address is the canonical ERC-4337 EntryPoint v0.7 deployment
	EntryPointV07Address = common.HexToAddress("0x0000000071727De22E5E9d8BAf0edAc6f37da032")
)

// knownExplorers provides explorer URLs for chains whose config omits one
var knownExplorers = map[uint64]string{
	1:        "https://etherscan.io",
	11155111: "https://sepolia.etherscan.io",
	10:       "https://optimistic.etherscan.io",
	42161:    "https://arbiscan.io",
	137:      "https://polygonscan.com",
	8453:     "https://basescan.org",
	84532:    "https://sepolia.basescan.org",
	43114:    "https://snowtrace.io",
	56:       "https://bscscan.com",
	42220:    "https://celoscan.io",
	100:      "https://gnosisscan.io",
}

// PimlicoBundlerURL builds the Pimlico bundler endpoint for a chain
func PimlicoBundlerURL(chainID uint64, apiKey string) string {
	return fmt.Sprintf("https://api.pimlico.io/v2/%d/rpc?add_balance_override&apikey=%s", chainID, url.QueryEscape(apiKey))
}

// PimlicoPaymasterURL builds the Pimlico paymaster endpoint for a chain
func PimlicoPaymasterURL(chainID uint64, apiKey string) string {
	return fmt.Sprintf("https://api.pimlico.io/v2/%d/rpc?apikey=%s", chainID, url.QueryEscape(apiKey))
}

// NetworkNames returns the configured network names, sorted
func NetworkNames(vf *config.VaultFileConfig) []string {
	if vf == nil {
		return nil
	}
	names := make([]string, 0, len(vf.Networks))
	for name := range vf.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveNetwork resolves a network by name or chain ID from vaultctl.toml.
// An empty name selects the only configured network when there is exactly one.
func ResolveNetwork(vf *config.VaultFileConfig, name string) (*config.Network, error) {
	if vf == nil || len(vf.Networks) == 0 {
		return nil, domain.MissingConfigError{Key: "network", Hint: "add a [networks.<name>] table to " + VaultFileName}
	}

	if name == "" {
		if len(vf.Networks) != 1 {
			return nil, domain.MissingConfigError{
				Key:  "network",
				Hint: "use --network with one of: " + strings.Join(NetworkNames(vf), ", "),
			}
		}
		name = NetworkNames(vf)[0]
	}

	raw, ok := vf.Networks[name]
	if !ok {
		raw, name, ok = findByChainID(vf, name)
	}
	if !ok {
		return nil, fmt.Errorf("unknown network: %s", name)
	}

	return buildNetwork(name, raw)
}

func findByChainID(vf *config.VaultFileConfig, input string) (config.NetworkFileConfig, string, bool) {
	chainID, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return config.NetworkFileConfig{}, input, false
	}
	for name, raw := range vf.Networks {
		if raw.ChainID == chainID {
			return raw, name, true
		}
	}
	return config.NetworkFileConfig{}, input, false
}

func buildNetwork(name string, raw config.NetworkFileConfig) (*config.Network, error) {
	if raw.ChainID == 0 {
		return nil, domain.MissingConfigError{Key: fmt.Sprintf("networks.%s.chain_id", name)}
	}
	if !common.IsHexAddress(raw.Vault) {
		return nil, fmt.Errorf("networks.%s.vault: %w: %q", name, domain.ErrMissingConfig, raw.Vault)
	}

	network := &config.Network{
		ChainID:     raw.ChainID,
		Name:        name,
		RPCURL:      raw.RPCURL,
		ExplorerURL: strings.TrimRight(raw.ExplorerURL, "/"),
		Vault:       common.HexToAddress(raw.Vault),
		Multicall3:  Multicall3Address,
		EntryPoint:  EntryPointV07Address,
	}

	if network.ExplorerURL == "" {
		network.ExplorerURL = knownExplorers[raw.ChainID]
	}

	overrides := []struct {
		key    string
		value  string
		target *common.Address
	}{
		{"wrapped_native", raw.WrappedNative, &network.WrappedNative},
		{"multicall3", raw.Multicall3, &network.Multicall3},
		{"entry_point", raw.EntryPoint, &network.EntryPoint},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		if !common.IsHexAddress(o.value) {
			return nil, fmt.Errorf("networks.%s.%s: invalid address %q", name, o.key, o.value)
		}
		*o.target = common.HexToAddress(o.value)
	}

	return network, nil
}
