package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
)

// VaultFileName is the project configuration file vaultctl looks for
const VaultFileName = "vaultctl.toml"

// loadDotEnv loads .env files from the project root without overriding the process environment
func loadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadVaultFile loads and parses vaultctl.toml if it exists.
// Returns (nil, nil) when the file does not exist.
func loadVaultFile(projectRoot string) (*config.VaultFileConfig, error) {
	path := filepath.Join(projectRoot, VaultFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.VaultFileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", VaultFileName, err)
	}

	cfg.API.BaseURL = os.ExpandEnv(cfg.API.BaseURL)

	// Expand environment variables in all network string fields
	for name, network := range cfg.Networks {
		network.RPCURL = resolveRPCURL(name, network.RPCURL)
		network.ExplorerURL = os.ExpandEnv(network.ExplorerURL)
		network.Vault = os.ExpandEnv(network.Vault)
		network.WrappedNative = os.ExpandEnv(network.WrappedNative)
		network.Multicall3 = os.ExpandEnv(network.Multicall3)
		network.EntryPoint = os.ExpandEnv(network.EntryPoint)
		network.ThirdwebFactory = os.ExpandEnv(network.ThirdwebFactory)
		network.BundlerURL = os.ExpandEnv(network.BundlerURL)
		network.PaymasterURL = os.ExpandEnv(network.PaymasterURL)
		cfg.Networks[name] = network
	}

	return &cfg, nil
}
