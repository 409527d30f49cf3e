package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
)

// Strategy names accepted by --strategy
const (
	StrategyAuto         = "auto"
	StrategySequential   = "sequential"
	StrategyMulticall    = "multicall"
	StrategySmartAccount = "smart-account"
)

// Smart-account backends accepted by --backend
const (
	BackendSafe     = "safe"
	BackendThirdweb = "thirdweb"
)

// DefaultAPIBaseURL is used when neither vaultctl.toml nor the environment set one
const DefaultAPIBaseURL = "https://api.vaultctl.xyz"

// DefaultCacheTTL bounds how long fetched vault data stays fresh
const DefaultCacheTTL = 30 * time.Second

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadDotEnv(projectRoot)

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".vaultctl"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		Strategy:       strings.ToLower(v.GetString("strategy")),
		PrivateKey:     strings.TrimSpace(v.GetString("private_key")),
		Poll: config.PollConfig{
			Interval:    v.GetDuration("poll_interval"),
			MaxAttempts: v.GetInt("poll_attempts"),
		},
		API: config.APIConfig{
			BaseURL:  v.GetString("api_url"),
			CacheTTL: v.GetDuration("cache_ttl"),
		},
		SmartAccount: config.SmartAccountConfig{
			Backend: strings.ToLower(v.GetString("backend")),
		},
	}

	if err := validateStrategy(cfg.Strategy); err != nil {
		return nil, err
	}

	vaultFile, err := loadVaultFile(projectRoot)
	if err != nil {
		return nil, err
	}
	if vaultFile != nil {
		cfg.VaultFile = vaultFile
		cfg.ConfigPath = filepath.Join(projectRoot, VaultFileName)
		applyVaultFile(v, cfg, vaultFile)
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultAPIBaseURL
	}
	if cfg.API.CacheTTL <= 0 {
		cfg.API.CacheTTL = DefaultCacheTTL
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if cfg.SmartAccount.Backend == "" {
		cfg.SmartAccount.Backend = BackendSafe
	}
	if cfg.SmartAccount.Backend != BackendSafe && cfg.SmartAccount.Backend != BackendThirdweb {
		return nil, fmt.Errorf("unknown smart account backend %q (expected %s or %s)",
			cfg.SmartAccount.Backend, BackendSafe, BackendThirdweb)
	}

	// Network is optional for commands like version and networks
	networkName := v.GetString("network")
	if vaultFile != nil && (networkName != "" || len(vaultFile.Networks) == 1) {
		network, err := ResolveNetwork(vaultFile, networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
		applyNetworkSmartAccount(v, cfg, vaultFile.Networks[network.Name])
	} else if networkName != "" {
		return nil, fmt.Errorf("failed to resolve network %s: %s not found", networkName, VaultFileName)
	}

	return cfg, nil
}

func validateStrategy(strategy string) error {
	switch strategy {
	case StrategyAuto, StrategySequential, StrategyMulticall, StrategySmartAccount:
		return nil
	default:
		return fmt.Errorf("unknown strategy %q (expected one of: %s)", strategy,
			strings.Join([]string{StrategyAuto, StrategySequential, StrategyMulticall, StrategySmartAccount}, ", "))
	}
}

// applyVaultFile fills settings that flags and environment left unset
func applyVaultFile(v *viper.Viper, cfg *config.RuntimeConfig, vf *config.VaultFileConfig) {
	if !v.IsSet("api_url") && vf.API.BaseURL != "" {
		cfg.API.BaseURL = vf.API.BaseURL
	}
	if !v.IsSet("cache_ttl") && vf.API.CacheTTL != "" {
		if ttl, err := time.ParseDuration(vf.API.CacheTTL); err == nil {
			cfg.API.CacheTTL = ttl
		}
	}
	if !v.IsSet("backend") && vf.SmartAccount.Backend != "" {
		cfg.SmartAccount.Backend = strings.ToLower(vf.SmartAccount.Backend)
	}
	cfg.SmartAccount.SaltNonce = vf.SmartAccount.SaltNonce
}

// applyNetworkSmartAccount resolves bundler, paymaster and factory settings for the chosen network
func applyNetworkSmartAccount(v *viper.Viper, cfg *config.RuntimeConfig, raw config.NetworkFileConfig) {
	sa := &cfg.SmartAccount
	apiKey := v.GetString("pimlico_api_key")

	sa.BundlerURL = raw.BundlerURL
	if sa.BundlerURL == "" && apiKey != "" {
		sa.BundlerURL = PimlicoBundlerURL(cfg.Network.ChainID, apiKey)
	}
	sa.PaymasterURL = raw.PaymasterURL
	if sa.PaymasterURL == "" && apiKey != "" {
		sa.PaymasterURL = PimlicoPaymasterURL(cfg.Network.ChainID, apiKey)
	}

	factory := raw.ThirdwebFactory
	if env := v.GetString("thirdweb_factory"); env != "" {
		factory = env
	}
	if common.IsHexAddress(factory) {
		sa.ThirdwebFactory = common.HexToAddress(factory)
	}
}

// FindProjectRoot walks up from current directory to find vaultctl.toml.
// Falls back to the working directory so env-only setups still run.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, VaultFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("VAULTCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Provider-specific keys are read without the prefix too
	_ = v.BindEnv("pimlico_api_key", "VAULTCTL_PIMLICO_API_KEY", "PIMLICO_API_KEY")
	_ = v.BindEnv("thirdweb_factory", "VAULTCTL_THIRDWEB_FACTORY", "THIRDWEB_FACTORY_ADDRESS")

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("strategy", StrategyAuto)
	v.SetDefault("poll_interval", "2s")
	v.SetDefault("poll_attempts", 90)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
