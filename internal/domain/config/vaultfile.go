package config

// VaultFileConfig is the parsed vaultctl.toml
type VaultFileConfig struct {
	API          APIFileConfig                `toml:"api"`
	SmartAccount SmartAccountFileConfig       `toml:"smart_account"`
	Networks     map[string]NetworkFileConfig `toml:"networks"`
}

// APIFileConfig is the [api] table
type APIFileConfig struct {
	BaseURL  string `toml:"base_url"`
	CacheTTL string `toml:"cache_ttl"`
}

// SmartAccountFileConfig is the [smart_account] table
type SmartAccountFileConfig struct {
	Backend   string `toml:"backend"`
	SaltNonce uint64 `toml:"salt_nonce"`
}

// NetworkFileConfig is one [networks.<name>] table
type NetworkFileConfig struct {
	ChainID       uint64 `toml:"chain_id"`
	RPCURL        string `toml:"rpc_url"`
	ExplorerURL   string `toml:"explorer_url"`
	Vault         string `toml:"vault"`
	WrappedNative string `toml:"wrapped_native"`

	// Optional overrides of well-known deployments
	Multicall3      string `toml:"multicall3"`
	EntryPoint      string `toml:"entry_point"`
	ThirdwebFactory string `toml:"thirdweb_factory"`
	BundlerURL      string `toml:"bundler_url"`
	PaymasterURL    string `toml:"paymaster_url"`
}
