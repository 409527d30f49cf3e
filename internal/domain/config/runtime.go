package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // nil if not specified
	API     APIConfig

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration

	// Deposit submission
	Strategy     string // auto, sequential, multicall, smart-account
	SmartAccount SmartAccountConfig
	Poll         PollConfig

	// Wallet. Empty when no signer is configured; read-only commands still work.
	PrivateKey string

	// Resolved configurations
	VaultFile  *VaultFileConfig
	ConfigPath string
}

// Network represents a vault deployment on one chain
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`

	Vault         common.Address `json:"vault"`
	WrappedNative common.Address `json:"wrappedNative,omitempty"`
	Multicall3    common.Address `json:"multicall3"`
	EntryPoint    common.Address `json:"entryPoint"`
}

// TxURL builds the block explorer link for a transaction hash
func (n *Network) TxURL(txHash string) string {
	if n == nil || n.ExplorerURL == "" {
		return ""
	}
	return n.ExplorerURL + "/tx/" + txHash
}

// APIConfig points at the activity data API
type APIConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

// SmartAccountConfig configures ERC-4337 submission
type SmartAccountConfig struct {
	Backend         string // safe or thirdweb
	BundlerURL      string
	PaymasterURL    string // empty disables sponsorship
	ThirdwebFactory common.Address
	SaltNonce       uint64
}

// PollConfig bounds user-operation receipt polling
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}
