package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	internalconfig "github.com/trebuchet-org/vaultctl/internal/config"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
)

// Client owns the RPC connection for the active network. It dials lazily so
// commands that never touch the chain don't need a provider.
type Client struct {
	network *config.Network
	log     *slog.Logger

	mu  sync.Mutex
	eth *ethclient.Client
}

// NewClient creates a new blockchain client for the configured network
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		network: cfg.Network,
		log:     log.With("component", "blockchain"),
	}
}

// Network returns the active network or a missing-config error
func (c *Client) Network() (*config.Network, error) {
	if c.network == nil {
		return nil, domain.MissingConfigError{Key: "network", Hint: "pass --network or configure exactly one network"}
	}
	return c.network, nil
}

// Eth returns a connected client, verifying the chain ID on first use
func (c *Client) Eth(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.eth != nil {
		return c.eth, nil
	}

	network, err := c.Network()
	if err != nil {
		return nil, err
	}
	if network.RPCURL == "" {
		return nil, fmt.Errorf("%w for network %s (set rpc_url or %s)", domain.ErrNoProvider, network.Name, internalconfig.GenerateEnvVarName(network.Name))
	}

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to RPC: %v", domain.ErrNoProvider, err)
	}

	// Verify chain ID matches
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	chainID, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: failed to get chain ID: %v", domain.ErrNoProvider, err)
	}
	if chainID.Uint64() != network.ChainID {
		client.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", network.ChainID, chainID.Uint64())
	}

	c.log.Debug("connected", "network", network.Name, "chainId", network.ChainID)
	c.eth = client
	return client, nil
}

// HasCode reports whether a contract is deployed at address
func (c *Client) HasCode(ctx context.Context, address common.Address) (bool, error) {
	eth, err := c.Eth(ctx)
	if err != nil {
		return false, err
	}
	code, err := eth.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return len(code) > 0, nil
}

// CallContract runs an eth_call against the latest block
func (c *Client) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	eth, err := c.Eth(ctx)
	if err != nil {
		return nil, err
	}
	return eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

// Close releases the RPC connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eth != nil {
		c.eth.Close()
		c.eth = nil
	}
}
