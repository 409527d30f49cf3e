package aa

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// GasEstimate is the result of eth_estimateUserOperationGas
type GasEstimate struct {
	PreVerificationGas            *hexutil.Big `json:"preVerificationGas"`
	VerificationGasLimit          *hexutil.Big `json:"verificationGasLimit"`
	CallGasLimit                  *hexutil.Big `json:"callGasLimit"`
	PaymasterVerificationGasLimit *hexutil.Big `json:"paymasterVerificationGasLimit,omitempty"`
	PaymasterPostOpGasLimit       *hexutil.Big `json:"paymasterPostOpGasLimit,omitempty"`
}

// FeeLevel is one tier of a gas price quote
type FeeLevel struct {
	MaxFeePerGas         *hexutil.Big `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big `json:"maxPriorityFeePerGas"`
}

// GasPrice is the result of pimlico_getUserOperationGasPrice
type GasPrice struct {
	Slow     FeeLevel `json:"slow"`
	Standard FeeLevel `json:"standard"`
	Fast     FeeLevel `json:"fast"`
}

// Sponsorship is the paymaster's answer to pm_sponsorUserOperation. Gas
// limits are returned because the paymaster re-estimates with its own data.
type Sponsorship struct {
	Paymaster                     common.Address `json:"paymaster"`
	PaymasterData                 hexutil.Bytes  `json:"paymasterData"`
	PaymasterVerificationGasLimit *hexutil.Big   `json:"paymasterVerificationGasLimit"`
	PaymasterPostOpGasLimit       *hexutil.Big   `json:"paymasterPostOpGasLimit"`
	PreVerificationGas            *hexutil.Big   `json:"preVerificationGas"`
	VerificationGasLimit          *hexutil.Big   `json:"verificationGasLimit"`
	CallGasLimit                  *hexutil.Big   `json:"callGasLimit"`
}

// UserOpReceipt is the result of eth_getUserOperationReceipt
type UserOpReceipt struct {
	UserOpHash    common.Hash    `json:"userOpHash"`
	Sender        common.Address `json:"sender"`
	Nonce         *hexutil.Big   `json:"nonce"`
	Success       bool           `json:"success"`
	Reason        string         `json:"reason,omitempty"`
	ActualGasCost *hexutil.Big   `json:"actualGasCost"`
	ActualGasUsed *hexutil.Big   `json:"actualGasUsed"`
	Receipt       struct {
		TransactionHash common.Hash  `json:"transactionHash"`
		BlockNumber     *hexutil.Big `json:"blockNumber"`
	} `json:"receipt"`
}

// Bundler is the subset of the ERC-4337 bundler API used to submit batches
type Bundler interface {
	GasPrice(ctx context.Context) (*GasPrice, error)
	EstimateUserOperationGas(ctx context.Context, op *UserOperation, entryPoint common.Address) (*GasEstimate, error)
	SendUserOperation(ctx context.Context, op *UserOperation, entryPoint common.Address) (common.Hash, error)
	GetUserOperationReceipt(ctx context.Context, hash common.Hash) (*UserOpReceipt, error)
}

// Paymaster sponsors user operations
type Paymaster interface {
	SponsorUserOperation(ctx context.Context, op *UserOperation, entryPoint common.Address) (*Sponsorship, error)
}

// BundlerClient speaks the bundler and paymaster JSON-RPC dialects over one endpoint
type BundlerClient struct {
	url string
	log *slog.Logger

	mu  sync.Mutex
	rpc *rpc.Client
}

var (
	_ Bundler   = (*BundlerClient)(nil)
	_ Paymaster = (*BundlerClient)(nil)
)

// NewBundlerClient creates a client for a bundler or paymaster endpoint
func NewBundlerClient(url string, log *slog.Logger) *BundlerClient {
	return &BundlerClient{url: url, log: log.With("component", "bundler")}
}

func (c *BundlerClient) client(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpc != nil {
		return c.rpc, nil
	}
	client, err := rpc.DialContext(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bundler: %w", err)
	}
	c.rpc = client
	return client, nil
}

func (c *BundlerClient) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	c.log.Debug("rpc call", "method", method)
	if err := client.CallContext(ctx, result, method, args...); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// GasPrice returns the bundler's current fee quote
func (c *BundlerClient) GasPrice(ctx context.Context) (*GasPrice, error) {
	var price GasPrice
	if err := c.call(ctx, &price, "pimlico_getUserOperationGasPrice"); err != nil {
		return nil, err
	}
	return &price, nil
}

// EstimateUserOperationGas simulates op and returns its gas limits
func (c *BundlerClient) EstimateUserOperationGas(ctx context.Context, op *UserOperation, entryPoint common.Address) (*GasEstimate, error) {
	var estimate GasEstimate
	if err := c.call(ctx, &estimate, "eth_estimateUserOperationGas", op, entryPoint); err != nil {
		return nil, err
	}
	return &estimate, nil
}

// SponsorUserOperation asks the paymaster to cover op's gas
func (c *BundlerClient) SponsorUserOperation(ctx context.Context, op *UserOperation, entryPoint common.Address) (*Sponsorship, error) {
	var sponsorship Sponsorship
	if err := c.call(ctx, &sponsorship, "pm_sponsorUserOperation", op, entryPoint); err != nil {
		return nil, err
	}
	return &sponsorship, nil
}

// SendUserOperation submits a signed op and returns its userOpHash
func (c *BundlerClient) SendUserOperation(ctx context.Context, op *UserOperation, entryPoint common.Address) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, &hash, "eth_sendUserOperation", op, entryPoint); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// GetUserOperationReceipt returns nil while the operation is not yet included
func (c *BundlerClient) GetUserOperationReceipt(ctx context.Context, hash common.Hash) (*UserOpReceipt, error) {
	var receipt *UserOpReceipt
	if err := c.call(ctx, &receipt, "eth_getUserOperationReceipt", hash); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Close releases the connection
func (c *BundlerClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpc != nil {
		c.rpc.Close()
		c.rpc = nil
	}
}
