package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// VaultContracts is the resolved vault deployment for the active network
type VaultContracts struct {
	ChainID       uint64
	Vault         common.Address
	Asset         models.TokenMetadata
	WrappedNative *models.TokenMetadata // nil when the network has no wrapped native token
	Multicall3    common.Address
}

// ContractResolver resolves bound contracts and token metadata for the active network
type ContractResolver interface {
	Resolve(ctx context.Context) (*VaultContracts, error)
}

// Wallet signs and broadcasts transactions from the configured account
type Wallet interface {
	// Address returns domain.ErrNoWalletAddress when no key is configured
	Address() (common.Address, error)
	Send(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error)
	// WaitMined blocks until the transaction is included and returns
	// domain.ErrTransactionReverted for a failed receipt
	WaitMined(ctx context.Context, hash common.Hash) error
}

// TokenReader reads ERC-20 state
type TokenReader interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

// CallEncoder packs calldata for every contract method the deposit flow touches
type CallEncoder interface {
	RequestDeposit(assets *big.Int, controller, owner, referral common.Address) ([]byte, error)
	CancelRequestDeposit() ([]byte, error)
	SetOperator(operator common.Address, approved bool) ([]byte, error)
	Approve(spender common.Address, amount *big.Int) ([]byte, error)
	WrapNative() ([]byte, error)
	Aggregate3(calls []models.Call) ([]byte, error)
}

// SmartAccountBatcher submits ordered batches as one ERC-4337 user operation
type SmartAccountBatcher interface {
	// Ready returns a precondition error when the bundler or the account
	// backend is not configured
	Ready() error
	// Available reports whether Ready succeeds
	Available() bool
	Prepare(ctx context.Context, owner common.Address) (*models.SmartAccount, error)
	SendBatch(ctx context.Context, owner common.Address, txs []models.BatchTx) (*models.BatchSuccess, error)
	Result() models.SafeBatchResult
}

// AccountStore persists the derived smart-account address between runs
type AccountStore interface {
	GetSmartAccount(ctx context.Context) (common.Address, bool, error)
	SetSmartAccount(ctx context.Context, address common.Address) error
}

// ActivitySource fetches raw activity records for a vault
type ActivitySource interface {
	FetchActivity(ctx context.Context, chainID uint64, vault common.Address) ([]models.ActivityRecord, error)
}

// QueryCache holds fetched query results until they expire or are invalidated
type QueryCache interface {
	Get(key domain.QueryKey) ([]models.ActivityRecord, bool)
	Set(key domain.QueryKey, records []models.ActivityRecord)
	Invalidate(key domain.QueryKey)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Prompter asks the user to confirm actions and pick options
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	SelectFilter(ctx context.Context, current domain.ActivityFilter) (domain.ActivityFilter, error)
}
