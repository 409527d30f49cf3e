package aa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// HashSigner signs digests with the owner's key
type HashSigner interface {
	Address() (common.Address, error)
	SignHash(hash common.Hash) ([]byte, error)
	SignPersonal(data []byte) ([]byte, error)
}

// Account is one smart-account implementation (Safe, thirdweb, ...)
type Account interface {
	Backend() string
	// Ready reports configuration the backend needs before it can be used
	Ready() error
	// Address predicts the counterfactual account address for owner
	Address(ctx context.Context, owner common.Address) (common.Address, error)
	// InitCode returns the factory and calldata that deploy the account
	InitCode(ctx context.Context, owner common.Address) (common.Address, []byte, error)
	// EncodeCalls packs the batch into the account's execute calldata
	EncodeCalls(txs []models.BatchTx) ([]byte, error)
	// Sign produces the account-specific signature over op
	Sign(op *UserOperation, chainID uint64, entryPoint common.Address) ([]byte, error)
}

// Batcher sends batches of calls as one user operation and tracks the
// SafeBatchResult state of the latest attempt.
type Batcher struct {
	network   *config.Network
	poll      config.PollConfig
	chain     ContractCaller
	bundler   Bundler
	paymaster Paymaster
	account   Account
	store     usecase.AccountStore
	log       *slog.Logger

	mu       sync.Mutex
	result   models.SafeBatchResult
	prepared *models.SmartAccount
}

// BatcherDeps holds the collaborators of a Batcher. Bundler may be nil, in
// which case the batcher reports itself unavailable. Paymaster may be nil,
// in which case the account pays its own gas.
type BatcherDeps struct {
	Chain     ContractCaller
	Bundler   Bundler
	Paymaster Paymaster
	Account   Account
	Store     usecase.AccountStore
}

// NewBatcher creates a smart-account batcher for the configured network
func NewBatcher(cfg *config.RuntimeConfig, deps BatcherDeps, log *slog.Logger) *Batcher {
	return &Batcher{
		network:   cfg.Network,
		poll:      cfg.Poll,
		chain:     deps.Chain,
		bundler:   deps.Bundler,
		paymaster: deps.Paymaster,
		account:   deps.Account,
		store:     deps.Store,
		log:       log.With("component", "batcher"),
		result:    models.BatchIdle{},
	}
}

// Ready returns a precondition error when no bundler is configured for the
// active network or the account backend is missing configuration
func (b *Batcher) Ready() error {
	if b.network == nil || b.bundler == nil || b.account == nil {
		return domain.MissingConfigError{Key: "PIMLICO_API_KEY", Hint: "or set bundler_url for the network"}
	}
	return b.account.Ready()
}

// Available reports whether smart-account batches can be sent
func (b *Batcher) Available() bool {
	return b.Ready() == nil
}

// Result returns the state of the latest batch
func (b *Batcher) Result() models.SafeBatchResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

func (b *Batcher) setResult(r models.SafeBatchResult) {
	b.mu.Lock()
	b.result = r
	b.mu.Unlock()
	b.log.Debug("batch state", "status", r.Status())
}

func (b *Batcher) fail(err error) error {
	b.setResult(models.BatchError{Err: err})
	return err
}

// Prepare predicts the owner's smart account, persists its address and
// records whether it is already deployed.
func (b *Batcher) Prepare(ctx context.Context, owner common.Address) (*models.SmartAccount, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}
	b.setResult(models.BatchPending{})

	address, err := b.account.Address(ctx, owner)
	if err != nil {
		return nil, b.fail(fmt.Errorf("failed to predict %s account: %w", b.account.Backend(), err))
	}
	deployed, err := b.chain.HasCode(ctx, address)
	if err != nil {
		return nil, b.fail(err)
	}

	if err := b.store.SetSmartAccount(ctx, address); err != nil {
		b.log.Warn("failed to persist smart account address", "error", err)
	}

	account := &models.SmartAccount{
		Address:  address,
		Owner:    owner,
		Backend:  b.account.Backend(),
		Deployed: deployed,
	}
	b.mu.Lock()
	b.prepared = account
	b.mu.Unlock()

	b.log.Info("smart account prepared", "address", address.Hex(), "backend", account.Backend, "deployed", deployed)
	return account, nil
}

// SendBatch builds, sponsors, signs and submits one user operation carrying
// txs, then waits for the bundler to report it included.
func (b *Batcher) SendBatch(ctx context.Context, owner common.Address, txs []models.BatchTx) (*models.BatchSuccess, error) {
	if len(txs) == 0 {
		return nil, errors.New("empty batch")
	}

	b.mu.Lock()
	account := b.prepared
	b.mu.Unlock()
	if account == nil || account.Owner != owner {
		var err error
		if account, err = b.Prepare(ctx, owner); err != nil {
			return nil, err
		}
	}

	op, err := b.buildOperation(ctx, account, txs)
	if err != nil {
		return nil, b.fail(err)
	}

	b.setResult(models.BatchSimulating{})
	if err := b.fillGas(ctx, op); err != nil {
		return nil, b.fail(err)
	}
	b.setResult(models.BatchSimulationSuccess{Estimate: op.TotalGas().String()})

	if op.Signature, err = b.account.Sign(op, b.network.ChainID, b.network.EntryPoint); err != nil {
		return nil, b.fail(fmt.Errorf("failed to sign user operation: %w", err))
	}

	hash, err := b.bundler.SendUserOperation(ctx, op, b.network.EntryPoint)
	if err != nil {
		return nil, b.fail(err)
	}
	b.log.Info("user operation submitted", "userOpHash", hash.Hex(), "sender", op.Sender.Hex())

	receipt, err := WaitForReceipt(ctx, b.poll, func(ctx context.Context) (*UserOpReceipt, error) {
		return b.bundler.GetUserOperationReceipt(ctx, hash)
	})
	if err != nil {
		return nil, b.fail(fmt.Errorf("user operation %s: %w", hash.Hex(), err))
	}
	if !receipt.Success {
		return nil, b.fail(fmt.Errorf("user operation %s: %w %s", hash.Hex(), domain.ErrTransactionReverted, receipt.Reason))
	}

	b.mu.Lock()
	account.Deployed = true
	b.mu.Unlock()

	success := models.BatchSuccess{
		UserOpHash:  hash,
		SafeAddress: account.Address,
		TxHash:      receipt.Receipt.TransactionHash,
	}
	b.setResult(success)
	return &success, nil
}

func (b *Batcher) buildOperation(ctx context.Context, account *models.SmartAccount, txs []models.BatchTx) (*UserOperation, error) {
	nonce, err := GetNonce(ctx, b.chain, b.network.EntryPoint, account.Address)
	if err != nil {
		return nil, err
	}
	op := NewUserOperation(account.Address, nonce)

	if !account.Deployed {
		factory, data, err := b.account.InitCode(ctx, account.Owner)
		if err != nil {
			return nil, fmt.Errorf("failed to build init code: %w", err)
		}
		op.Factory = &factory
		op.FactoryData = data
	}

	if op.CallData, err = b.account.EncodeCalls(txs); err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	price, err := b.bundler.GasPrice(ctx)
	if err != nil {
		return nil, err
	}
	op.MaxFeePerGas = price.Fast.MaxFeePerGas
	op.MaxPriorityFeePerGas = price.Fast.MaxPriorityFeePerGas
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("bundler returned invalid gas price: %w", err)
	}
	return op, nil
}

// fillGas sets gas limits, through the paymaster when one is configured.
// The op is signed first so account validation runs during simulation.
func (b *Batcher) fillGas(ctx context.Context, op *UserOperation) error {
	sig, err := b.account.Sign(op, b.network.ChainID, b.network.EntryPoint)
	if err != nil {
		return fmt.Errorf("failed to sign user operation: %w", err)
	}
	op.Signature = sig

	if b.paymaster != nil {
		sponsorship, err := b.paymaster.SponsorUserOperation(ctx, op, b.network.EntryPoint)
		if err != nil {
			return fmt.Errorf("paymaster rejected user operation: %w", err)
		}
		paymaster := sponsorship.Paymaster
		op.Paymaster = &paymaster
		op.PaymasterData = sponsorship.PaymasterData
		op.PaymasterVerificationGasLimit = sponsorship.PaymasterVerificationGasLimit
		op.PaymasterPostOpGasLimit = sponsorship.PaymasterPostOpGasLimit
		if err := applyLimits(op, sponsorship.PreVerificationGas, sponsorship.VerificationGasLimit, sponsorship.CallGasLimit); err != nil {
			return fmt.Errorf("paymaster returned invalid gas values: %w", err)
		}
		return nil
	}

	estimate, err := b.bundler.EstimateUserOperationGas(ctx, op, b.network.EntryPoint)
	if err != nil {
		return fmt.Errorf("gas estimation failed: %w", err)
	}
	if err := applyLimits(op, estimate.PreVerificationGas, estimate.VerificationGasLimit, estimate.CallGasLimit); err != nil {
		return fmt.Errorf("bundler returned invalid gas values: %w", err)
	}
	return nil
}

func applyLimits(op *UserOperation, preVerification, verification, call *hexutil.Big) error {
	if preVerification != nil {
		op.PreVerificationGas = preVerification
	}
	if verification != nil {
		op.VerificationGasLimit = verification
	}
	if call != nil {
		op.CallGasLimit = call
	}
	return op.Validate()
}

var _ usecase.SmartAccountBatcher = (*Batcher)(nil)
