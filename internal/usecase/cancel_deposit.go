package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/domain"
)

// CancelDepositResult contains the confirmed cancellation
type CancelDepositResult struct {
	Vault  common.Address `json:"vault"`
	TxHash common.Hash    `json:"txHash"`
}

// CancelDeposit cancels the wallet's pending deposit request with one direct
// call. There is no batching and no fallback.
type CancelDeposit struct {
	wallet   Wallet
	resolver ContractResolver
	encoder  CallEncoder
	cache    QueryCache
	progress ProgressSink
	log      *slog.Logger
}

// NewCancelDeposit creates a new CancelDeposit use case
func NewCancelDeposit(
	wallet Wallet,
	resolver ContractResolver,
	encoder CallEncoder,
	cache QueryCache,
	progress ProgressSink,
	log *slog.Logger,
) *CancelDeposit {
	return &CancelDeposit{
		wallet:   wallet,
		resolver: resolver,
		encoder:  encoder,
		cache:    cache,
		progress: progress,
		log:      log.With("component", "CancelDeposit"),
	}
}

// Run executes the use case
func (uc *CancelDeposit) Run(ctx context.Context) (*CancelDepositResult, error) {
	if _, err := uc.wallet.Address(); err != nil {
		return nil, err
	}

	contracts, err := uc.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	data, err := uc.encoder.CancelRequestDeposit()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", StepCancel, err)
	}

	hash, err := uc.wallet.Send(ctx, contracts.Vault, nil, data)
	if err != nil {
		uc.log.Error("cancel request failed", "vault", contracts.Vault.Hex(), "error", err)
		return nil, fmt.Errorf("failed to cancel deposit request: %w", err)
	}
	uc.progress.Info(fmt.Sprintf("Cancel request submitted: %s", hash.Hex()))

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StepCancel,
		Message: "Waiting for confirmation",
		Spinner: true,
	})
	if err := uc.wallet.WaitMined(ctx, hash); err != nil {
		uc.log.Error("cancel request not confirmed", "hash", hash.Hex(), "error", err)
		return nil, fmt.Errorf("cancel request %s: %w", hash.Hex(), err)
	}
	uc.progress.Info("Deposit request cancelled")

	uc.cache.Invalidate(domain.VaultDataKey(contracts.Vault))

	return &CancelDepositResult{Vault: contracts.Vault, TxHash: hash}, nil
}
