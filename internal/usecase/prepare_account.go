package usecase

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// PrepareAccountResult contains the prepared smart account
type PrepareAccountResult struct {
	Account  *models.SmartAccount
	Previous common.Address // address cached before this run, zero if none
}

// PrepareAccount derives the wallet's smart account and caches its address
type PrepareAccount struct {
	wallet  Wallet
	batcher SmartAccountBatcher
	store   AccountStore
	log     *slog.Logger
}

// NewPrepareAccount creates a new PrepareAccount use case
func NewPrepareAccount(wallet Wallet, batcher SmartAccountBatcher, store AccountStore, log *slog.Logger) *PrepareAccount {
	return &PrepareAccount{
		wallet:  wallet,
		batcher: batcher,
		store:   store,
		log:     log.With("component", "PrepareAccount"),
	}
}

// Run executes the use case
func (uc *PrepareAccount) Run(ctx context.Context) (*PrepareAccountResult, error) {
	owner, err := uc.wallet.Address()
	if err != nil {
		return nil, err
	}
	if err := uc.batcher.Ready(); err != nil {
		return nil, err
	}

	previous, _, err := uc.store.GetSmartAccount(ctx)
	if err != nil {
		uc.log.Warn("failed to read cached smart account", "error", err)
	}

	account, err := uc.batcher.Prepare(ctx, owner)
	if err != nil {
		return nil, err
	}

	return &PrepareAccountResult{Account: account, Previous: previous}, nil
}
