package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// Wallet sends transactions from the signer's account
type Wallet struct {
	client *Client
	signer *Signer
	log    *slog.Logger

	mu      sync.Mutex
	pending map[common.Hash]*types.Transaction
}

// NewWallet creates a new Wallet
func NewWallet(client *Client, signer *Signer, log *slog.Logger) *Wallet {
	return &Wallet{
		client:  client,
		signer:  signer,
		log:     log.With("component", "wallet"),
		pending: make(map[common.Hash]*types.Transaction),
	}
}

func (w *Wallet) Address() (common.Address, error) {
	return w.signer.Address()
}

// Send signs and broadcasts a transaction. Nonce, gas and fees come from the node.
func (w *Wallet) Send(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	key, err := w.signer.Key()
	if err != nil {
		return common.Hash{}, err
	}
	network, err := w.client.Network()
	if err != nil {
		return common.Hash{}, err
	}
	eth, err := w.client.Eth(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(network.ChainID))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.Value = value

	contract := bind.NewBoundContract(to, abi.ABI{}, eth, eth, eth)
	tx, err := contract.RawTransact(opts, data)
	if err != nil {
		return common.Hash{}, err
	}

	w.mu.Lock()
	w.pending[tx.Hash()] = tx
	w.mu.Unlock()

	w.log.Debug("transaction broadcast", "hash", tx.Hash().Hex(), "to", to.Hex(), "nonce", tx.Nonce())
	return tx.Hash(), nil
}

// WaitMined blocks until the transaction is mined
func (w *Wallet) WaitMined(ctx context.Context, hash common.Hash) error {
	eth, err := w.client.Eth(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	tx, ok := w.pending[hash]
	delete(w.pending, hash)
	w.mu.Unlock()

	if !ok {
		tx, _, err = eth.TransactionByHash(ctx, hash)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", hash.Hex(), err)
		}
	}

	receipt, err := bind.WaitMined(ctx, eth, tx)
	if err != nil {
		return fmt.Errorf("failed waiting for %s: %w", hash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s in block %d", domain.ErrTransactionReverted, hash.Hex(), receipt.BlockNumber.Uint64())
	}
	return nil
}

// Ensure the adapter implements the interface
var _ usecase.Wallet = (*Wallet)(nil)
