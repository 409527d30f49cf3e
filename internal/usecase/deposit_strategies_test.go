package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

func depositRequest(amount int64, wrap bool) usecase.DepositRequest {
	return usecase.DepositRequest{
		Amount:     big.NewInt(amount),
		AmountText: "test",
		Wrap:       wrap,
		Owner:      ownerAddr,
		Contracts:  testContracts(),
	}
}

func newStrategies(wallet *fakeWallet, encoder *fakeEncoder, tokens *fakeTokens, batcher *MockBatcher) usecase.DepositStrategies {
	assembler := usecase.NewCallAssembler(usecase.NewTokenPreparation(tokens, encoder), encoder)
	return usecase.NewDepositStrategies(wallet, assembler, encoder, batcher, &recordingProgress{}, discardLogger())
}

func TestSequentialStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("wrap, approve, request in order", func(t *testing.T) {
		wallet := newFakeWallet()
		s := newStrategies(wallet, &fakeEncoder{}, &fakeTokens{}, &MockBatcher{})

		receipt, err := s.Sequential.Attempt(ctx, depositRequest(500, true))
		require.NoError(t, err)

		assert.Equal(t, []string{
			"deposit()",
			"approve(" + vaultAddr.Hex() + ",500)",
			"requestDeposit(500," + ownerAddr.Hex() + "," + ownerAddr.Hex() + "," + ownerAddr.Hex() + ")",
		}, wallet.methods())
		assert.Equal(t, wrappedAddr, wallet.sent[0].To)
		assert.Equal(t, big.NewInt(500), wallet.sent[0].Value)
		assert.Equal(t, assetAddr, wallet.sent[1].To)
		assert.Equal(t, vaultAddr, wallet.sent[2].To)
		assert.Len(t, receipt.TxHashes, 3)
		assert.Equal(t, usecase.StrategySequential, receipt.Strategy)
	})

	t.Run("skips approve when allowance covers amount", func(t *testing.T) {
		wallet := newFakeWallet()
		s := newStrategies(wallet, &fakeEncoder{}, &fakeTokens{allowance: big.NewInt(500)}, &MockBatcher{})

		_, err := s.Sequential.Attempt(ctx, depositRequest(500, false))
		require.NoError(t, err)

		require.Len(t, wallet.sent, 1)
		assert.Equal(t, vaultAddr, wallet.sent[0].To)
	})

	t.Run("reverted step aborts the rest", func(t *testing.T) {
		wallet := newFakeWallet()
		wallet.failWait = domain.ErrTransactionReverted
		s := newStrategies(wallet, &fakeEncoder{}, &fakeTokens{}, &MockBatcher{})

		_, err := s.Sequential.Attempt(ctx, depositRequest(500, false))
		assert.ErrorIs(t, err, domain.ErrTransactionReverted)
		assert.Len(t, wallet.sent, 1)
	})
}

func TestMulticallStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("operator grant precedes the batch", func(t *testing.T) {
		wallet := newFakeWallet()
		encoder := &fakeEncoder{}
		s := newStrategies(wallet, encoder, &fakeTokens{}, &MockBatcher{})

		receipt, err := s.Multicall.Attempt(ctx, depositRequest(42, true))
		require.NoError(t, err)

		assert.Equal(t, []string{
			"deposit()",
			"setOperator(" + multicallAddr.Hex() + ",true)",
			"aggregate3(2)",
		}, wallet.methods())
		assert.Equal(t, multicallAddr, wallet.sent[2].To)
		assert.Nil(t, wallet.sent[2].Value)

		require.Len(t, encoder.aggregated, 2)
		assert.Equal(t, assetAddr, encoder.aggregated[0].Target)
		assert.Equal(t, vaultAddr, encoder.aggregated[1].Target)
		assert.False(t, encoder.aggregated[1].AllowFailure)
		assert.Len(t, receipt.TxHashes, 3)
	})

	t.Run("send failure surfaces", func(t *testing.T) {
		wallet := newFakeWallet()
		wallet.failSend = func(tx sentTx) error {
			if tx.To == multicallAddr {
				return errors.New("execution reverted")
			}
			return nil
		}
		s := newStrategies(wallet, &fakeEncoder{}, &fakeTokens{}, &MockBatcher{})

		_, err := s.Multicall.Attempt(ctx, depositRequest(42, false))
		assert.ErrorContains(t, err, "aggregate3")
	})
}

func TestSmartAccountStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("batch carries every step in order", func(t *testing.T) {
		batcher := &MockBatcher{}
		batcher.On("Prepare", ctx, ownerAddr).Return(&models.SmartAccount{Address: accountAddr, Owner: ownerAddr}, nil)

		var txs []models.BatchTx
		userOp := common.HexToHash("0x01")
		batcher.On("SendBatch", ctx, ownerAddr, mock.Anything).
			Run(func(args mock.Arguments) { txs = args.Get(2).([]models.BatchTx) }).
			Return(&models.BatchSuccess{UserOpHash: userOp, SafeAddress: accountAddr}, nil)

		wallet := newFakeWallet()
		s := newStrategies(wallet, &fakeEncoder{}, &fakeTokens{}, batcher)

		receipt, err := s.SmartAccount.Attempt(ctx, depositRequest(7, true))
		require.NoError(t, err)

		require.Len(t, txs, 4)
		assert.Equal(t, wrappedAddr, txs[0].To)
		assert.Equal(t, "7", txs[0].Value)
		assert.Equal(t, "setOperator("+accountAddr.Hex()+",true)", string(txs[1].Data))
		assert.Equal(t, "0", txs[1].Value)
		assert.Equal(t, assetAddr, txs[2].To)
		assert.Equal(t, vaultAddr, txs[3].To)

		assert.Equal(t, userOp, receipt.UserOpHash)
		assert.Equal(t, accountAddr, receipt.SmartAccount)
		assert.Empty(t, receipt.TxHashes)
		assert.Empty(t, wallet.sent)
	})

	t.Run("prepare failure", func(t *testing.T) {
		batcher := &MockBatcher{}
		batcher.On("Prepare", ctx, ownerAddr).Return(nil, errors.New("rpc down"))

		s := newStrategies(newFakeWallet(), &fakeEncoder{}, &fakeTokens{}, batcher)

		_, err := s.SmartAccount.Attempt(ctx, depositRequest(7, false))
		assert.ErrorContains(t, err, "failed to prepare smart account")
		batcher.AssertNotCalled(t, "SendBatch", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDepositStrategiesLookup(t *testing.T) {
	s := usecase.DepositStrategies{Sequential: &MockStrategy{name: "sequential"}}

	got, err := s.Lookup(usecase.StrategySequential)
	require.NoError(t, err)
	assert.Equal(t, "sequential", got.Name())

	_, err = s.Lookup(usecase.StrategyMulticall)
	assert.Error(t, err)
}
