package usecase_test

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

var (
	ownerAddr     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	vaultAddr     = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	assetAddr     = common.HexToAddress("0x00000000000000000000000000000000000000c3")
	wrappedAddr   = common.HexToAddress("0x00000000000000000000000000000000000000d4")
	multicallAddr = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")
	accountAddr   = common.HexToAddress("0x00000000000000000000000000000000000000e5")
)

func testContracts() *usecase.VaultContracts {
	return &usecase.VaultContracts{
		ChainID:       8453,
		Vault:         vaultAddr,
		Asset:         models.TokenMetadata{Address: assetAddr, Symbol: "USDC", Decimals: 6},
		WrappedNative: &models.TokenMetadata{Address: wrappedAddr, Symbol: "WETH", Decimals: 18},
		Multicall3:    multicallAddr,
	}
}

// MockResolver is a mock implementation of ContractResolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context) (*usecase.VaultContracts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.VaultContracts), args.Error(1)
}

// sentTx is one transaction recorded by fakeWallet
type sentTx struct {
	To    common.Address
	Value *big.Int
	Data  []byte
}

// fakeWallet records sends in order and fails on demand
type fakeWallet struct {
	mu       sync.Mutex
	address  *common.Address
	sent     []sentTx
	failSend func(tx sentTx) error
	failWait error
}

func newFakeWallet() *fakeWallet {
	addr := ownerAddr
	return &fakeWallet{address: &addr}
}

func (w *fakeWallet) Address() (common.Address, error) {
	if w.address == nil {
		return common.Address{}, domain.ErrNoWalletAddress
	}
	return *w.address, nil
}

func (w *fakeWallet) Send(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	tx := sentTx{To: to, Value: value, Data: data}
	if w.failSend != nil {
		if err := w.failSend(tx); err != nil {
			return common.Hash{}, err
		}
	}
	w.sent = append(w.sent, tx)
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("tx-%d", len(w.sent)))), nil
}

func (w *fakeWallet) WaitMined(ctx context.Context, hash common.Hash) error {
	return w.failWait
}

func (w *fakeWallet) methods() []string {
	out := make([]string, len(w.sent))
	for i, tx := range w.sent {
		out[i] = string(tx.Data)
	}
	return out
}

// fakeEncoder encodes calls as readable strings so tests can assert on them
type fakeEncoder struct {
	aggregated []models.Call
}

func (e *fakeEncoder) RequestDeposit(assets *big.Int, controller, owner, referral common.Address) ([]byte, error) {
	return []byte(fmt.Sprintf("requestDeposit(%s,%s,%s,%s)", assets, controller.Hex(), owner.Hex(), referral.Hex())), nil
}

func (e *fakeEncoder) CancelRequestDeposit() ([]byte, error) {
	return []byte("cancelRequestDeposit()"), nil
}

func (e *fakeEncoder) SetOperator(operator common.Address, approved bool) ([]byte, error) {
	return []byte(fmt.Sprintf("setOperator(%s,%t)", operator.Hex(), approved)), nil
}

func (e *fakeEncoder) Approve(spender common.Address, amount *big.Int) ([]byte, error) {
	return []byte(fmt.Sprintf("approve(%s,%s)", spender.Hex(), amount)), nil
}

func (e *fakeEncoder) WrapNative() ([]byte, error) {
	return []byte("deposit()"), nil
}

func (e *fakeEncoder) Aggregate3(calls []models.Call) ([]byte, error) {
	e.aggregated = calls
	return []byte(fmt.Sprintf("aggregate3(%d)", len(calls))), nil
}

// fakeTokens returns a fixed allowance
type fakeTokens struct {
	allowance *big.Int
}

func (f *fakeTokens) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	if f.allowance == nil {
		return big.NewInt(0), nil
	}
	return f.allowance, nil
}

// MockBatcher is a mock implementation of SmartAccountBatcher
type MockBatcher struct {
	mock.Mock
}

func (m *MockBatcher) Ready() error {
	return m.Called().Error(0)
}

func (m *MockBatcher) Available() bool {
	return m.Called().Bool(0)
}

func (m *MockBatcher) Prepare(ctx context.Context, owner common.Address) (*models.SmartAccount, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SmartAccount), args.Error(1)
}

func (m *MockBatcher) SendBatch(ctx context.Context, owner common.Address, txs []models.BatchTx) (*models.BatchSuccess, error) {
	args := m.Called(ctx, owner, txs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BatchSuccess), args.Error(1)
}

func (m *MockBatcher) Result() models.SafeBatchResult {
	return m.Called().Get(0).(models.SafeBatchResult)
}

// MockStrategy is a mock implementation of DepositStrategy
type MockStrategy struct {
	mock.Mock
	name string
}

func (m *MockStrategy) Name() string { return m.name }

func (m *MockStrategy) Attempt(ctx context.Context, req usecase.DepositRequest) (*usecase.DepositReceipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DepositReceipt), args.Error(1)
}

// MockQueryCache is a mock implementation of QueryCache
type MockQueryCache struct {
	mock.Mock
}

func (m *MockQueryCache) Get(key domain.QueryKey) ([]models.ActivityRecord, bool) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]models.ActivityRecord), args.Bool(1)
}

func (m *MockQueryCache) Set(key domain.QueryKey, records []models.ActivityRecord) {
	m.Called(key, records)
}

func (m *MockQueryCache) Invalidate(key domain.QueryKey) {
	m.Called(key)
}

// MockActivitySource is a mock implementation of ActivitySource
type MockActivitySource struct {
	mock.Mock
}

func (m *MockActivitySource) FetchActivity(ctx context.Context, chainID uint64, vault common.Address) ([]models.ActivityRecord, error) {
	args := m.Called(ctx, chainID, vault)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityRecord), args.Error(1)
}

// recordingProgress captures progress messages
type recordingProgress struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (p *recordingProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.events = append(p.events, event)
}

func (p *recordingProgress) Info(message string)  { p.infos = append(p.infos, message) }
func (p *recordingProgress) Error(message string) { p.errors = append(p.errors, message) }
