package thirdweb

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/adapters/aa"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// Backend is the name this account registers under
const Backend = "thirdweb"

const factoryABIJSON = `[
	{"type":"function","name":"getAddress","stateMutability":"view",
	 "inputs":[{"name":"_adminSigner","type":"address"},{"name":"_data","type":"bytes"}],
	 "outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"createAccount","stateMutability":"nonpayable",
	 "inputs":[{"name":"_admin","type":"address"},{"name":"_data","type":"bytes"}],
	 "outputs":[{"name":"","type":"address"}]}
]`

const accountABIJSON = `[
	{"type":"function","name":"executeBatch","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"_target","type":"address[]"},
		{"name":"_value","type":"uint256[]"},
		{"name":"_calldata","type":"bytes[]"}],
	 "outputs":[]}
]`

var (
	factoryABI = mustParseABI(factoryABIJSON)
	accountABI = mustParseABI(accountABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Account is a thirdweb smart wallet created by an account factory with the
// owner as admin signer.
type Account struct {
	chain   aa.ContractCaller
	signer  aa.HashSigner
	factory common.Address
}

var _ aa.Account = (*Account)(nil)

// NewAccount creates a thirdweb account bound to the configured factory
func NewAccount(cfg *config.RuntimeConfig, chain aa.ContractCaller, signer aa.HashSigner) *Account {
	return &Account{
		chain:   chain,
		signer:  signer,
		factory: cfg.SmartAccount.ThirdwebFactory,
	}
}

func (a *Account) Backend() string { return Backend }

// Ready fails until a factory address is configured
func (a *Account) Ready() error {
	if a.factory == (common.Address{}) {
		return domain.MissingConfigError{Key: "THIRDWEB_FACTORY_ADDRESS", Hint: "or set thirdweb_factory for the network"}
	}
	return nil
}

// Address asks the factory for the owner's counterfactual account
func (a *Account) Address(ctx context.Context, owner common.Address) (common.Address, error) {
	if err := a.Ready(); err != nil {
		return common.Address{}, err
	}
	data, err := factoryABI.Pack("getAddress", owner, []byte{})
	if err != nil {
		return common.Address{}, err
	}
	out, err := a.chain.CallContract(ctx, a.factory, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("getAddress on %s: %w", a.factory.Hex(), err)
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("account factory not deployed at %s", a.factory.Hex())
	}
	res, err := factoryABI.Unpack("getAddress", out)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode account address: %w", err)
	}
	return res[0].(common.Address), nil
}

// InitCode returns the factory call that deploys the account
func (a *Account) InitCode(ctx context.Context, owner common.Address) (common.Address, []byte, error) {
	if err := a.Ready(); err != nil {
		return common.Address{}, nil, err
	}
	data, err := factoryABI.Pack("createAccount", owner, []byte{})
	if err != nil {
		return common.Address{}, nil, err
	}
	return a.factory, data, nil
}

// EncodeCalls packs the batch into executeBatch
func (a *Account) EncodeCalls(txs []models.BatchTx) ([]byte, error) {
	targets := make([]common.Address, len(txs))
	values := make([]*big.Int, len(txs))
	calldata := make([][]byte, len(txs))
	for i, tx := range txs {
		value, err := tx.ValueWei()
		if err != nil {
			return nil, err
		}
		targets[i] = tx.To
		values[i] = value
		calldata[i] = tx.Data
	}
	return accountABI.Pack("executeBatch", targets, values, calldata)
}

// Sign personal-signs the user operation hash
func (a *Account) Sign(op *aa.UserOperation, chainID uint64, entryPoint common.Address) ([]byte, error) {
	hash, err := op.Hash(entryPoint, chainID)
	if err != nil {
		return nil, err
	}
	return a.signer.SignPersonal(hash.Bytes())
}
