package blockchain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// multicall3Call mirrors the Multicall3.Call3 tuple for ABI packing
type multicall3Call struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

// Encoder packs calldata for the vault, its tokens and Multicall3
type Encoder struct{}

// NewEncoder creates a new Encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) RequestDeposit(assets *big.Int, controller, owner, referral common.Address) ([]byte, error) {
	return VaultABI.Pack("requestDeposit", assets, controller, owner, referral)
}

func (e *Encoder) CancelRequestDeposit() ([]byte, error) {
	return VaultABI.Pack("cancelRequestDeposit")
}

func (e *Encoder) SetOperator(operator common.Address, approved bool) ([]byte, error) {
	return VaultABI.Pack("setOperator", operator, approved)
}

func (e *Encoder) Approve(spender common.Address, amount *big.Int) ([]byte, error) {
	return ERC20ABI.Pack("approve", spender, amount)
}

func (e *Encoder) WrapNative() ([]byte, error) {
	return WrappedNativeABI.Pack("deposit")
}

func (e *Encoder) Aggregate3(calls []models.Call) ([]byte, error) {
	packed := make([]multicall3Call, len(calls))
	for i, c := range calls {
		packed[i] = multicall3Call{
			Target:       c.Target,
			AllowFailure: c.AllowFailure,
			CallData:     c.CallData,
		}
	}
	return Multicall3ABI.Pack("aggregate3", packed)
}

// Ensure the adapter implements the interface
var _ usecase.CallEncoder = (*Encoder)(nil)
