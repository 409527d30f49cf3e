package aa

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// UserOperation is the unpacked EntryPoint v0.7 user operation, in the shape
// bundlers accept over JSON-RPC.
type UserOperation struct {
	Sender                        common.Address  `json:"sender"`
	Nonce                         *hexutil.Big    `json:"nonce"`
	Factory                       *common.Address `json:"factory,omitempty"`
	FactoryData                   hexutil.Bytes   `json:"factoryData,omitempty"`
	CallData                      hexutil.Bytes   `json:"callData"`
	CallGasLimit                  *hexutil.Big    `json:"callGasLimit"`
	VerificationGasLimit          *hexutil.Big    `json:"verificationGasLimit"`
	PreVerificationGas            *hexutil.Big    `json:"preVerificationGas"`
	MaxFeePerGas                  *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas          *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Paymaster                     *common.Address `json:"paymaster,omitempty"`
	PaymasterVerificationGasLimit *hexutil.Big    `json:"paymasterVerificationGasLimit,omitempty"`
	PaymasterPostOpGasLimit       *hexutil.Big    `json:"paymasterPostOpGasLimit,omitempty"`
	PaymasterData                 hexutil.Bytes   `json:"paymasterData,omitempty"`
	Signature                     hexutil.Bytes   `json:"signature"`
}

// PackedUserOperation is the on-chain EntryPoint v0.7 encoding
type PackedUserOperation struct {
	Sender             common.Address
	Nonce              *big.Int
	InitCode           []byte
	CallData           []byte
	AccountGasLimits   [32]byte
	PreVerificationGas *big.Int
	GasFees            [32]byte
	PaymasterAndData   []byte
	Signature          []byte
}

// NewUserOperation returns an operation with every numeric field zeroed
func NewUserOperation(sender common.Address, nonce *big.Int) *UserOperation {
	return &UserOperation{
		Sender:               sender,
		Nonce:                (*hexutil.Big)(nonce),
		CallGasLimit:         new(hexutil.Big),
		VerificationGasLimit: new(hexutil.Big),
		PreVerificationGas:   new(hexutil.Big),
		MaxFeePerGas:         new(hexutil.Big),
		MaxPriorityFeePerGas: new(hexutil.Big),
	}
}

// InitCode is factory ‖ factoryData, empty for deployed accounts
func (op *UserOperation) InitCode() []byte {
	if op.Factory == nil {
		return nil
	}
	return append(op.Factory.Bytes(), op.FactoryData...)
}

// PaymasterAndData is paymaster ‖ verificationGas(16) ‖ postOpGas(16) ‖ data
func (op *UserOperation) PaymasterAndData() ([]byte, error) {
	if op.Paymaster == nil {
		return nil, nil
	}
	verification, err := uint128Bytes(bigOrZero(op.PaymasterVerificationGasLimit))
	if err != nil {
		return nil, fmt.Errorf("paymasterVerificationGasLimit: %w", err)
	}
	postOp, err := uint128Bytes(bigOrZero(op.PaymasterPostOpGasLimit))
	if err != nil {
		return nil, fmt.Errorf("paymasterPostOpGasLimit: %w", err)
	}
	out := append([]byte{}, op.Paymaster.Bytes()...)
	out = append(out, verification...)
	out = append(out, postOp...)
	return append(out, op.PaymasterData...), nil
}

// Validate checks that every numeric field fits its on-chain width
func (op *UserOperation) Validate() error {
	for _, f := range []struct {
		name string
		v    *hexutil.Big
		bits int
	}{
		{"nonce", op.Nonce, 256},
		{"callGasLimit", op.CallGasLimit, 128},
		{"verificationGasLimit", op.VerificationGasLimit, 128},
		{"preVerificationGas", op.PreVerificationGas, 256},
		{"maxFeePerGas", op.MaxFeePerGas, 128},
		{"maxPriorityFeePerGas", op.MaxPriorityFeePerGas, 128},
		{"paymasterVerificationGasLimit", op.PaymasterVerificationGasLimit, 128},
		{"paymasterPostOpGasLimit", op.PaymasterPostOpGasLimit, 128},
	} {
		if err := checkWidth(bigOrZero(f.v), f.bits); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

// Pack converts the operation to its on-chain form
func (op *UserOperation) Pack() (PackedUserOperation, error) {
	if err := op.Validate(); err != nil {
		return PackedUserOperation{}, err
	}
	paymasterAndData, err := op.PaymasterAndData()
	if err != nil {
		return PackedUserOperation{}, err
	}
	return PackedUserOperation{
		Sender:             op.Sender,
		Nonce:              bigOrZero(op.Nonce),
		InitCode:           op.InitCode(),
		CallData:           op.CallData,
		AccountGasLimits:   packUint128Pair(bigOrZero(op.VerificationGasLimit), bigOrZero(op.CallGasLimit)),
		PreVerificationGas: bigOrZero(op.PreVerificationGas),
		GasFees:            packUint128Pair(bigOrZero(op.MaxPriorityFeePerGas), bigOrZero(op.MaxFeePerGas)),
		PaymasterAndData:   paymasterAndData,
		Signature:          op.Signature,
	}, nil
}

// Hash returns the userOpHash the EntryPoint computes for this operation
func (op *UserOperation) Hash(entryPoint common.Address, chainID uint64) (common.Hash, error) {
	p, err := op.Pack()
	if err != nil {
		return common.Hash{}, err
	}
	inner, err := userOpArgs.Pack(
		p.Sender,
		p.Nonce,
		crypto.Keccak256Hash(p.InitCode),
		crypto.Keccak256Hash(p.CallData),
		p.AccountGasLimits,
		p.PreVerificationGas,
		p.GasFees,
		crypto.Keccak256Hash(p.PaymasterAndData),
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode user operation: %w", err)
	}
	outer, err := userOpHashArgs.Pack(crypto.Keccak256Hash(inner), entryPoint, new(big.Int).SetUint64(chainID))
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode user operation hash: %w", err)
	}
	return crypto.Keccak256Hash(outer), nil
}

// TotalGas sums every gas limit the operation may consume
func (op *UserOperation) TotalGas() *big.Int {
	total := new(big.Int)
	for _, v := range []*hexutil.Big{
		op.CallGasLimit,
		op.VerificationGasLimit,
		op.PreVerificationGas,
		op.PaymasterVerificationGasLimit,
		op.PaymasterPostOpGasLimit,
	} {
		total.Add(total, bigOrZero(v))
	}
	return total
}

var (
	addressTy, _ = abi.NewType("address", "", nil)
	uint256Ty, _ = abi.NewType("uint256", "", nil)
	bytes32Ty, _ = abi.NewType("bytes32", "", nil)

	userOpArgs = abi.Arguments{
		{Type: addressTy}, // sender
		{Type: uint256Ty}, // nonce
		{Type: bytes32Ty}, // keccak(initCode)
		{Type: bytes32Ty}, // keccak(callData)
		{Type: bytes32Ty}, // accountGasLimits
		{Type: uint256Ty}, // preVerificationGas
		{Type: bytes32Ty}, // gasFees
		{Type: bytes32Ty}, // keccak(paymasterAndData)
	}
	userOpHashArgs = abi.Arguments{
		{Type: bytes32Ty},
		{Type: addressTy},
		{Type: uint256Ty},
	}
)

func bigOrZero(v *hexutil.Big) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToInt()
}

// ErrValueOutOfRange is returned for numeric fields wider than their on-chain type
var ErrValueOutOfRange = errors.New("value out of range")

func checkWidth(v *big.Int, bits int) error {
	if v.Sign() < 0 || v.BitLen() > bits {
		return fmt.Errorf("%w: %s does not fit uint%d", ErrValueOutOfRange, v.String(), bits)
	}
	return nil
}

func uint128Bytes(v *big.Int) ([]byte, error) {
	if err := checkWidth(v, 128); err != nil {
		return nil, err
	}
	out := make([]byte, 16)
	v.FillBytes(out)
	return out, nil
}

// packUint128Pair expects both halves to have passed Validate
func packUint128Pair(hi, lo *big.Int) [32]byte {
	var out [32]byte
	hi.FillBytes(out[:16])
	lo.FillBytes(out[16:])
	return out
}
