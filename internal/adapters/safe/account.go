package safe

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/trebuchet-org/vaultctl/internal/adapters/aa"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// Backend is the name this account registers under
const Backend = "safe"

// Safe operation types
const (
	OperationCall         uint8 = 0
	OperationDelegateCall uint8 = 1
)

// Account is a 1-of-1 Safe with the 4337 module enabled, deployed
// counterfactually through the proxy factory on its first user operation.
type Account struct {
	chain     aa.ContractCaller
	signer    aa.HashSigner
	saltNonce *big.Int

	mu           sync.Mutex
	creationCode []byte
}

var _ aa.Account = (*Account)(nil)

// NewAccount creates a Safe 4337 account
func NewAccount(cfg *config.RuntimeConfig, chain aa.ContractCaller, signer aa.HashSigner) *Account {
	return &Account{
		chain:     chain,
		signer:    signer,
		saltNonce: new(big.Int).SetUint64(cfg.SmartAccount.SaltNonce),
	}
}

func (a *Account) Backend() string { return Backend }

// Ready always succeeds, the Safe deployments are fixed addresses
func (a *Account) Ready() error { return nil }

// Initializer encodes the Safe setup call that enables the 4337 module
func (a *Account) Initializer(owner common.Address) ([]byte, error) {
	enable, err := moduleSetupABI.Pack("enableModules", []common.Address{Safe4337ModuleAddress})
	if err != nil {
		return nil, err
	}
	return safeABI.Pack("setup",
		[]common.Address{owner},
		big.NewInt(1),
		ModuleSetupAddress,
		enable,
		Safe4337ModuleAddress,
		common.Address{},
		big.NewInt(0),
		common.Address{},
	)
}

// Address predicts the CREATE2 address the proxy factory will deploy to
func (a *Account) Address(ctx context.Context, owner common.Address) (common.Address, error) {
	initializer, err := a.Initializer(owner)
	if err != nil {
		return common.Address{}, err
	}
	creationCode, err := a.proxyCreationCode(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return PredictAddress(creationCode, initializer, a.saltNonce), nil
}

// PredictAddress computes the proxy address for an initializer and salt nonce
func PredictAddress(creationCode, initializer []byte, saltNonce *big.Int) common.Address {
	salt := crypto.Keccak256Hash(
		crypto.Keccak256(initializer),
		common.LeftPadBytes(saltNonce.Bytes(), 32),
	)
	deployment := append(append([]byte{}, creationCode...), common.LeftPadBytes(SafeL2SingletonAddress.Bytes(), 32)...)
	return crypto.CreateAddress2(ProxyFactoryAddress, salt, crypto.Keccak256(deployment))
}

func (a *Account) proxyCreationCode(ctx context.Context) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.creationCode != nil {
		return a.creationCode, nil
	}

	data, err := proxyFactoryABI.Pack("proxyCreationCode")
	if err != nil {
		return nil, err
	}
	out, err := a.chain.CallContract(ctx, ProxyFactoryAddress, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy creation code: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("safe proxy factory not deployed at %s", ProxyFactoryAddress.Hex())
	}
	res, err := proxyFactoryABI.Unpack("proxyCreationCode", out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode proxy creation code: %w", err)
	}
	a.creationCode = res[0].([]byte)
	return a.creationCode, nil
}

// InitCode returns the factory call that deploys the Safe
func (a *Account) InitCode(ctx context.Context, owner common.Address) (common.Address, []byte, error) {
	initializer, err := a.Initializer(owner)
	if err != nil {
		return common.Address{}, nil, err
	}
	data, err := proxyFactoryABI.Pack("createProxyWithNonce", SafeL2SingletonAddress, initializer, a.saltNonce)
	if err != nil {
		return common.Address{}, nil, err
	}
	return ProxyFactoryAddress, data, nil
}

// EncodeCalls executes a single call directly and delegates larger batches to MultiSend
func (a *Account) EncodeCalls(txs []models.BatchTx) ([]byte, error) {
	if len(txs) == 1 {
		value, err := txs[0].ValueWei()
		if err != nil {
			return nil, err
		}
		return safe4337ModuleABI.Pack("executeUserOp", txs[0].To, value, []byte(txs[0].Data), OperationCall)
	}

	packed, err := EncodeMultiSend(txs)
	if err != nil {
		return nil, err
	}
	multiSend, err := multiSendABI.Pack("multiSend", packed)
	if err != nil {
		return nil, err
	}
	return safe4337ModuleABI.Pack("executeUserOp", MultiSendAddress, big.NewInt(0), multiSend, OperationDelegateCall)
}

// EncodeMultiSend packs txs as operation(1) ‖ to(20) ‖ value(32) ‖ dataLength(32) ‖ data
func EncodeMultiSend(txs []models.BatchTx) ([]byte, error) {
	var out []byte
	for _, tx := range txs {
		value, err := tx.ValueWei()
		if err != nil {
			return nil, err
		}
		out = append(out, OperationCall)
		out = append(out, tx.To.Bytes()...)
		out = append(out, common.LeftPadBytes(value.Bytes(), 32)...)
		out = append(out, common.LeftPadBytes(big.NewInt(int64(len(tx.Data))).Bytes(), 32)...)
		out = append(out, tx.Data...)
	}
	return out, nil
}

// Sign signs the SafeOp typed data and prefixes the validity window
func (a *Account) Sign(op *aa.UserOperation, chainID uint64, entryPoint common.Address) ([]byte, error) {
	hash, err := SafeOperationHash(op, chainID, entryPoint, 0, 0)
	if err != nil {
		return nil, err
	}
	sig, err := a.signer.SignHash(hash)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 12, 12+len(sig))
	putUint48(out[0:6], 0)  // validAfter
	putUint48(out[6:12], 0) // validUntil
	return append(out, sig...), nil
}

var safeOpTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"SafeOp": {
		{Name: "safe", Type: "address"},
		{Name: "nonce", Type: "uint256"},
		{Name: "initCode", Type: "bytes"},
		{Name: "callData", Type: "bytes"},
		{Name: "verificationGasLimit", Type: "uint128"},
		{Name: "callGasLimit", Type: "uint128"},
		{Name: "preVerificationGas", Type: "uint256"},
		{Name: "maxPriorityFeePerGas", Type: "uint128"},
		{Name: "maxFeePerGas", Type: "uint128"},
		{Name: "paymasterAndData", Type: "bytes"},
		{Name: "validAfter", Type: "uint48"},
		{Name: "validUntil", Type: "uint48"},
		{Name: "entryPoint", Type: "address"},
	},
}

// SafeOperationHash is the EIP-712 digest the 4337 module verifies
func SafeOperationHash(op *aa.UserOperation, chainID uint64, entryPoint common.Address, validAfter, validUntil uint64) (common.Hash, error) {
	p, err := op.Pack()
	if err != nil {
		return common.Hash{}, err
	}
	typed := apitypes.TypedData{
		Types:       safeOpTypes,
		PrimaryType: "SafeOp",
		Domain: apitypes.TypedDataDomain{
			ChainId:           math.NewHexOrDecimal256(int64(chainID)),
			VerifyingContract: Safe4337ModuleAddress.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"safe":                 p.Sender.Hex(),
			"nonce":                p.Nonce,
			"initCode":             p.InitCode,
			"callData":             p.CallData,
			"verificationGasLimit": new(big.Int).SetBytes(p.AccountGasLimits[:16]),
			"callGasLimit":         new(big.Int).SetBytes(p.AccountGasLimits[16:]),
			"preVerificationGas":   p.PreVerificationGas,
			"maxPriorityFeePerGas": new(big.Int).SetBytes(p.GasFees[:16]),
			"maxFeePerGas":         new(big.Int).SetBytes(p.GasFees[16:]),
			"paymasterAndData":     p.PaymasterAndData,
			"validAfter":           new(big.Int).SetUint64(validAfter),
			"validUntil":           new(big.Int).SetUint64(validUntil),
			"entryPoint":           entryPoint.Hex(),
		},
	}
	hash, _, err := apitypes.TypedDataAndHash(typed)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash safe operation: %w", err)
	}
	return common.BytesToHash(hash), nil
}

func putUint48(dst []byte, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	copy(dst, buf[2:])
}
