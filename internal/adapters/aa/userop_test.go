package aa

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	entryPointV07 = common.HexToAddress("0x0000000071727De22E5E9d8BAf0edAc6f37da032")
	testSender    = common.HexToAddress("0x00000000000000000000000000000000000000e5")
	testFactory   = common.HexToAddress("0x4e1DCf7AD4e460CfD30791CCC4F9c8a4f820ec67")
	testPaymaster = common.HexToAddress("0x00000000000000fB866DaAA79352cC568a005D96")
)

func hexBig(v int64) *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(v))
}

func sampleOperation() *UserOperation {
	op := NewUserOperation(testSender, big.NewInt(3))
	op.CallData = []byte{0xde, 0xad}
	op.CallGasLimit = hexBig(100_000)
	op.VerificationGasLimit = hexBig(200_000)
	op.PreVerificationGas = hexBig(50_000)
	op.MaxFeePerGas = hexBig(2_000_000_000)
	op.MaxPriorityFeePerGas = hexBig(1_000_000_000)
	return op
}

func TestUserOperationPack(t *testing.T) {
	t.Run("gas limits and fees share one word each", func(t *testing.T) {
		p, err := sampleOperation().Pack()
		require.NoError(t, err)

		assert.Equal(t, big.NewInt(200_000), new(big.Int).SetBytes(p.AccountGasLimits[:16]))
		assert.Equal(t, big.NewInt(100_000), new(big.Int).SetBytes(p.AccountGasLimits[16:]))
		assert.Equal(t, big.NewInt(1_000_000_000), new(big.Int).SetBytes(p.GasFees[:16]))
		assert.Equal(t, big.NewInt(2_000_000_000), new(big.Int).SetBytes(p.GasFees[16:]))
		assert.Empty(t, p.InitCode)
		assert.Empty(t, p.PaymasterAndData)
	})

	t.Run("init code is factory followed by factory data", func(t *testing.T) {
		op := sampleOperation()
		op.Factory = &testFactory
		op.FactoryData = []byte{0x01, 0x02}

		initCode := op.InitCode()
		require.Len(t, initCode, 22)
		assert.Equal(t, testFactory.Bytes(), initCode[:20])
		assert.Equal(t, []byte{0x01, 0x02}, initCode[20:])
	})

	t.Run("paymaster and data layout", func(t *testing.T) {
		op := sampleOperation()
		op.Paymaster = &testPaymaster
		op.PaymasterVerificationGasLimit = hexBig(30_000)
		op.PaymasterPostOpGasLimit = hexBig(10)
		op.PaymasterData = []byte{0xaa, 0xbb, 0xcc}

		pmd, err := op.PaymasterAndData()
		require.NoError(t, err)
		require.Len(t, pmd, 20+16+16+3)
		assert.Equal(t, testPaymaster.Bytes(), pmd[:20])
		assert.Equal(t, big.NewInt(30_000), new(big.Int).SetBytes(pmd[20:36]))
		assert.Equal(t, big.NewInt(10), new(big.Int).SetBytes(pmd[36:52]))
		assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, pmd[52:])
	})
}

func mustHash(t *testing.T, op *UserOperation, entryPoint common.Address, chainID uint64) common.Hash {
	t.Helper()
	hash, err := op.Hash(entryPoint, chainID)
	require.NoError(t, err)
	return hash
}

func TestUserOperationHash(t *testing.T) {
	op := sampleOperation()
	base := mustHash(t, op, entryPointV07, 8453)

	t.Run("signature is not part of the hash", func(t *testing.T) {
		signed := sampleOperation()
		signed.Signature = []byte{0x01, 0x02, 0x03}
		assert.Equal(t, base, mustHash(t, signed, entryPointV07, 8453))
	})

	t.Run("chain and entry point are bound", func(t *testing.T) {
		assert.NotEqual(t, base, mustHash(t, op, entryPointV07, 1))
		assert.NotEqual(t, base, mustHash(t, op, testFactory, 8453))
	})

	t.Run("every packed field is bound", func(t *testing.T) {
		changes := map[string]func(*UserOperation){
			"nonce":     func(o *UserOperation) { o.Nonce = hexBig(4) },
			"callData":  func(o *UserOperation) { o.CallData = []byte{0xbe, 0xef} },
			"callGas":   func(o *UserOperation) { o.CallGasLimit = hexBig(1) },
			"fees":      func(o *UserOperation) { o.MaxFeePerGas = hexBig(1) },
			"pvg":       func(o *UserOperation) { o.PreVerificationGas = hexBig(1) },
			"factory":   func(o *UserOperation) { o.Factory = &testFactory },
			"paymaster": func(o *UserOperation) { o.Paymaster = &testPaymaster },
		}
		for name, change := range changes {
			t.Run(name, func(t *testing.T) {
				changed := sampleOperation()
				change(changed)
				assert.NotEqual(t, base, mustHash(t, changed, entryPointV07, 8453))
			})
		}
	})
}

func TestUserOperationRange(t *testing.T) {
	overflow := (*hexutil.Big)(new(big.Int).Lsh(big.NewInt(1), 128))

	tests := []struct {
		name   string
		change func(*UserOperation)
	}{
		{"callGasLimit", func(o *UserOperation) { o.CallGasLimit = overflow }},
		{"verificationGasLimit", func(o *UserOperation) { o.VerificationGasLimit = overflow }},
		{"maxFeePerGas", func(o *UserOperation) { o.MaxFeePerGas = overflow }},
		{"maxPriorityFeePerGas", func(o *UserOperation) { o.MaxPriorityFeePerGas = overflow }},
		{"paymasterPostOpGasLimit", func(o *UserOperation) {
			o.Paymaster = &testPaymaster
			o.PaymasterPostOpGasLimit = overflow
		}},
		{"preVerificationGas", func(o *UserOperation) { o.PreVerificationGas = hexBig(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := sampleOperation()
			tt.change(op)

			_, err := op.Hash(entryPointV07, 8453)
			assert.ErrorIs(t, err, ErrValueOutOfRange)
			assert.ErrorContains(t, err, tt.name)
		})
	}

	t.Run("largest uint128 fits", func(t *testing.T) {
		op := sampleOperation()
		op.CallGasLimit = (*hexutil.Big)(new(big.Int).Sub(overflow.ToInt(), big.NewInt(1)))
		assert.NoError(t, op.Validate())
	})
}

func TestUserOperationJSON(t *testing.T) {
	op := sampleOperation()
	op.Signature = []byte{0x01}

	data, err := json.Marshal(op)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, "0x3", fields["nonce"])
	assert.Equal(t, "0x186a0", fields["callGasLimit"])
	assert.Equal(t, "0xdead", fields["callData"])
	assert.NotContains(t, fields, "factory")
	assert.NotContains(t, fields, "paymaster")
	assert.NotContains(t, fields, "paymasterData")
}

func TestTotalGas(t *testing.T) {
	op := sampleOperation()
	op.PaymasterVerificationGasLimit = hexBig(1)
	assert.Equal(t, "350001", op.TotalGas().String())
}
