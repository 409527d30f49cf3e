package safe

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/vaultctl/internal/adapters/aa"
	"github.com/trebuchet-org/vaultctl/internal/adapters/blockchain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

const hardhatKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	owner      = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	entryPoint = common.HexToAddress("0x0000000071727De22E5E9d8BAf0edAc6f37da032")
)

// fakeFactory serves proxyCreationCode and counts calls
type fakeFactory struct {
	code  []byte
	calls int
}

func (f *fakeFactory) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	f.calls++
	bytesTy, _ := abi.NewType("bytes", "", nil)
	return abi.Arguments{{Type: bytesTy}}.Pack(f.code)
}

func (f *fakeFactory) HasCode(ctx context.Context, address common.Address) (bool, error) {
	return false, nil
}

func newTestAccount(saltNonce uint64) (*Account, *fakeFactory) {
	cfg := &config.RuntimeConfig{
		PrivateKey:   hardhatKey,
		SmartAccount: config.SmartAccountConfig{SaltNonce: saltNonce},
	}
	factory := &fakeFactory{code: common.FromHex("0x608060405234801561001057600080fd5b50")}
	return NewAccount(cfg, factory, blockchain.NewSigner(cfg)), factory
}

func batch() []models.BatchTx {
	return []models.BatchTx{
		{To: common.HexToAddress("0x01"), Value: "5", Data: hexutil.Bytes{0xd0, 0xe3, 0x0d, 0xb0}},
		{To: common.HexToAddress("0x02"), Value: "0", Data: hexutil.Bytes{0xaa}},
	}
}

func TestAddress(t *testing.T) {
	ctx := context.Background()
	account, factory := newTestAccount(0)

	addr, err := account.Address(ctx, owner)
	require.NoError(t, err)

	initializer, err := account.Initializer(owner)
	require.NoError(t, err)
	assert.Equal(t, PredictAddress(factory.code, initializer, big.NewInt(0)), addr)

	t.Run("creation code is read once", func(t *testing.T) {
		_, err := account.Address(ctx, common.HexToAddress("0x1234"))
		require.NoError(t, err)
		assert.Equal(t, 1, factory.calls)
	})

	t.Run("owner and salt nonce change the address", func(t *testing.T) {
		other, err := account.Address(ctx, common.HexToAddress("0x1234"))
		require.NoError(t, err)
		assert.NotEqual(t, addr, other)

		salted, _ := newTestAccount(1)
		saltedAddr, err := salted.Address(ctx, owner)
		require.NoError(t, err)
		assert.NotEqual(t, addr, saltedAddr)
	})
}

func TestInitCode(t *testing.T) {
	account, _ := newTestAccount(0)

	factory, data, err := account.InitCode(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, ProxyFactoryAddress, factory)

	method := proxyFactoryABI.Methods["createProxyWithNonce"]
	assert.Equal(t, method.ID, data[:4])

	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, SafeL2SingletonAddress, args[0].(common.Address))

	initializer, err := account.Initializer(owner)
	require.NoError(t, err)
	assert.Equal(t, initializer, args[1].([]byte))

	setup := safeABI.Methods["setup"]
	setupArgs, err := setup.Inputs.Unpack(initializer[4:])
	require.NoError(t, err)
	assert.Equal(t, []common.Address{owner}, setupArgs[0].([]common.Address))
	assert.Equal(t, ModuleSetupAddress, setupArgs[2].(common.Address))
	assert.Equal(t, Safe4337ModuleAddress, setupArgs[4].(common.Address))
}

func TestEncodeMultiSend(t *testing.T) {
	packed, err := EncodeMultiSend(batch())
	require.NoError(t, err)

	first := 1 + 20 + 32 + 32 + 4
	require.Len(t, packed, first+1+20+32+32+1)

	assert.Equal(t, OperationCall, packed[0])
	assert.Equal(t, common.HexToAddress("0x01").Bytes(), packed[1:21])
	assert.Equal(t, big.NewInt(5), new(big.Int).SetBytes(packed[21:53]))
	assert.Equal(t, big.NewInt(4), new(big.Int).SetBytes(packed[53:85]))
	assert.Equal(t, []byte{0xd0, 0xe3, 0x0d, 0xb0}, packed[85:89])
	assert.Equal(t, common.HexToAddress("0x02").Bytes(), packed[first+1:first+21])

	_, err = EncodeMultiSend([]models.BatchTx{{To: common.HexToAddress("0x01"), Value: "-1"}})
	assert.Error(t, err)
}

func TestEncodeCalls(t *testing.T) {
	account, _ := newTestAccount(0)
	method := safe4337ModuleABI.Methods["executeUserOp"]

	t.Run("batch delegates to multisend", func(t *testing.T) {
		data, err := account.EncodeCalls(batch())
		require.NoError(t, err)
		assert.Equal(t, method.ID, data[:4])

		args, err := method.Inputs.Unpack(data[4:])
		require.NoError(t, err)
		assert.Equal(t, MultiSendAddress, args[0].(common.Address))
		assert.Equal(t, OperationDelegateCall, args[3].(uint8))
		assert.Equal(t, multiSendABI.Methods["multiSend"].ID, args[2].([]byte)[:4])
	})

	t.Run("single call goes direct", func(t *testing.T) {
		data, err := account.EncodeCalls(batch()[:1])
		require.NoError(t, err)

		args, err := method.Inputs.Unpack(data[4:])
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x01"), args[0].(common.Address))
		assert.Equal(t, big.NewInt(5), args[1].(*big.Int))
		assert.Equal(t, OperationCall, args[3].(uint8))
	})
}

func TestSign(t *testing.T) {
	account, _ := newTestAccount(0)
	op := aa.NewUserOperation(common.HexToAddress("0xe5"), big.NewInt(0))
	op.CallData = []byte{0x01}

	sig, err := account.Sign(op, 8453, entryPoint)
	require.NoError(t, err)
	require.Len(t, sig, 12+65)
	assert.Equal(t, make([]byte, 12), sig[:12], "zero validity window")

	hash, err := SafeOperationHash(op, 8453, entryPoint, 0, 0)
	require.NoError(t, err)

	ecdsa := append([]byte{}, sig[12:]...)
	ecdsa[64] -= 27
	pub, err := crypto.SigToPub(hash.Bytes(), ecdsa)
	require.NoError(t, err)
	assert.Equal(t, owner, crypto.PubkeyToAddress(*pub))

	t.Run("digest is chain bound and differs from the user op hash", func(t *testing.T) {
		other, err := SafeOperationHash(op, 1, entryPoint, 0, 0)
		require.NoError(t, err)
		assert.NotEqual(t, hash, other)
		userOpHash, err := op.Hash(entryPoint, 8453)
		require.NoError(t, err)
		assert.NotEqual(t, userOpHash, hash)
	})
}
