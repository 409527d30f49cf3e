package aa

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ContractCaller is the read access the smart-account layer needs from the chain
type ContractCaller interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	HasCode(ctx context.Context, address common.Address) (bool, error)
}

const entryPointABIJSON = `[
	{"type":"function","name":"getNonce","stateMutability":"view",
	 "inputs":[{"name":"sender","type":"address"},{"name":"key","type":"uint192"}],
	 "outputs":[{"name":"nonce","type":"uint256"}]}
]`

var entryPointABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(entryPointABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// GetNonce reads the EntryPoint nonce for sender under key 0
func GetNonce(ctx context.Context, chain ContractCaller, entryPoint, sender common.Address) (*big.Int, error) {
	data, err := entryPointABI.Pack("getNonce", sender, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	out, err := chain.CallContract(ctx, entryPoint, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry point nonce: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("entry point %s returned no data", entryPoint.Hex())
	}
	res, err := entryPointABI.Unpack("getNonce", out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	return abi.ConvertType(res[0], new(big.Int)).(*big.Int), nil
}
