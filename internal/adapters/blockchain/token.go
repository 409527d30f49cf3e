package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// TokenReader reads ERC-20 state through eth_call
type TokenReader struct {
	client *Client
}

// NewTokenReader creates a new TokenReader
func NewTokenReader(client *Client) *TokenReader {
	return &TokenReader{client: client}
}

func (r *TokenReader) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var allowance *big.Int
	if err := r.call(ctx, ERC20ABI, token, &allowance, "allowance", owner, spender); err != nil {
		return nil, err
	}
	return allowance, nil
}

// Decimals returns the token's decimals
func (r *TokenReader) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	var decimals uint8
	if err := r.call(ctx, ERC20ABI, token, &decimals, "decimals"); err != nil {
		return 0, err
	}
	return decimals, nil
}

// Symbol returns the token's symbol
func (r *TokenReader) Symbol(ctx context.Context, token common.Address) (string, error) {
	var symbol string
	if err := r.call(ctx, ERC20ABI, token, &symbol, "symbol"); err != nil {
		return "", err
	}
	return symbol, nil
}

// VaultAsset returns the vault's underlying asset
func (r *TokenReader) VaultAsset(ctx context.Context, vault common.Address) (common.Address, error) {
	var asset common.Address
	if err := r.call(ctx, VaultABI, vault, &asset, "asset"); err != nil {
		return common.Address{}, err
	}
	return asset, nil
}

func (r *TokenReader) call(ctx context.Context, contract abi.ABI, to common.Address, out interface{}, method string, args ...interface{}) error {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}
	result, err := r.client.CallContract(ctx, to, data)
	if err != nil {
		return fmt.Errorf("%s on %s: %w", method, to.Hex(), err)
	}
	if len(result) == 0 {
		return fmt.Errorf("%s on %s returned no data", method, to.Hex())
	}
	if err := contract.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return nil
}

// Ensure the adapter implements the interface
var _ usecase.TokenReader = (*TokenReader)(nil)
