package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// TokenPreparation builds the wrap and approve steps that precede a deposit
type TokenPreparation struct {
	tokens  TokenReader
	encoder CallEncoder
}

// NewTokenPreparation creates a new TokenPreparation
func NewTokenPreparation(tokens TokenReader, encoder CallEncoder) *TokenPreparation {
	return &TokenPreparation{tokens: tokens, encoder: encoder}
}

// ApproveCall returns the approve step for spender, or nil when the current
// allowance already covers amount.
func (p *TokenPreparation) ApproveCall(ctx context.Context, token, owner, spender common.Address, amount *big.Int) (*models.Call, error) {
	allowance, err := p.tokens.Allowance(ctx, token, owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to read allowance: %w", err)
	}
	if allowance.Cmp(amount) >= 0 {
		return nil, nil
	}

	data, err := p.encoder.Approve(spender, amount)
	if err != nil {
		return nil, err
	}
	return &models.Call{Target: token, CallData: data}, nil
}

// WrapCall returns the deposit() step of the wrapped native token
func (p *TokenPreparation) WrapCall(wrapped common.Address) (*models.Call, error) {
	data, err := p.encoder.WrapNative()
	if err != nil {
		return nil, err
	}
	return &models.Call{Target: wrapped, CallData: data}, nil
}
