package models

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Call is one step of a Multicall3 aggregate3 batch
type Call struct {
	Target       common.Address `json:"target"`
	AllowFailure bool           `json:"allowFailure"`
	CallData     hexutil.Bytes  `json:"callData"`
}

// BatchTx is one step of a smart-account batch.
// Value is a decimal string of wei.
type BatchTx struct {
	To    common.Address `json:"to"`
	Value string         `json:"value"`
	Data  hexutil.Bytes  `json:"data"`
}

// ToBatchTx converts a multicall step to a smart-account step carrying value wei
func (c Call) ToBatchTx(value string) BatchTx {
	if value == "" {
		value = "0"
	}
	return BatchTx{
		To:    c.Target,
		Value: value,
		Data:  c.CallData,
	}
}

// ValueWei parses Value. An empty value is zero.
func (t BatchTx) ValueWei() (*big.Int, error) {
	if t.Value == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(t.Value, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid value %q for call to %s", t.Value, t.To.Hex())
	}
	return v, nil
}

// TokenMetadata describes an ERC-20 token
type TokenMetadata struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
}
