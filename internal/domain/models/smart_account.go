package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// SmartAccount is a counterfactual ERC-4337 account owned by the wallet
type SmartAccount struct {
	Address  common.Address `json:"address"`
	Owner    common.Address `json:"owner"`
	Backend  string         `json:"backend"`
	Deployed bool           `json:"deployed"`
}
