package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// QueryKey identifies a cached query, e.g. ["vaultData", "0x..."]
type QueryKey [2]string

// VaultDataKey is the cache key for a vault's activity
func VaultDataKey(vault common.Address) QueryKey {
	return QueryKey{"vaultData", vault.Hex()}
}

func (k QueryKey) String() string {
	return k[0] + ":" + k[1]
}
