package blockchain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const vaultABIJSON = `[
	{"type":"function","name":"requestDeposit","stateMutability":"nonpayable","inputs":[{"name":"assets","type":"uint256"},{"name":"controller","type":"address"},{"name":"owner","type":"address"},{"name":"referral","type":"address"}],"outputs":[{"name":"requestId","type":"uint256"}]},
	{"type":"function","name":"cancelRequestDeposit","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"setOperator","stateMutability":"nonpayable","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"asset","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`

const erc20ABIJSON = `[
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}
]`

const wrappedNativeABIJSON = `[
	{"type":"function","name":"deposit","stateMutability":"payable","inputs":[],"outputs":[]}
]`

const multicall3ABIJSON = `[
	{"type":"function","name":"aggregate3","stateMutability":"payable","inputs":[{"name":"calls","type":"tuple[]","components":[{"name":"target","type":"address"},{"name":"allowFailure","type":"bool"},{"name":"callData","type":"bytes"}]}],"outputs":[{"name":"returnData","type":"tuple[]","components":[{"name":"success","type":"bool"},{"name":"returnData","type":"bytes"}]}]}
]`

var (
	VaultABI         = mustParseABI(vaultABIJSON)
	ERC20ABI         = mustParseABI(erc20ABIJSON)
	WrappedNativeABI = mustParseABI(wrappedNativeABIJSON)
	Multicall3ABI    = mustParseABI(multicall3ABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("invalid ABI: " + err.Error())
	}
	return parsed
}
