package safe

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Safe v1.4.1 and Safe4337Module v0.3.0 deployments
var (
	ProxyFactoryAddress    = common.HexToAddress("0x4e1DCf7AD4e460CfD30791CCC4F9c8a4f820ec67")
	SafeL2SingletonAddress = common.HexToAddress("0x29fcB43b46531BcA003ddC8FCB67FFE91900C762")
	ModuleSetupAddress     = common.HexToAddress("0x2dd68b007B46fBe91B9A7c3EDa5A7a1063cB5b47")
	Safe4337ModuleAddress  = common.HexToAddress("0x75cf11467937ce3F2f357CE24ffc3DBF8fD5c226")
	MultiSendAddress       = common.HexToAddress("0x38869bf66a61cF6bDB996A6aE40D5853Fd43B526")
)

const safeABIJSON = `[
	{"type":"function","name":"setup","stateMutability":"nonpayable","outputs":[],
	 "inputs":[
		{"name":"_owners","type":"address[]"},
		{"name":"_threshold","type":"uint256"},
		{"name":"to","type":"address"},
		{"name":"data","type":"bytes"},
		{"name":"fallbackHandler","type":"address"},
		{"name":"paymentToken","type":"address"},
		{"name":"payment","type":"uint256"},
		{"name":"paymentReceiver","type":"address"}]}
]`

const proxyFactoryABIJSON = `[
	{"type":"function","name":"createProxyWithNonce","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"_singleton","type":"address"},
		{"name":"initializer","type":"bytes"},
		{"name":"saltNonce","type":"uint256"}],
	 "outputs":[{"name":"proxy","type":"address"}]},
	{"type":"function","name":"proxyCreationCode","stateMutability":"pure",
	 "inputs":[],"outputs":[{"name":"","type":"bytes"}]}
]`

const moduleSetupABIJSON = `[
	{"type":"function","name":"enableModules","stateMutability":"nonpayable",
	 "inputs":[{"name":"modules","type":"address[]"}],"outputs":[]}
]`

const safe4337ModuleABIJSON = `[
	{"type":"function","name":"executeUserOp","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"to","type":"address"},
		{"name":"value","type":"uint256"},
		{"name":"data","type":"bytes"},
		{"name":"operation","type":"uint8"}],
	 "outputs":[]}
]`

const multiSendABIJSON = `[
	{"type":"function","name":"multiSend","stateMutability":"payable",
	 "inputs":[{"name":"transactions","type":"bytes"}],"outputs":[]}
]`

var (
	safeABI           = mustParseABI(safeABIJSON)
	proxyFactoryABI   = mustParseABI(proxyFactoryABIJSON)
	moduleSetupABI    = mustParseABI(moduleSetupABIJSON)
	safe4337ModuleABI = mustParseABI(safe4337ModuleABIJSON)
	multiSendABI      = mustParseABI(multiSendABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
