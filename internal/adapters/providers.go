package adapters

import (
	"fmt"
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/vaultctl/internal/adapters/aa"
	"github.com/trebuchet-org/vaultctl/internal/adapters/activityapi"
	"github.com/trebuchet-org/vaultctl/internal/adapters/blockchain"
	"github.com/trebuchet-org/vaultctl/internal/adapters/cache"
	internalconfig "github.com/trebuchet-org/vaultctl/internal/adapters/config"
	"github.com/trebuchet-org/vaultctl/internal/adapters/fs"
	"github.com/trebuchet-org/vaultctl/internal/adapters/interactive"
	"github.com/trebuchet-org/vaultctl/internal/adapters/progress"
	"github.com/trebuchet-org/vaultctl/internal/adapters/safe"
	"github.com/trebuchet-org/vaultctl/internal/adapters/thirdweb"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// ProvideSmartAccount picks the smart-account implementation for the configured backend
func ProvideSmartAccount(cfg *config.RuntimeConfig, client *blockchain.Client, signer *blockchain.Signer) (aa.Account, error) {
	switch cfg.SmartAccount.Backend {
	case safe.Backend, "":
		return safe.NewAccount(cfg, client, signer), nil
	case thirdweb.Backend:
		return thirdweb.NewAccount(cfg, client, signer), nil
	default:
		return nil, fmt.Errorf("unknown smart account backend %q", cfg.SmartAccount.Backend)
	}
}

// ProvideBatcher wires the bundler and paymaster clients for the active
// network. Unset URLs leave the interfaces nil so the batcher reports
// itself unavailable or skips sponsorship.
func ProvideBatcher(
	cfg *config.RuntimeConfig,
	client *blockchain.Client,
	account aa.Account,
	store usecase.AccountStore,
	log *slog.Logger,
) *aa.Batcher {
	deps := aa.BatcherDeps{
		Chain:   client,
		Account: account,
		Store:   store,
	}
	if url := cfg.SmartAccount.BundlerURL; url != "" {
		deps.Bundler = aa.NewBundlerClient(url, log)
	}
	if url := cfg.SmartAccount.PaymasterURL; url != "" {
		deps.Paymaster = aa.NewBundlerClient(url, log)
	}
	return aa.NewBatcher(cfg, deps, log)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewAccountStoreAdapter,
	wire.Bind(new(usecase.AccountStore), new(*fs.AccountStoreAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Prompter), new(*interactive.SelectorAdapter)),

	progress.NewProgressSink,
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides RPC-backed implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	blockchain.NewSigner,
	blockchain.NewEncoder,
	wire.Bind(new(usecase.CallEncoder), new(*blockchain.Encoder)),

	blockchain.NewTokenReader,
	wire.Bind(new(usecase.TokenReader), new(*blockchain.TokenReader)),

	blockchain.NewWallet,
	wire.Bind(new(usecase.Wallet), new(*blockchain.Wallet)),

	blockchain.NewResolver,
	wire.Bind(new(usecase.ContractResolver), new(*blockchain.Resolver)),
)

// SmartAccountSet provides ERC-4337 submission
var SmartAccountSet = wire.NewSet(
	ProvideSmartAccount,
	ProvideBatcher,
	wire.Bind(new(usecase.SmartAccountBatcher), new(*aa.Batcher)),
)

// ActivitySet provides the activity API client and its query cache
var ActivitySet = wire.NewSet(
	activityapi.NewClient,
	wire.Bind(new(usecase.ActivitySource), new(*activityapi.Client)),

	cache.NewQueryCache,
	wire.Bind(new(usecase.QueryCache), new(*cache.QueryCache)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	SmartAccountSet,
	ActivitySet,
)

var (
	_ aa.Bundler    = (*aa.BundlerClient)(nil)
	_ aa.Paymaster  = (*aa.BundlerClient)(nil)
	_ aa.HashSigner = (*blockchain.Signer)(nil)
)
