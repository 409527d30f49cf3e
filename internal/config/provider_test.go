package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/vaultctl/internal/domain"
)

const testVaultFile = `
[api]
base_url = "https://api.example.com/"
cache_ttl = "1m"

[smart_account]
backend = "thirdweb"
salt_nonce = 7

[networks.base]
chain_id = 8453
rpc_url = "${TEST_BASE_RPC}"
vault = "0x1111111111111111111111111111111111111111"
wrapped_native = "0x4200000000000000000000000000000000000006"
thirdweb_factory = "0x2222222222222222222222222222222222222222"

[networks.sepolia]
chain_id = 11155111
rpc_url = "https://rpc.sepolia.example"
explorer_url = "https://explorer.example/"
vault = "0x3333333333333333333333333333333333333333"
bundler_url = "https://bundler.example"
`

func writeProject(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, VaultFileName), []byte(contents), 0644))
	return dir
}

func TestProvider(t *testing.T) {
	t.Run("defaults without vaultctl.toml", func(t *testing.T) {
		dir := t.TempDir()
		v := SetupViper(dir, nil)

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(dir, ".vaultctl"), cfg.DataDir)
		assert.Equal(t, StrategyAuto, cfg.Strategy)
		assert.Equal(t, 5*time.Minute, cfg.Timeout)
		assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
		assert.Equal(t, 90, cfg.Poll.MaxAttempts)
		assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
		assert.Equal(t, DefaultCacheTTL, cfg.API.CacheTTL)
		assert.Equal(t, BackendSafe, cfg.SmartAccount.Backend)
		assert.Nil(t, cfg.Network)
		assert.Nil(t, cfg.VaultFile)
	})

	t.Run("loads vault file and selects named network", func(t *testing.T) {
		t.Setenv("TEST_BASE_RPC", "https://rpc.base.example")
		t.Setenv("PIMLICO_API_KEY", "pk_test")
		dir := writeProject(t, testVaultFile)

		v := SetupViper(dir, nil)
		v.Set("network", "base")

		cfg, err := Provider(v)
		require.NoError(t, err)

		require.NotNil(t, cfg.Network)
		assert.Equal(t, "base", cfg.Network.Name)
		assert.Equal(t, uint64(8453), cfg.Network.ChainID)
		assert.Equal(t, "https://rpc.base.example", cfg.Network.RPCURL)
		assert.Equal(t, "https://basescan.org", cfg.Network.ExplorerURL)
		assert.Equal(t, common.HexToAddress("0x4200000000000000000000000000000000000006"), cfg.Network.WrappedNative)
		assert.Equal(t, Multicall3Address, cfg.Network.Multicall3)
		assert.Equal(t, EntryPointV07Address, cfg.Network.EntryPoint)

		assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
		assert.Equal(t, time.Minute, cfg.API.CacheTTL)
		assert.Equal(t, BackendThirdweb, cfg.SmartAccount.Backend)
		assert.Equal(t, uint64(7), cfg.SmartAccount.SaltNonce)
		assert.Equal(t, PimlicoBundlerURL(8453, "pk_test"), cfg.SmartAccount.BundlerURL)
		assert.Equal(t, PimlicoPaymasterURL(8453, "pk_test"), cfg.SmartAccount.PaymasterURL)
		assert.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222"), cfg.SmartAccount.ThirdwebFactory)
	})

	t.Run("explicit bundler url wins over api key", func(t *testing.T) {
		t.Setenv("PIMLICO_API_KEY", "")
		dir := writeProject(t, testVaultFile)

		v := SetupViper(dir, nil)
		v.Set("network", "11155111")

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, "sepolia", cfg.Network.Name)
		assert.Equal(t, "https://explorer.example", cfg.Network.ExplorerURL)
		assert.Equal(t, "https://bundler.example", cfg.SmartAccount.BundlerURL)
		assert.Empty(t, cfg.SmartAccount.PaymasterURL)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("VAULTCTL_STRATEGY", "Sequential")
		t.Setenv("VAULTCTL_PRIVATE_KEY", " 0xabc ")
		dir := t.TempDir()

		cfg, err := Provider(SetupViper(dir, nil))
		require.NoError(t, err)

		assert.Equal(t, StrategySequential, cfg.Strategy)
		assert.Equal(t, "0xabc", cfg.PrivateKey)
	})

	t.Run("dotenv file is loaded", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VAULTCTL_TEST_DOTENV_KEY=0xfeed\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("VAULTCTL_TEST_DOTENV_KEY") })

		v := SetupViper(dir, nil)
		_, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, "0xfeed", v.GetString("test_dotenv_key"))
	})

	t.Run("rejects unknown strategy", func(t *testing.T) {
		v := SetupViper(t.TempDir(), nil)
		v.Set("strategy", "teleport")

		_, err := Provider(v)
		assert.ErrorContains(t, err, "unknown strategy")
	})

	t.Run("unknown network name", func(t *testing.T) {
		dir := writeProject(t, testVaultFile)
		v := SetupViper(dir, nil)
		v.Set("network", "mainnet")

		_, err := Provider(v)
		assert.ErrorContains(t, err, "unknown network")
	})
}

func TestResolveNetwork(t *testing.T) {
	t.Run("missing file is a precondition error", func(t *testing.T) {
		_, err := ResolveNetwork(nil, "")
		assert.ErrorIs(t, err, domain.ErrMissingConfig)
		assert.True(t, domain.IsPrecondition(err))
	})

	t.Run("ambiguous default", func(t *testing.T) {
		dir := writeProject(t, testVaultFile)
		vf, err := loadVaultFile(dir)
		require.NoError(t, err)

		_, err = ResolveNetwork(vf, "")
		assert.ErrorIs(t, err, domain.ErrMissingConfig)
		assert.ErrorContains(t, err, "base, sepolia")
	})

	t.Run("invalid vault address", func(t *testing.T) {
		dir := writeProject(t, "[networks.x]\nchain_id = 1\nvault = \"nope\"\n")
		vf, err := loadVaultFile(dir)
		require.NoError(t, err)

		_, err = ResolveNetwork(vf, "x")
		assert.ErrorIs(t, err, domain.ErrMissingConfig)
	})
}
