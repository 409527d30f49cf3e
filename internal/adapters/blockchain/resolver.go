package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
	"golang.org/x/sync/errgroup"
)

const metadataCacheSize = 64

type metadataKey struct {
	chainID uint64
	token   common.Address
}

// metadataReader is the subset of TokenReader the resolver needs
type metadataReader interface {
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	Symbol(ctx context.Context, token common.Address) (string, error)
	VaultAsset(ctx context.Context, vault common.Address) (common.Address, error)
}

// Resolver resolves the vault deployment and token metadata for the active network
type Resolver struct {
	client *Client
	tokens metadataReader
	log    *slog.Logger

	metadata *lru.Cache[metadataKey, models.TokenMetadata]

	mu       sync.Mutex
	resolved *usecase.VaultContracts
}

// NewResolver creates a new Resolver
func NewResolver(client *Client, tokens *TokenReader, log *slog.Logger) (*Resolver, error) {
	return newResolver(client, tokens, log)
}

func newResolver(client *Client, tokens metadataReader, log *slog.Logger) (*Resolver, error) {
	cache, err := lru.New[metadataKey, models.TokenMetadata](metadataCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}
	return &Resolver{
		client:   client,
		tokens:   tokens,
		log:      log.With("component", "resolver"),
		metadata: cache,
	}, nil
}

// Resolve returns the vault contracts for the active network
func (r *Resolver) Resolve(ctx context.Context) (*usecase.VaultContracts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved != nil {
		return r.resolved, nil
	}

	network, err := r.client.Network()
	if err != nil {
		return nil, err
	}

	asset, err := r.tokens.VaultAsset(ctx, network.Vault)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault asset: %w", err)
	}

	contracts := &usecase.VaultContracts{
		ChainID:    network.ChainID,
		Vault:      network.Vault,
		Multicall3: network.Multicall3,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meta, err := r.TokenMetadata(gctx, network.ChainID, asset)
		if err != nil {
			return err
		}
		contracts.Asset = meta
		return nil
	})
	if network.WrappedNative != (common.Address{}) {
		g.Go(func() error {
			meta, err := r.TokenMetadata(gctx, network.ChainID, network.WrappedNative)
			if err != nil {
				return err
			}
			contracts.WrappedNative = &meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.log.Debug("resolved vault",
		"vault", contracts.Vault.Hex(),
		"asset", contracts.Asset.Symbol,
		"decimals", contracts.Asset.Decimals,
	)
	r.resolved = contracts
	return contracts, nil
}

// TokenMetadata reads decimals and symbol concurrently, memoized per (chain, token)
func (r *Resolver) TokenMetadata(ctx context.Context, chainID uint64, token common.Address) (models.TokenMetadata, error) {
	key := metadataKey{chainID: chainID, token: token}
	if meta, ok := r.metadata.Get(key); ok {
		return meta, nil
	}

	meta := models.TokenMetadata{Address: token}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		decimals, err := r.tokens.Decimals(gctx, token)
		if err != nil {
			return fmt.Errorf("failed to read decimals of %s: %w", token.Hex(), err)
		}
		meta.Decimals = decimals
		return nil
	})
	g.Go(func() error {
		symbol, err := r.tokens.Symbol(gctx, token)
		if err != nil {
			// Some tokens return bytes32 symbols; the address is enough to display
			r.log.Debug("symbol unavailable", "token", token.Hex(), "error", err)
			return nil
		}
		meta.Symbol = symbol
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.TokenMetadata{}, err
	}

	r.metadata.Add(key, meta)
	return meta, nil
}

// Ensure the adapter implements the interface
var _ usecase.ContractResolver = (*Resolver)(nil)
