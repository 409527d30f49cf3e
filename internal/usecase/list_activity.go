package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// ListActivityParams contains parameters for listing vault activity
type ListActivityParams struct {
	Filter  domain.ActivityFilter
	Refresh bool // bypass the query cache
}

// ActivityResult contains converted vault activity
type ActivityResult struct {
	Contracts    *VaultContracts
	Filter       domain.ActivityFilter
	All          []models.Transaction
	Transactions []models.Transaction // All with Filter applied
}

// ApplyFilter returns a copy of the result narrowed to f
func (r *ActivityResult) ApplyFilter(f domain.ActivityFilter) *ActivityResult {
	out := *r
	out.Filter = f
	out.Transactions = domain.FilterTransactions(r.All, f)
	return &out
}

// ListActivity fetches, converts and filters vault activity
type ListActivity struct {
	resolver ContractResolver
	source   ActivitySource
	cache    QueryCache
	log      *slog.Logger
}

// NewListActivity creates a new ListActivity use case
func NewListActivity(resolver ContractResolver, source ActivitySource, cache QueryCache, log *slog.Logger) *ListActivity {
	return &ListActivity{
		resolver: resolver,
		source:   source,
		cache:    cache,
		log:      log.With("component", "ListActivity"),
	}
}

// Run executes the use case
func (uc *ListActivity) Run(ctx context.Context, params ListActivityParams) (*ActivityResult, error) {
	contracts, err := uc.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	key := domain.VaultDataKey(contracts.Vault)
	if params.Refresh {
		uc.cache.Invalidate(key)
	}

	records, ok := uc.cache.Get(key)
	if !ok {
		records, err = uc.source.FetchActivity(ctx, contracts.ChainID, contracts.Vault)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch activity: %w", err)
		}
		uc.cache.Set(key, records)
	} else {
		uc.log.Debug("activity cache hit", "key", key.String())
	}

	filter := params.Filter
	if filter == "" {
		filter = domain.FilterAll
	}

	all := domain.ConvertActivity(records, contracts.Asset.Decimals)
	return &ActivityResult{
		Contracts:    contracts,
		Filter:       filter,
		All:          all,
		Transactions: domain.FilterTransactions(all, filter),
	}, nil
}
