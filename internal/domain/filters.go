package domain

import (
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// ActivityFilter selects a subset of vault activity
type ActivityFilter string

const (
	FilterAll            ActivityFilter = "all"
	FilterCancellable    ActivityFilter = "cancellable"
	FilterDeposit        ActivityFilter = "deposit"
	FilterWithdraw       ActivityFilter = "withdraw"
	FilterClaim          ActivityFilter = "claim"
	FilterRedeem         ActivityFilter = "redeem"
	FilterClaimAndRedeem ActivityFilter = "claim_and_redeem"
	FilterTransfers      ActivityFilter = "transfers"
)

// ActivityFilters lists every filter in display order
var ActivityFilters = []ActivityFilter{
	FilterAll,
	FilterCancellable,
	FilterDeposit,
	FilterWithdraw,
	FilterClaim,
	FilterRedeem,
	FilterClaimAndRedeem,
	FilterTransfers,
}

var filterLabels = map[ActivityFilter]string{
	FilterAll:            "All Activities",
	FilterCancellable:    "Cancellable",
	FilterDeposit:        "Deposits",
	FilterWithdraw:       "Withdraws",
	FilterClaim:          "Claims",
	FilterRedeem:         "Redeems",
	FilterClaimAndRedeem: "Claim & Redeem",
	FilterTransfers:      "Transfers",
}

// Label returns the human-readable name of the filter
func (f ActivityFilter) Label() string {
	if label, ok := filterLabels[f]; ok {
		return label
	}
	return string(f)
}

// Next returns the filter after f in display order, wrapping around
func (f ActivityFilter) Next() ActivityFilter {
	_, idx, ok := lo.FindIndexOf(ActivityFilters, func(item ActivityFilter) bool { return item == f })
	if !ok {
		return FilterAll
	}
	return ActivityFilters[(idx+1)%len(ActivityFilters)]
}

// Match reports whether tx passes the filter. Unknown filters match nothing.
func (f ActivityFilter) Match(tx models.Transaction) bool {
	switch f {
	case FilterAll:
		return true
	case FilterCancellable:
		return tx.IsCancellable()
	case FilterTransfers:
		return tx.IsTransfer()
	case FilterDeposit, FilterWithdraw, FilterClaim, FilterRedeem, FilterClaimAndRedeem:
		return tx.Type == models.TransactionType(f)
	default:
		return false
	}
}

// ParseActivityFilter resolves a filter name; the empty string means FilterAll
func ParseActivityFilter(name string) (ActivityFilter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FilterAll, nil
	}
	if lo.Contains(ActivityFilters, ActivityFilter(name)) {
		return ActivityFilter(name), nil
	}
	return "", UnknownFilterErr{Name: name}
}

// FilterTransactions returns the transactions matching f, preserving order
func FilterTransactions(txs []models.Transaction, f ActivityFilter) []models.Transaction {
	return lo.Filter(txs, func(tx models.Transaction, _ int) bool {
		return f.Match(tx)
	})
}
