package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrNoWalletAddress is returned when an operation needs a wallet and none is configured
	ErrNoWalletAddress = errors.New("no wallet address found")

	// ErrNoProvider is returned when no RPC provider is available for the selected network
	ErrNoProvider = errors.New("no provider found")

	// ErrMissingConfig is returned when required configuration is absent
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrUnsupportedChain is returned when a chain has no known deployment of a required contract
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrInvalidAmount is returned when an amount cannot be parsed for the token's decimals
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrReceiptTimeout is returned when a receipt poll exhausts its attempts
	ErrReceiptTimeout = errors.New("receipt not available")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")
)

// IsPrecondition reports whether err is a precondition failure. Precondition
// failures are never retried and never trigger a fallback strategy.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoWalletAddress) ||
		errors.Is(err, ErrNoProvider) ||
		errors.Is(err, ErrMissingConfig) ||
		errors.Is(err, ErrInvalidAmount)
}

// MissingConfigError names the configuration key that was not provided
type MissingConfigError struct {
	Key  string
	Hint string
}

func (e MissingConfigError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s is required (%s)", e.Key, e.Hint)
	}
	return fmt.Sprintf("%s is required", e.Key)
}

func (e MissingConfigError) Unwrap() error {
	return ErrMissingConfig
}

// UnknownFilterErr is returned when an activity filter name is not recognised
type UnknownFilterErr struct {
	Name string
}

func (e UnknownFilterErr) Error() string {
	names := make([]string, len(ActivityFilters))
	for i, f := range ActivityFilters {
		names[i] = string(f)
	}

	if matches := fuzzy.Find(e.Name, names); len(matches) > 0 {
		return fmt.Sprintf("unknown filter %q - did you mean %q?", e.Name, matches[0].Str)
	}
	return fmt.Sprintf("unknown filter %q (valid: %s)", e.Name, strings.Join(names, ", "))
}
