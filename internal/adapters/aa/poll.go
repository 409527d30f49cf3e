package aa

import (
	"context"
	"fmt"
	"time"

	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
)

const (
	DefaultPollInterval    = 2 * time.Second
	DefaultPollMaxAttempts = 90
)

// WaitForReceipt calls fetch every interval until it returns a non-nil
// result, an error, or the attempt budget runs out. Each attempt waits first.
func WaitForReceipt[T any](ctx context.Context, cfg config.PollConfig, fetch func(context.Context) (*T, error)) (*T, error) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultPollMaxAttempts
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		result, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
		timer.Reset(interval)
	}

	return nil, fmt.Errorf("%w after %d attempts", domain.ErrReceiptTimeout, attempts)
}
