package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
)

// Deposit modes accepted by SubmitDeposit
const (
	ModeAuto         = "auto"
	ModeSequential   = StrategySequential
	ModeMulticall    = StrategyMulticall
	ModeSmartAccount = StrategySmartAccount
)

// SubmitDepositParams contains parameters for submitting a deposit request
type SubmitDepositParams struct {
	Amount string // decimal amount in asset units, e.g. "1.5"
	Wrap   bool   // wrap native currency into the vault asset first
	Mode   string // empty uses the configured strategy
}

// DepositPlanResult is a validated deposit ready to execute
type DepositPlanResult struct {
	Request DepositRequest
	Ranking []string
}

// DepositResult contains the outcome of a deposit submission
type DepositResult struct {
	Request  DepositRequest
	Receipt  *DepositReceipt
	Failures []*StrategyError // strategies that failed before the one that succeeded
}

// StrategyError records which strategy failed and why
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s deposit failed: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// RankStrategies returns the strategies to try, in order, for a mode.
// Sequential is always last.
func RankStrategies(mode string, smartAccountAvailable bool) ([]string, error) {
	switch mode {
	case ModeSequential:
		return []string{StrategySequential}, nil
	case ModeMulticall:
		return []string{StrategyMulticall, StrategySequential}, nil
	case ModeSmartAccount:
		return []string{StrategySmartAccount, StrategySequential}, nil
	case ModeAuto, "":
		if smartAccountAvailable {
			return []string{StrategySmartAccount, StrategyMulticall, StrategySequential}, nil
		}
		return []string{StrategyMulticall, StrategySequential}, nil
	default:
		return nil, fmt.Errorf("unknown deposit mode %q", mode)
	}
}

// SubmitDeposit submits a deposit request through a ranked list of strategies,
// falling back to the next one when a strategy fails.
type SubmitDeposit struct {
	config     *config.RuntimeConfig
	wallet     Wallet
	resolver   ContractResolver
	batcher    SmartAccountBatcher
	strategies DepositStrategies
	progress   ProgressSink
	log        *slog.Logger
}

// NewSubmitDeposit creates a new SubmitDeposit use case
func NewSubmitDeposit(
	cfg *config.RuntimeConfig,
	wallet Wallet,
	resolver ContractResolver,
	batcher SmartAccountBatcher,
	strategies DepositStrategies,
	progress ProgressSink,
	log *slog.Logger,
) *SubmitDeposit {
	return &SubmitDeposit{
		config:     cfg,
		wallet:     wallet,
		resolver:   resolver,
		batcher:    batcher,
		strategies: strategies,
		progress:   progress,
		log:        log.With("component", "SubmitDeposit"),
	}
}

// Plan checks every precondition and resolves the request without sending anything
func (uc *SubmitDeposit) Plan(ctx context.Context, params SubmitDepositParams) (*DepositPlanResult, error) {
	owner, err := uc.wallet.Address()
	if err != nil {
		return nil, err
	}

	mode := params.Mode
	if mode == "" {
		mode = uc.config.Strategy
	}
	ready := uc.batcher.Ready()
	if ready != nil {
		if mode == ModeSmartAccount {
			return nil, ready
		}
		uc.log.Debug("smart account unavailable", "reason", ready)
	}
	ranking, err := RankStrategies(mode, ready == nil)
	if err != nil {
		return nil, err
	}

	contracts, err := uc.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := domain.ParseUnits(params.Amount, contracts.Asset.Decimals)
	if err != nil {
		return nil, err
	}

	if params.Wrap && contracts.WrappedNative == nil {
		return nil, domain.MissingConfigError{
			Key:  "wrapped_native",
			Hint: "set wrapped_native for the network to use --wrap",
		}
	}

	return &DepositPlanResult{
		Request: DepositRequest{
			Amount:     amount,
			AmountText: params.Amount,
			Wrap:       params.Wrap,
			Owner:      owner,
			Contracts:  contracts,
		},
		Ranking: ranking,
	}, nil
}

// Execute tries each ranked strategy in order. A precondition failure or a
// cancelled context stops immediately. When every strategy fails the joined
// errors are returned.
func (uc *SubmitDeposit) Execute(ctx context.Context, plan *DepositPlanResult) (*DepositResult, error) {
	result := &DepositResult{Request: plan.Request}
	var errs []error

	for i, name := range plan.Ranking {
		strategy, err := uc.strategies.Lookup(name)
		if err != nil {
			return nil, err
		}

		uc.log.Debug("attempting deposit", "strategy", name, "amount", plan.Request.AmountText, "wrap", plan.Request.Wrap)
		receipt, err := strategy.Attempt(ctx, plan.Request)
		if err == nil {
			result.Receipt = receipt
			return result, nil
		}

		serr := &StrategyError{Strategy: name, Err: err}
		if domain.IsPrecondition(err) || ctx.Err() != nil {
			return nil, serr
		}

		result.Failures = append(result.Failures, serr)
		errs = append(errs, serr)

		if i == len(plan.Ranking)-1 {
			break
		}
		next := plan.Ranking[i+1]
		uc.log.Warn("deposit strategy failed, falling back", "strategy", name, "next", next, "error", err)
		uc.progress.Info(fmt.Sprintf("%s deposit failed, falling back to %s", name, next))
	}

	return nil, errors.Join(errs...)
}

// Run plans and executes a deposit
func (uc *SubmitDeposit) Run(ctx context.Context, params SubmitDepositParams) (*DepositResult, error) {
	plan, err := uc.Plan(ctx, params)
	if err != nil {
		return nil, err
	}
	return uc.Execute(ctx, plan)
}
