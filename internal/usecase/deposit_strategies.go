package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// Strategy names, in the order auto mode ranks them
const (
	StrategySmartAccount = "smart-account"
	StrategyMulticall    = "multicall"
	StrategySequential   = "sequential"
)

// DepositReceipt describes how a deposit landed on chain
type DepositReceipt struct {
	Strategy     string         `json:"strategy"`
	TxHashes     []common.Hash  `json:"txHashes"`
	UserOpHash   common.Hash    `json:"userOpHash,omitempty"`
	SmartAccount common.Address `json:"smartAccount,omitempty"`
}

// DepositStrategy submits a deposit one particular way
type DepositStrategy interface {
	Name() string
	Attempt(ctx context.Context, req DepositRequest) (*DepositReceipt, error)
}

// DepositStrategies holds one implementation per strategy name
type DepositStrategies struct {
	Sequential   DepositStrategy
	Multicall    DepositStrategy
	SmartAccount DepositStrategy
}

// NewDepositStrategies creates the on-chain deposit strategies
func NewDepositStrategies(
	wallet Wallet,
	assembler *CallAssembler,
	encoder CallEncoder,
	batcher SmartAccountBatcher,
	progress ProgressSink,
	log *slog.Logger,
) DepositStrategies {
	log = log.With("component", "deposit")
	return DepositStrategies{
		Sequential: &SequentialStrategy{
			wallet: wallet, assembler: assembler, progress: progress, log: log,
		},
		Multicall: &MulticallStrategy{
			wallet: wallet, assembler: assembler, encoder: encoder, progress: progress, log: log,
		},
		SmartAccount: &SmartAccountStrategy{
			batcher: batcher, assembler: assembler, progress: progress, log: log,
		},
	}
}

// Lookup returns the strategy registered under name
func (s DepositStrategies) Lookup(name string) (DepositStrategy, error) {
	var strategy DepositStrategy
	switch name {
	case StrategySequential:
		strategy = s.Sequential
	case StrategyMulticall:
		strategy = s.Multicall
	case StrategySmartAccount:
		strategy = s.SmartAccount
	}
	if strategy == nil {
		return nil, fmt.Errorf("no %s strategy available", name)
	}
	return strategy, nil
}

// sendStep broadcasts one step and waits for its receipt
func sendStep(ctx context.Context, wallet Wallet, progress ProgressSink, log *slog.Logger, step PlanStep, current, total int) (common.Hash, error) {
	progress.OnProgress(ctx, ProgressEvent{
		Stage:   step.Name,
		Current: current,
		Total:   total,
		Message: fmt.Sprintf("Sending %s (%d/%d)", step.Name, current, total),
		Spinner: true,
	})

	hash, err := wallet.Send(ctx, step.Call.Target, step.Value, step.Call.CallData)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: failed to send: %w", step.Name, err)
	}
	log.Debug("transaction sent", "step", step.Name, "hash", hash.Hex(), "to", step.Call.Target.Hex())

	progress.OnProgress(ctx, ProgressEvent{
		Stage:   step.Name,
		Current: current,
		Total:   total,
		Message: fmt.Sprintf("Waiting for %s %s", step.Name, hash.Hex()),
		Spinner: true,
	})
	if err := wallet.WaitMined(ctx, hash); err != nil {
		return hash, fmt.Errorf("%s: %w", step.Name, err)
	}
	return hash, nil
}

// SequentialStrategy sends wrap?, approve? and requestDeposit as separate
// transactions, each awaited before the next.
type SequentialStrategy struct {
	wallet    Wallet
	assembler *CallAssembler
	progress  ProgressSink
	log       *slog.Logger
}

func (s *SequentialStrategy) Name() string { return StrategySequential }

func (s *SequentialStrategy) Attempt(ctx context.Context, req DepositRequest) (*DepositReceipt, error) {
	var steps []PlanStep
	if req.Wrap {
		wrap, err := s.assembler.WrapStep(req)
		if err != nil {
			return nil, err
		}
		steps = append(steps, *wrap)
	}

	deposit, err := s.assembler.DepositSteps(ctx, req)
	if err != nil {
		return nil, err
	}
	steps = append(steps, deposit...)

	receipt := &DepositReceipt{Strategy: s.Name()}
	for i, step := range steps {
		hash, err := sendStep(ctx, s.wallet, s.progress, s.log, step, i+1, len(steps))
		if err != nil {
			return nil, err
		}
		receipt.TxHashes = append(receipt.TxHashes, hash)
	}
	return receipt, nil
}

// MulticallStrategy wraps first, grants Multicall3 operator rights in its own
// transaction, then batches [approve?, requestDeposit] through aggregate3.
type MulticallStrategy struct {
	wallet    Wallet
	assembler *CallAssembler
	encoder   CallEncoder
	progress  ProgressSink
	log       *slog.Logger
}

func (s *MulticallStrategy) Name() string { return StrategyMulticall }

func (s *MulticallStrategy) Attempt(ctx context.Context, req DepositRequest) (*DepositReceipt, error) {
	var steps []PlanStep
	if req.Wrap {
		wrap, err := s.assembler.WrapStep(req)
		if err != nil {
			return nil, err
		}
		steps = append(steps, *wrap)
	}

	// The forwarder needs operator rights before it can act for the owner
	setOperator, err := s.assembler.SetOperatorStep(req, req.Contracts.Multicall3)
	if err != nil {
		return nil, err
	}
	steps = append(steps, *setOperator)

	batched, err := s.assembler.DepositSteps(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := s.encoder.Aggregate3(Calls(batched))
	if err != nil {
		return nil, fmt.Errorf("failed to encode aggregate3: %w", err)
	}
	steps = append(steps, PlanStep{
		Name: StepAggregate,
		Call: models.Call{Target: req.Contracts.Multicall3, CallData: data},
	})

	s.log.Debug("multicall batch assembled", "calls", lo.Map(batched, func(p PlanStep, _ int) string { return p.Name }))

	receipt := &DepositReceipt{Strategy: s.Name()}
	for i, step := range steps {
		hash, err := sendStep(ctx, s.wallet, s.progress, s.log, step, i+1, len(steps))
		if err != nil {
			return nil, err
		}
		receipt.TxHashes = append(receipt.TxHashes, hash)
	}
	return receipt, nil
}

// SmartAccountStrategy sends [wrap?, setOperator, approve?, requestDeposit]
// as one user operation from the owner's smart account.
type SmartAccountStrategy struct {
	batcher   SmartAccountBatcher
	assembler *CallAssembler
	progress  ProgressSink
	log       *slog.Logger
}

func (s *SmartAccountStrategy) Name() string { return StrategySmartAccount }

func (s *SmartAccountStrategy) Attempt(ctx context.Context, req DepositRequest) (*DepositReceipt, error) {
	s.progress.OnProgress(ctx, ProgressEvent{Stage: "prepare", Message: "Preparing smart account", Spinner: true})
	account, err := s.batcher.Prepare(ctx, req.Owner)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare smart account: %w", err)
	}
	s.log.Debug("smart account ready", "address", account.Address.Hex(), "deployed", account.Deployed)

	steps, err := s.assembler.SmartAccountSteps(ctx, req, account.Address)
	if err != nil {
		return nil, err
	}
	txs := lo.Map(steps, func(p PlanStep, _ int) models.BatchTx { return p.BatchTx() })

	s.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "userop",
		Total:   len(txs),
		Message: fmt.Sprintf("Submitting user operation with %d calls", len(txs)),
		Spinner: true,
	})
	success, err := s.batcher.SendBatch(ctx, req.Owner, txs)
	if err != nil {
		return nil, err
	}

	receipt := &DepositReceipt{
		Strategy:     s.Name(),
		UserOpHash:   success.UserOpHash,
		SmartAccount: success.SafeAddress,
	}
	if success.TxHash != (common.Hash{}) {
		receipt.TxHashes = []common.Hash{success.TxHash}
	}
	return receipt, nil
}
