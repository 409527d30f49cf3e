package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// Step names used in plans and progress output
const (
	StepWrap           = "wrap"
	StepSetOperator    = "setOperator"
	StepApprove        = "approve"
	StepRequestDeposit = "requestDeposit"
	StepAggregate      = "aggregate3"
	StepCancel         = "cancelRequestDeposit"
)

// DepositRequest is the fully resolved input every deposit strategy receives
type DepositRequest struct {
	Amount     *big.Int // in asset base units
	AmountText string
	Wrap       bool
	Owner      common.Address
	Contracts  *VaultContracts
}

// PlanStep is one ordered call of a deposit plan
type PlanStep struct {
	Name  string
	Call  models.Call
	Value *big.Int
}

// BatchTx converts the step into a smart-account batch entry
func (s PlanStep) BatchTx() models.BatchTx {
	value := "0"
	if s.Value != nil {
		value = s.Value.String()
	}
	return s.Call.ToBatchTx(value)
}

// CallAssembler builds the ordered call lists for one deposit
type CallAssembler struct {
	tokens  *TokenPreparation
	encoder CallEncoder
}

// NewCallAssembler creates a new CallAssembler
func NewCallAssembler(tokens *TokenPreparation, encoder CallEncoder) *CallAssembler {
	return &CallAssembler{tokens: tokens, encoder: encoder}
}

// WrapStep returns the wrap step carrying the deposit amount as value
func (a *CallAssembler) WrapStep(req DepositRequest) (*PlanStep, error) {
	if req.Contracts.WrappedNative == nil {
		return nil, domain.MissingConfigError{Key: "wrapped_native", Hint: "network has no wrapped native token configured"}
	}
	call, err := a.tokens.WrapCall(req.Contracts.WrappedNative.Address)
	if err != nil {
		return nil, err
	}
	return &PlanStep{Name: StepWrap, Call: *call, Value: new(big.Int).Set(req.Amount)}, nil
}

// SetOperatorStep returns setOperator(operator, true) on the vault
func (a *CallAssembler) SetOperatorStep(req DepositRequest, operator common.Address) (*PlanStep, error) {
	data, err := a.encoder.SetOperator(operator, true)
	if err != nil {
		return nil, err
	}
	return &PlanStep{Name: StepSetOperator, Call: models.Call{Target: req.Contracts.Vault, CallData: data}}, nil
}

// DepositSteps returns [approve?, requestDeposit]. Controller, owner and
// referral are all the wallet address.
func (a *CallAssembler) DepositSteps(ctx context.Context, req DepositRequest) ([]PlanStep, error) {
	var steps []PlanStep

	approve, err := a.tokens.ApproveCall(ctx, req.Contracts.Asset.Address, req.Owner, req.Contracts.Vault, req.Amount)
	if err != nil {
		return nil, err
	}
	if approve != nil {
		steps = append(steps, PlanStep{Name: StepApprove, Call: *approve})
	}

	data, err := a.encoder.RequestDeposit(req.Amount, req.Owner, req.Owner, req.Owner)
	if err != nil {
		return nil, fmt.Errorf("failed to encode requestDeposit: %w", err)
	}
	steps = append(steps, PlanStep{
		Name: StepRequestDeposit,
		Call: models.Call{Target: req.Contracts.Vault, CallData: data},
	})

	return steps, nil
}

// SmartAccountSteps returns [wrap?, setOperator(account, true), approve?, requestDeposit]
func (a *CallAssembler) SmartAccountSteps(ctx context.Context, req DepositRequest, account common.Address) ([]PlanStep, error) {
	var steps []PlanStep

	if req.Wrap {
		wrap, err := a.WrapStep(req)
		if err != nil {
			return nil, err
		}
		steps = append(steps, *wrap)
	}

	setOperator, err := a.SetOperatorStep(req, account)
	if err != nil {
		return nil, err
	}
	steps = append(steps, *setOperator)

	deposit, err := a.DepositSteps(ctx, req)
	if err != nil {
		return nil, err
	}
	return append(steps, deposit...), nil
}

// Calls extracts the multicall entries of steps in order
func Calls(steps []PlanStep) []models.Call {
	return lo.Map(steps, func(s PlanStep, _ int) models.Call { return s.Call })
}
