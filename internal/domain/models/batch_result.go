package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// BatchStatus names a stage of a smart-account batch submission
type BatchStatus string

const (
	BatchStatusIdle              BatchStatus = "idle"
	BatchStatusPending           BatchStatus = "pending"
	BatchStatusSimulating        BatchStatus = "simulating"
	BatchStatusSimulationSuccess BatchStatus = "simulation-success"
	BatchStatusSuccess           BatchStatus = "success"
	BatchStatusError             BatchStatus = "error"
)

// SafeBatchResult is the state of a smart-account batch. The set of
// implementations is closed: BatchIdle, BatchPending, BatchSimulating,
// BatchSimulationSuccess, BatchSuccess and BatchError.
type SafeBatchResult interface {
	Status() BatchStatus
	isSafeBatchResult()
}

type BatchIdle struct{}

type BatchPending struct{}

type BatchSimulating struct{}

// BatchSimulationSuccess carries the bundler's total gas estimate as a decimal string
type BatchSimulationSuccess struct {
	Estimate string
}

type BatchSuccess struct {
	UserOpHash  common.Hash
	SafeAddress common.Address
	TxHash      common.Hash
}

type BatchError struct {
	Err error
}

func (BatchIdle) Status() BatchStatus              { return BatchStatusIdle }
func (BatchPending) Status() BatchStatus           { return BatchStatusPending }
func (BatchSimulating) Status() BatchStatus        { return BatchStatusSimulating }
func (BatchSimulationSuccess) Status() BatchStatus { return BatchStatusSimulationSuccess }
func (BatchSuccess) Status() BatchStatus           { return BatchStatusSuccess }
func (BatchError) Status() BatchStatus             { return BatchStatusError }

func (BatchIdle) isSafeBatchResult()              {}
func (BatchPending) isSafeBatchResult()           {}
func (BatchSimulating) isSafeBatchResult()        {}
func (BatchSimulationSuccess) isSafeBatchResult() {}
func (BatchSuccess) isSafeBatchResult()           {}
func (BatchError) isSafeBatchResult()             {}

func (e BatchError) Error() string {
	if e.Err == nil {
		return "batch failed"
	}
	return e.Err.Error()
}

func (e BatchError) Unwrap() error {
	return e.Err
}

// UserOpResult is the outcome of a confirmed user operation
type UserOpResult struct {
	UserOpHash   common.Hash    `json:"userOpHash"`
	Sender       common.Address `json:"sender"`
	TxHash       common.Hash    `json:"transactionHash"`
	Success      bool           `json:"success"`
	ActualGasFee string         `json:"actualGasCost,omitempty"`
}
