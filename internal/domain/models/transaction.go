package models

// TransactionType is the display classification of a vault activity entry
type TransactionType string

const (
	TransactionTypeDeposit        TransactionType = "deposit"
	TransactionTypeWithdraw       TransactionType = "withdraw"
	TransactionTypeClaim          TransactionType = "claim"
	TransactionTypeRedeem         TransactionType = "redeem"
	TransactionTypeClaimAndRedeem TransactionType = "claim_and_redeem"
	TransactionTypeSent           TransactionType = "sent"
	TransactionTypeReceived       TransactionType = "received"
)

// TransactionStatus represents the settlement status of a vault activity entry
type TransactionStatus string

const (
	TransactionStatusWaitingSettlement TransactionStatus = "waiting_settlement"
	TransactionStatusCompleted         TransactionStatus = "completed"
	TransactionStatusFailed            TransactionStatus = "failed"
	TransactionStatusSettled           TransactionStatus = "settled"
)

// Transaction is the normalized view of one vault activity record.
// It is derived on every refresh; list position is its only identity.
type Transaction struct {
	ID          string            `json:"id" yaml:"id"` // block number
	Type        TransactionType   `json:"type" yaml:"type"`
	Amount      string            `json:"amount" yaml:"amount"`
	Status      TransactionStatus `json:"status" yaml:"status"`
	RawTs       int64             `json:"rawTs" yaml:"rawTs"` // unix seconds
	Timestamp   string            `json:"timestamp" yaml:"timestamp"`
	TxHash      string            `json:"txHash" yaml:"txHash"`
	TxHashShort string            `json:"txHashShort" yaml:"txHashShort"`
	Value       string            `json:"value" yaml:"value"`
}

// IsCancellable reports whether the entry is a deposit request that can still be cancelled
func (t Transaction) IsCancellable() bool {
	return t.Type == TransactionTypeDeposit && t.Status == TransactionStatusWaitingSettlement
}

// IsTransfer reports whether the entry is a share transfer in either direction
func (t Transaction) IsTransfer() bool {
	return t.Type == TransactionTypeSent || t.Type == TransactionTypeReceived
}
