package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trebuchet-org/vaultctl/internal/domain/models"
)

// SourceTable is the indexer table an activity record was read from
type SourceTable string

const (
	SourceDepositRequests SourceTable = "deposit_requests"
	SourceRedeemRequests  SourceTable = "redeem_requests"
	SourceVaultReturns    SourceTable = "vault_returns"
	SourceTransfer        SourceTable = "transfer"
)

// ReturnType is the settlement kind carried by vault_returns records
type ReturnType string

const (
	ReturnTypeDeposit  ReturnType = "deposit"
	ReturnTypeWithdraw ReturnType = "withdraw"
)

// TimestampLayout is the display format for activity timestamps (always UTC)
const TimestampLayout = "Jan 2, 2006, 15:04"

// ConvertActivity normalizes raw activity records into display transactions,
// newest first. Settled deposit returns are dropped since the pending deposit
// request already represents them, as are records whose type cannot be
// resolved. The function never fails and does not mutate its input.
func ConvertActivity(records []models.ActivityRecord, underlyingDecimals uint8) []models.Transaction {
	out := make([]models.Transaction, 0, len(records))

	for _, rec := range records {
		if rec.ReturnType != nil && ReturnType(*rec.ReturnType) == ReturnTypeDeposit {
			continue
		}

		txType, ok := resolveType(rec)
		if !ok {
			continue
		}

		amount := recordAmount(rec, underlyingDecimals)
		rawTs := parseTimestamp(rec.Timestamp)

		out = append(out, models.Transaction{
			ID:          rec.Block.String(),
			Type:        txType,
			Amount:      amount,
			Status:      resolveStatus(rec.Status),
			RawTs:       rawTs,
			Timestamp:   FormatTimestamp(rawTs),
			TxHash:      rec.TxHash,
			TxHashShort: ShortHash(rec.TxHash),
			Value:       amount,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RawTs > out[j].RawTs
	})

	return out
}

// recordAmount picks assets (scaled by the underlying token) over shares (scaled by 18)
func recordAmount(rec models.ActivityRecord, underlyingDecimals uint8) string {
	if rec.Assets != nil && *rec.Assets != "" {
		return FormatUnits(rec.Assets.String(), underlyingDecimals)
	}
	if rec.Shares != nil {
		return FormatUnits(rec.Shares.String(), ShareDecimals)
	}
	return "0"
}

func resolveStatus(status *string) models.TransactionStatus {
	if status == nil || *status == "" {
		return models.TransactionStatusCompleted
	}
	switch *status {
	case "pending":
		return models.TransactionStatusWaitingSettlement
	case "canceled":
		return models.TransactionStatusFailed
	default:
		return models.TransactionStatus(*status)
	}
}

func resolveType(rec models.ActivityRecord) (models.TransactionType, bool) {
	if rec.ReturnType != nil && *rec.ReturnType != "" {
		if ReturnType(*rec.ReturnType) == ReturnTypeWithdraw {
			return models.TransactionTypeRedeem, true
		}
		return models.TransactionTypeDeposit, true
	}

	if rec.SourceTable == nil {
		return "", false
	}

	var transferType string
	if rec.TransferType != nil {
		transferType = *rec.TransferType
	}
	return TypeForSource(SourceTable(*rec.SourceTable), transferType)
}

// TypeForSource maps a source table to its display type. Redeem requests are
// shown as withdrawals; transfers take their direction from transferType.
// vault_returns without a return type and unknown tables have no display type.
func TypeForSource(source SourceTable, transferType string) (models.TransactionType, bool) {
	switch source {
	case SourceDepositRequests:
		return models.TransactionTypeDeposit, true
	case SourceRedeemRequests:
		return models.TransactionTypeWithdraw, true
	case SourceTransfer:
		switch models.TransactionType(transferType) {
		case models.TransactionTypeSent, models.TransactionTypeReceived:
			return models.TransactionType(transferType), true
		}
		return "", false
	case SourceVaultReturns:
		return "", false
	default:
		return "", false
	}
}

// ShortHash abbreviates a hash to its first 6 and last 4 characters. Inputs
// shorter than that contribute what they have to both ends.
func ShortHash(hash string) string {
	return hash[:min(6, len(hash))] + "..." + hash[max(0, len(hash)-4):]
}

// FormatTimestamp renders unix seconds in the activity display layout
func FormatTimestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(TimestampLayout)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp returns unix seconds for an API timestamp, or 0 when it cannot be parsed.
// Layouts without a zone are read as UTC. Bare integers above 1e12 are treated as milliseconds.
func parseTimestamp(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return n / 1000
		}
		return n
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Unix()
		}
	}
	return 0
}
