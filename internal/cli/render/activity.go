package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/domain/models"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	amountStyle    = color.New(color.FgWhite, color.Bold)
	timestampStyle = color.New(color.Faint)
	hashStyle      = color.New(color.FgCyan)
	pendingStyle   = color.New(color.FgYellow)
	settledStyle   = color.New(color.FgGreen)
	failedStyle    = color.New(color.FgRed)
	filterStyle    = color.New(color.FgBlack, color.BgCyan)
)

var typeLabels = map[models.TransactionType]string{
	models.TransactionTypeDeposit:        "Deposit",
	models.TransactionTypeWithdraw:       "Withdraw",
	models.TransactionTypeClaim:          "Claim",
	models.TransactionTypeRedeem:         "Redeem",
	models.TransactionTypeClaimAndRedeem: "Claim & Redeem",
	models.TransactionTypeSent:           "Sent",
	models.TransactionTypeReceived:       "Received",
}

// TypeLabel returns the display label for a transaction type
func TypeLabel(t models.TransactionType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

// StatusIcon returns the icon shown for a settlement status
func StatusIcon(status models.TransactionStatus) string {
	switch status {
	case models.TransactionStatusWaitingSettlement:
		return "⏳"
	case models.TransactionStatusSettled:
		return "✓"
	case models.TransactionStatusCompleted:
		return "✓✓"
	case models.TransactionStatusFailed:
		return "✗"
	default:
		return "?"
	}
}

// StatusLabel returns "<icon> <Status>" for a settlement status
func StatusLabel(status models.TransactionStatus) string {
	return StatusIcon(status) + " " + cases.Title(language.English).String(strings.ReplaceAll(string(status), "_", " "))
}

func statusColor(status models.TransactionStatus) *color.Color {
	switch status {
	case models.TransactionStatusWaitingSettlement:
		return pendingStyle
	case models.TransactionStatusFailed:
		return failedStyle
	default:
		return settledStyle
	}
}

// ActivityRenderer renders vault activity
type ActivityRenderer struct {
	out     io.Writer
	color   bool
	network *config.Network
}

// NewActivityRenderer creates a new activity renderer
func NewActivityRenderer(out io.Writer, color bool, network *config.Network) *ActivityRenderer {
	return &ActivityRenderer{
		out:     out,
		color:   color,
		network: network,
	}
}

// Render writes the filtered transactions in the requested format
func (r *ActivityRenderer) Render(result *usecase.ActivityResult, format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return RenderStructured(r.out, format, r.structured(result))
	default:
		return r.RenderTable(result)
	}
}

// RenderTable writes the filtered transactions as a table
func (r *ActivityRenderer) RenderTable(result *usecase.ActivityResult) error {
	fmt.Fprintf(r.out, "%s %s\n\n",
		styled(r.color, headerStyle, "Vault activity"),
		styled(r.color, filterStyle, " "+result.Filter.Label()+" "))

	if len(result.Transactions) == 0 {
		fmt.Fprintln(r.out, "No activity found")
		return nil
	}

	fmt.Fprint(r.out, r.Table(result.Transactions, -1))
	fmt.Fprintf(r.out, "\n%d of %d transactions\n", len(result.Transactions), len(result.All))
	return nil
}

// Table renders rows as a borderless table. The row at cursor, if any, is
// marked with an arrow.
func (r *ActivityRenderer) Table(txs []models.Transaction, cursor int) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "  ",
		MiddleHorizontal: "─",
	}

	header := table.Row{"", "TYPE", "AMOUNT", "STATUS", "TIME", "TX"}
	withLinks := r.network != nil && r.network.ExplorerURL != ""
	if withLinks {
		header = append(header, "EXPLORER")
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})

	for i, tx := range txs {
		marker := " "
		if i == cursor {
			marker = "▸"
		}
		row := table.Row{
			marker,
			TypeLabel(tx.Type),
			styled(r.color, amountStyle, tx.Amount),
			styled(r.color, statusColor(tx.Status), StatusLabel(tx.Status)),
			styled(r.color, timestampStyle, tx.Timestamp),
			styled(r.color, hashStyle, tx.TxHashShort),
		}
		if withLinks {
			row = append(row, r.network.TxURL(tx.TxHash))
		}
		t.AppendRow(row)
	}

	return t.Render() + "\n"
}

type activityOutput struct {
	Vault        string              `json:"vault" yaml:"vault"`
	ChainID      uint64              `json:"chainId" yaml:"chainId"`
	Filter       string              `json:"filter" yaml:"filter"`
	Total        int                 `json:"total" yaml:"total"`
	Transactions []transactionOutput `json:"transactions" yaml:"transactions"`
}

type transactionOutput struct {
	models.Transaction `yaml:",inline"`
	Cancellable        bool   `json:"cancellable" yaml:"cancellable"`
	ExplorerURL        string `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
}

func (r *ActivityRenderer) structured(result *usecase.ActivityResult) activityOutput {
	out := activityOutput{
		Filter: string(result.Filter),
		Total:  len(result.All),
		Transactions: lo.Map(result.Transactions, func(tx models.Transaction, _ int) transactionOutput {
			return transactionOutput{
				Transaction: tx,
				Cancellable: tx.IsCancellable(),
				ExplorerURL: r.network.TxURL(tx.TxHash),
			}
		}),
	}
	if result.Contracts != nil {
		out.Vault = result.Contracts.Vault.Hex()
		out.ChainID = result.Contracts.ChainID
	}
	return out
}
