package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/trebuchet-org/vaultctl/internal/domain"
	"github.com/trebuchet-org/vaultctl/internal/domain/config"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

var (
	labelStyle    = color.New(color.Faint)
	strategyStyle = color.New(color.FgMagenta, color.Bold)
)

// DepositRenderer renders deposit plans and outcomes
type DepositRenderer struct {
	out     io.Writer
	color   bool
	network *config.Network
}

// NewDepositRenderer creates a new deposit renderer
func NewDepositRenderer(out io.Writer, color bool, network *config.Network) *DepositRenderer {
	return &DepositRenderer{
		out:     out,
		color:   color,
		network: network,
	}
}

// RenderPlan shows what is about to be sent
func (r *DepositRenderer) RenderPlan(plan *usecase.DepositPlanResult) error {
	req := plan.Request
	asset := req.Contracts.Asset

	fmt.Fprintln(r.out, styled(r.color, headerStyle, "Deposit request"))
	r.field("Amount", fmt.Sprintf("%s %s", domain.FormatBigUnits(req.Amount, asset.Decimals), asset.Symbol))
	r.field("Vault", req.Contracts.Vault.Hex())
	r.field("Owner", req.Owner.Hex())
	if req.Wrap && req.Contracts.WrappedNative != nil {
		r.field("Wrap", fmt.Sprintf("native → %s", req.Contracts.WrappedNative.Symbol))
	}
	r.field("Strategy", strings.Join(lo.Map(plan.Ranking, func(name string, i int) string {
		if i == 0 {
			return styled(r.color, strategyStyle, name)
		}
		return name
	}), " → "))
	fmt.Fprintln(r.out)
	return nil
}

// RenderResult shows how the deposit landed
func (r *DepositRenderer) RenderResult(result *usecase.DepositResult) error {
	for _, failure := range result.Failures {
		fmt.Fprintln(r.out, FormatWarning(failure.Error()))
	}

	receipt := result.Receipt
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deposit request submitted via %s", receipt.Strategy)))
	if receipt.SmartAccount != (common.Address{}) {
		r.field("Smart account", receipt.SmartAccount.Hex())
	}
	if receipt.UserOpHash != (common.Hash{}) {
		r.field("User operation", receipt.UserOpHash.Hex())
	}
	for _, hash := range receipt.TxHashes {
		r.field("Transaction", r.txLink(hash))
	}
	return nil
}

// RenderCancel shows a confirmed cancellation
func (r *DepositRenderer) RenderCancel(result *usecase.CancelDepositResult) error {
	fmt.Fprintln(r.out, FormatSuccess("Deposit request cancelled"))
	r.field("Vault", result.Vault.Hex())
	r.field("Transaction", r.txLink(result.TxHash))
	return nil
}

func (r *DepositRenderer) txLink(hash common.Hash) string {
	if url := r.network.TxURL(hash.Hex()); url != "" {
		return url
	}
	return hash.Hex()
}

func (r *DepositRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", styled(r.color, labelStyle, fmt.Sprintf("%-15s", label+":")), value)
}
