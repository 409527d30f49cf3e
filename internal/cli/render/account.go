package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/vaultctl/internal/usecase"
)

// AccountRenderer renders the prepared smart account
type AccountRenderer struct {
	out   io.Writer
	color bool
}

// NewAccountRenderer creates a new account renderer
func NewAccountRenderer(out io.Writer, color bool) *AccountRenderer {
	return &AccountRenderer{out: out, color: color}
}

// Render writes the account summary
func (r *AccountRenderer) Render(result *usecase.PrepareAccountResult) error {
	account := result.Account

	fmt.Fprintln(r.out, styled(r.color, headerStyle, "Smart account"))
	fmt.Fprintf(r.out, "  %-12s %s\n", "Address:", styled(r.color, hashStyle, account.Address.Hex()))
	fmt.Fprintf(r.out, "  %-12s %s\n", "Owner:", account.Owner.Hex())
	fmt.Fprintf(r.out, "  %-12s %s\n", "Backend:", account.Backend)

	deployed := styled(r.color, pendingStyle, "no (deployed with the first user operation)")
	if account.Deployed {
		deployed = styled(r.color, settledStyle, "yes")
	}
	fmt.Fprintf(r.out, "  %-12s %s\n", "Deployed:", deployed)

	if result.Previous != (common.Address{}) && result.Previous != account.Address {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("cached address %s was replaced", result.Previous.Hex())))
	}
	return nil
}
