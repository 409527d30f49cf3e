package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// ShareDecimals is the fixed precision of vault shares
const ShareDecimals = 18

// FormatUnits renders a base-unit integer as a decimal string scaled by 10^decimals.
// The result is exact with trailing fractional zeros trimmed, so
// FormatUnits("500000000000000000", 18) == "0.5". Input that is not an
// integer formats as "0".
func FormatUnits(raw string, decimals uint8) string {
	value, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return "0"
	}
	return FormatBigUnits(value, decimals)
}

// FormatBigUnits is FormatUnits for an already parsed integer
func FormatBigUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}

	negative := value.Sign() < 0
	digits := new(big.Int).Abs(value).String()

	d := int(decimals)
	if len(digits) <= d {
		digits = strings.Repeat("0", d-len(digits)+1) + digits
	}

	whole := digits[:len(digits)-d]
	frac := strings.TrimRight(digits[len(digits)-d:], "0")

	out := whole
	if frac != "" {
		out = whole + "." + frac
	}
	if negative && out != "0" {
		out = "-" + out
	}
	return out
}

// ParseUnits converts a human decimal amount into base units for a token with the given decimals
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount, decimals)
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	value, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	if value.Sign() == 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)
	}
	return value, nil
}
