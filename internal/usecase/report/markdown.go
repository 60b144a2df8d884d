package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// FormatAmount renders an amount with its currency's symbol and separators,
// e.g. 1675 CAD as "$1,675.00"
func FormatAmount(amount decimal.Decimal, code domain.CurrencyCode) string {
	// money.New never returns a nil currency, even for unknown codes
	cur := money.New(0, string(code)).Currency()
	shifted := amount.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(shifted.IntPart())
}

// Markdown renders the dashboard as a markdown document for terminal display
func Markdown(d *Dashboard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Net Worth: %s\n\n", d.Month.Label())
	fmt.Fprintf(&b, "**Total (%s):** %s\n\n", d.Target, FormatAmount(d.Total, d.Target))

	if d.Previous != nil {
		sign := ""
		if d.Delta.IsPositive() {
			sign = "+"
		}
		fmt.Fprintf(&b, "**Change since %s:** %s%s (%s%s%%)\n\n",
			d.Previous.Month.Label(),
			sign, FormatAmount(d.Delta, d.Target),
			sign, d.DeltaPercent.StringFixed(2))
	}

	if len(d.Codes) > 1 {
		b.WriteString("## In Every Currency\n\n")
		for _, code := range d.Codes {
			fmt.Fprintf(&b, "- **%s**: %s\n", code, FormatAmount(d.Totals[code], code))
		}
		b.WriteString("\n")
	}

	if len(d.Accounts) > 0 {
		b.WriteString("## Accounts\n\n")
		fmt.Fprintf(&b, "| Owner | Account | Type | Balance | Value (%s) |\n", d.Target)
		b.WriteString("|---|---|---|---|---|\n")
		for _, line := range d.Accounts {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				line.Owner,
				line.Account,
				line.AccountType,
				FormatAmount(line.Native, line.Currency),
				FormatAmount(line.Converted, d.Target))
		}
		b.WriteString("\n")
	}

	if len(d.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, warning := range d.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
		b.WriteString("\n")
	}

	return b.String()
}
