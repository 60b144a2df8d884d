package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	date  string
	codes string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "preview a cross-rate table" }
func (*ratesCmd) Usage() string {
	return `kuyanctl rates [-date YYYY-MM-DD] [-codes CAD,USD,INR]

  Fetches conversion rates for the enabled currencies (or an explicit list)
  and prints them as a table. Omitting -date fetches the latest rates.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Historical date for the table (defaults to latest)")
	f.StringVar(&c.codes, "codes", "", "Comma-separated currency codes (defaults to the enabled registry)")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	codes, err := c.resolveCodes(ctx, a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var (
		rates domain.RateMap
		label string
	)
	if c.date == "" {
		label = "latest"
		rates, err = a.builder.BuildLatest(ctx, codes)
	} else {
		asOf, parseErr := time.Parse("2006-01-02", c.date)
		if parseErr != nil {
			fmt.Fprintf(os.Stderr, "Error: date must be in YYYY-MM-DD form\n")
			return subcommands.ExitUsageError
		}
		label = c.date
		rates, err = a.builder.Build(ctx, codes, asOf)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(ratesMarkdown(label, codes, rates))
	return subcommands.ExitSuccess
}

func (c *ratesCmd) resolveCodes(ctx context.Context, a *app) ([]domain.CurrencyCode, error) {
	if c.codes == "" {
		return a.currencies.Codes(ctx)
	}
	var codes []domain.CurrencyCode
	for _, part := range strings.Split(c.codes, ",") {
		code := domain.CurrencyCode(strings.ToUpper(strings.TrimSpace(part)))
		if !code.Valid() {
			return nil, fmt.Errorf("currency code %q must be 3 uppercase letters", part)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// ratesMarkdown renders the rate matrix as a markdown table, row currency
// to column currency. Pairs the source did not quote print as "n/a".
func ratesMarkdown(label string, codes []domain.CurrencyCode, rates domain.RateMap) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Exchange Rates (%s)\n\n", label)
	b.WriteString("| From / To |")
	for _, to := range codes {
		fmt.Fprintf(&b, " %s |", to)
	}
	b.WriteString("\n|---|")
	for range codes {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, from := range codes {
		fmt.Fprintf(&b, "| **%s** |", from)
		for _, to := range codes {
			if rate, ok := rates.Rate(from, to); ok {
				fmt.Fprintf(&b, " %s |", rate.StringFixed(4))
			} else {
				b.WriteString(" n/a |")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
