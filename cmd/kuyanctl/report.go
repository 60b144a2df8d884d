package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/Rushit-Mehta/kuyan/internal/usecase/report"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	currency string
	plain    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the net worth dashboard for the latest month" }
func (*reportCmd) Usage() string {
	return `kuyanctl report [-currency CAD] [-plain]

  Prints the dashboard for the most recent snapshot month: the total,
  the change since the previous month, per-currency totals, and the
  account breakdown.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Currency to value the dashboard in (defaults to DEFAULT_CURRENCY)")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown without terminal styling")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	target, err := a.resolveCurrency(ctx, c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	dashboard, err := a.reports.Dashboard(ctx, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := report.Markdown(dashboard)
	if c.plain {
		fmt.Print(md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}
