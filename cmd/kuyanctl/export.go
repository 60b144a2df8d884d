package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	currency string
	output   string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the full snapshot history as CSV" }
func (*exportCmd) Usage() string {
	return `kuyanctl export [-currency CAD] [-o history.csv]

  Writes every account balance in every recorded month as CSV, with
  native and converted amounts. Without -o the CSV goes to stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "Currency to value balances in (defaults to DEFAULT_CURRENCY)")
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	var w io.Writer = os.Stdout
	if c.output != "" {
		file, createErr := os.Create(c.output)
		if createErr != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, createErr)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	if err := a.reports.ExportCSV(ctx, w, target); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.output != "" {
		fmt.Printf("Wrote snapshot history to %s\n", c.output)
	}
	return subcommands.ExitSuccess
}
