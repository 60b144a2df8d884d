package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// seedCmd holds the flags for the 'seed' subcommand.
type seedCmd struct {
	sample bool
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "apply migrations and seed the registry" }
func (*seedCmd) Usage() string {
	return `kuyanctl seed [-sample]

  Brings the schema up to date and seeds the default owners and currencies.
  With -sample it also loads the demo dataset: four accounts and two years
  of monthly snapshots with pinned rates.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.sample, "sample", false, "Also seed the sample accounts and snapshot history")
}

func (c *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.applyMigrations(); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying migrations: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := a.registrySeeder.SeedDefaults(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding registry defaults: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Seeded default owners and currencies")

	if c.sample {
		if err := a.sampleSeeder.SeedSampleData(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error seeding sample data: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Seeded sample accounts and snapshot history")
	}
	return subcommands.ExitSuccess
}
