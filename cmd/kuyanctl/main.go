// kuyanctl is the admin CLI for kuyan. It shares the server's configuration
// and talks straight to the database, so commands work without the HTTP
// server running.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&seedCmd{}, "data")
	commander.Register(&exportCmd{}, "data")

	commander.Register(&ratesCmd{}, "reports")
	commander.Register(&reportCmd{}, "reports")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
