// Command fintrackctl operates on the ledger store from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var commands = []subcommands.Command{
	&listCmd{},
	&addCmd{},
	&deleteCmd{},
	&accountsCmd{},
	&tickCmd{},
	&budgetCmd{},
	&summaryCmd{},
	&exportCmd{},
	&importCmd{},
	&clearCmd{},
	&watchCmd{},
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
