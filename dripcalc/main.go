// Command dripcalc simulates dividend reinvestment plans and compares them to benchmarks.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/drip/cmd"
	"github.com/google/subcommands"
)

func main() {
	// Handles shell completion requests, and exits, when invoked by the shell.
	cmd.Completion().Complete("dripcalc")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.StringVar(&cmd.ConfigFile, "config", "", "Path to the YAML configuration file. Defaults to $DRIP_CONFIG.")
	flag.BoolVar(&cmd.Raw, "raw", false, "Print markdown as is, without rendering it for the terminal.")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
