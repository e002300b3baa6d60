package cmd

import (
	"flag"

	"github.com/etnz/drip/config"
	"github.com/etnz/drip/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of dripcalc, derived from the
// subcommands flags.
func Completion() *complete.Command {
	c := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"raw":    predict.Nothing,
		},
	}
	for _, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Sub[cmd.Name()] = commandCompletion(cmd)
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		c.Sub[name] = &complete.Command{}
	}
	return c
}

func commandCompletion(cmd subcommands.Command) *complete.Command {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)

	c := &complete.Command{Flags: map[string]complete.Predictor{}}
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			c.Flags[f.Name] = predict.Nothing
			return
		}
		c.Flags[f.Name] = predict.Something
	})

	switch cmd.Name() {
	case "topic":
		topics, _ := docs.GetAllTopics()
		c.Args = predict.Set(topics)
	case "import":
		c.Flags["from"] = predict.Dirs("*")
		c.Flags["format"] = predict.Set{config.SourceYahoo, config.SourceEODHD}
		c.Args = predict.Something
	default:
		c.Args = predict.Something
	}
	return c
}
