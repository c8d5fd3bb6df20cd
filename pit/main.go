// Command pit computes the yearly capital-gains and dividend tax report
// from brokerage statements.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/seyhak/taxrevo/cmd"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "pit")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	completion().Complete("pit")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the CLI for shell completion.
func completion() *complete.Command {
	engine := map[string]complete.Predictor{
		"statements":  predict.Files("*.csv"),
		"other-costs": predict.Files("*.json"),
		"tax-rate":    predict.Something,
		"lookback":    predict.Something,
		"online":      predict.Nothing,
	}
	sub := make(map[string]*complete.Command)
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{Flags: engine}
	}
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"rates-file":     predict.Files("*.json"),
			"splits-file":    predict.Files("*.json"),
			"local-currency": predict.Set{"PLN", "EUR"},
			"foreign-code":   predict.Set{"usd", "eur", "gbp"},
		},
	}
}
