package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/comptes/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI surface for shell completion. It must be kept
// in sync with cmd.Register.
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"data-file": predict.Files("*.jsonl"),
	},
	Sub: map[string]*complete.Command{
		"import-qif": {
			Flags: map[string]complete.Predictor{
				"force":      predict.Nothing,
				"parse-memo": predict.Nothing,
			},
			Args: predict.Files("*.qif"),
		},
		"import-categories": {Args: predict.Files("*.csv")},
		"import-valuations": {
			Flags: map[string]complete.Predictor{"force": predict.Nothing},
			Args:  predict.Files("*.csv"),
		},
		"add": {
			Flags: map[string]complete.Predictor{
				"d": predict.Something,
				"a": predict.Something,
				"c": predict.Something,
				"r": predict.Something,
				"m": predict.Something,
			},
		},
		"del": {},
		"transfer": {
			Flags: map[string]complete.Predictor{
				"d": predict.Something,
				"a": predict.Something,
				"m": predict.Something,
			},
		},
		"accounts":  {},
		"wallet":    {},
		"update":    {},
		"recompute": {},
		"fmt":       {},
	},
}

func main() {
	completion.Complete("cts")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
