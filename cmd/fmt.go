package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the data file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cts fmt

  Reads the data file, recomputes every cached balance, and writes it back
  in canonical order: entities first, then transactions sorted by date. The
  result diffs cleanly under version control.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// loading already recomputes all cached fields
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load data file: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := closeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving data file: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %q.\n", *dataFile)
	return subcommands.ExitSuccess
}
