package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/comptes"
	"github.com/google/subcommands"
)

type updateCmd struct{}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "update stock quotations from the online feed"
}
func (*updateCmd) Usage() string              { return "cts update\n" }
func (c *updateCmd) SetFlags(f *flag.FlagSet) {}
func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	updated := comptes.UpdateQuotes(ledger)
	for _, name := range updated {
		fmt.Printf("updated %s\n", name)
	}

	// wallet valuations depend on the new prices
	engine := comptes.NewBalanceEngine(ledger)
	if err := engine.RecomputeAll(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := closeLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
