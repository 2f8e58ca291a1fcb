package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/comptes"
	"github.com/etnz/comptes/renderer"
	"github.com/google/subcommands"
)

type recomputeCmd struct{}

func (*recomputeCmd) Name() string { return "recompute" }
func (*recomputeCmd) Synopsis() string {
	return "recompute all running balances and account aggregates"
}
func (*recomputeCmd) Usage() string {
	return `cts recompute

  Rewrites every cached balance from the transactions. The operation is
  idempotent: a clean ledger is unchanged by it.
`
}
func (c *recomputeCmd) SetFlags(f *flag.FlagSet) {}
func (c *recomputeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	engine := comptes.NewBalanceEngine(ledger)
	if err := engine.RecomputeAll(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := closeLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Accounts(ledger))
	return subcommands.ExitSuccess
}
