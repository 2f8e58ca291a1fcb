package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/comptes/renderer"
	"github.com/google/subcommands"
)

type walletCmd struct{}

func (*walletCmd) Name() string     { return "wallet" }
func (*walletCmd) Synopsis() string { return "show the stock positions of a brokerage account" }
func (*walletCmd) Usage() string {
	return `cts wallet <account>

  Shows the reconstructed stock positions of one brokerage account, valued
  at the latest known quotations.
`
}

func (c *walletCmd) SetFlags(f *flag.FlagSet) {}
func (c *walletCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one account name expected")
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	account := ledger.AccountByName(f.Arg(0))
	if account == nil {
		fmt.Fprintf(os.Stderr, "unknown account %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Wallet(ledger, account))
	return subcommands.ExitSuccess
}
