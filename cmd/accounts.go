package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/comptes/renderer"
	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list all accounts with their balances" }
func (*accountsCmd) Usage() string    { return "cts accounts\n" }

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}
func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Accounts(ledger))
	return subcommands.ExitSuccess
}
